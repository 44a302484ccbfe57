package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType classifies a repayment relative to the bill's maturity
type PaymentType string

const (
	PaymentTypeFull     PaymentType = "FULL"
	PaymentTypePartial  PaymentType = "PARTIAL"
	PaymentTypeMaturity PaymentType = "MATURITY"
	PaymentTypeEarly    PaymentType = "EARLY"
	PaymentTypeOverdue  PaymentType = "OVERDUE"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeFull, PaymentTypePartial, PaymentTypeMaturity, PaymentTypeEarly, PaymentTypeOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// RepaymentRecord documents one settlement of a discounted bill: who paid,
// how much principal and interest, and the penalty if the payment came after
// maturity. Records are immutable once written.
type RepaymentRecord struct {
	shared.BaseEntity
	BillID           uuid.UUID
	DiscountRecordID uuid.UUID
	PayerAddress     string
	PayeeAddress     string
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Penalty          *decimal.Decimal
	TotalAmount      decimal.Decimal
	OverdueDays      int
	PaymentType      PaymentType
	PaidAt           time.Time
	Remark           string
}

// NewRepaymentRecord creates a repayment record. Penalty is nil for on-time
// payments and set for overdue ones; the total always equals principal plus
// interest plus any penalty.
func NewRepaymentRecord(
	billID, discountRecordID uuid.UUID,
	payer, payee string,
	principal, interest decimal.Decimal,
	penalty *decimal.Decimal,
	overdueDays int,
	paymentType PaymentType,
	paidAt time.Time,
) (*RepaymentRecord, error) {
	if billID == uuid.Nil || discountRecordID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Bill and discount record IDs are required")
	}
	if payer == "" || payee == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Payer and payee addresses are required")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Repayment principal must be positive")
	}
	if interest.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Repayment interest cannot be negative")
	}
	if penalty != nil && penalty.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Repayment penalty cannot be negative")
	}
	if overdueDays < 0 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Overdue days cannot be negative")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Payment type is not valid")
	}

	total := principal.Add(interest)
	if penalty != nil {
		total = total.Add(*penalty)
	}

	return &RepaymentRecord{
		BaseEntity:       shared.NewBaseEntity(),
		BillID:           billID,
		DiscountRecordID: discountRecordID,
		PayerAddress:     payer,
		PayeeAddress:     payee,
		Principal:        principal,
		Interest:         interest,
		Penalty:          penalty,
		TotalAmount:      total,
		OverdueDays:      overdueDays,
		PaymentType:      paymentType,
		PaidAt:           paidAt,
	}, nil
}

// IsOverdue returns true if the payment was made after maturity
func (r *RepaymentRecord) IsOverdue() bool {
	return r.OverdueDays > 0
}

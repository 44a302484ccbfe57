package bill

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountStatus represents the status of a discount financing
type DiscountStatus string

const (
	DiscountStatusActive    DiscountStatus = "ACTIVE"
	DiscountStatusMatured   DiscountStatus = "MATURED"
	DiscountStatusRepaid    DiscountStatus = "REPAID"
	DiscountStatusCancelled DiscountStatus = "CANCELLED"
)

// IsValid checks if the discount status is valid
func (s DiscountStatus) IsValid() bool {
	switch s {
	case DiscountStatusActive, DiscountStatusMatured, DiscountStatusRepaid, DiscountStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DiscountStatus
func (s DiscountStatus) String() string {
	return string(s)
}

// IsOpen returns true while the financing still awaits repayment
func (s DiscountStatus) IsOpen() bool {
	return s == DiscountStatusActive || s == DiscountStatusMatured
}

// DiscountRecord captures the financial terms of one discount financing of a
// bill. A bill has at most one open record at a time; repayment closes it.
type DiscountRecord struct {
	shared.BaseAggregateRoot
	BillID             uuid.UUID
	HolderAddress      string
	InstitutionAddress string
	DiscountAmount     decimal.Decimal
	DiscountRate       decimal.Decimal
	DiscountInterest   decimal.Decimal
	NetProceeds        decimal.Decimal
	DiscountDate       time.Time
	MaturityDate       time.Time
	Status             DiscountStatus
	RepaidAt           *time.Time
}

// NewDiscountRecord creates an active discount record. The interest and net
// proceeds are computed from the amount, the rate and the days to maturity
// using the money-market 360-day convention.
func NewDiscountRecord(
	billID uuid.UUID,
	holder, institution string,
	amount, rate decimal.Decimal,
	discountDate, maturityDate time.Time,
) (*DiscountRecord, error) {
	if billID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Bill ID is required")
	}
	if holder == "" || institution == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Holder and institution addresses are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Discount amount must be positive")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Discount rate must be positive")
	}
	if !maturityDate.After(discountDate) {
		return nil, shared.NewDomainError(CodeInvalidDateRange, "Maturity date must be after discount date")
	}

	interest := DiscountInterest(amount, rate, DaysBetween(discountDate, maturityDate))
	net := amount.Sub(interest)

	return &DiscountRecord{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		BillID:             billID,
		HolderAddress:      holder,
		InstitutionAddress: institution,
		DiscountAmount:     amount,
		DiscountRate:       rate,
		DiscountInterest:   interest,
		NetProceeds:        net,
		DiscountDate:       discountDate,
		MaturityDate:       maturityDate,
		Status:             DiscountStatusActive,
	}, nil
}

// MarkMatured flags an active financing as past its maturity date
func (r *DiscountRecord) MarkMatured() error {
	if r.Status != DiscountStatusActive {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot mature discount record in %s status", r.Status))
	}
	r.Status = DiscountStatusMatured
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// MarkRepaid closes the financing after the drawee settles with the institution
func (r *DiscountRecord) MarkRepaid() error {
	if !r.Status.IsOpen() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot repay discount record in %s status", r.Status))
	}
	now := time.Now()
	r.Status = DiscountStatusRepaid
	r.RepaidAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// MarkCancelled voids an open financing, used when the underlying bill is
// cancelled before repayment
func (r *DiscountRecord) MarkCancelled() error {
	if !r.Status.IsOpen() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel discount record in %s status", r.Status))
	}
	r.Status = DiscountStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

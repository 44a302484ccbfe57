package bill

import (
	"time"

	"github.com/scf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the bill aggregate
const (
	EventTypeBillIssued     = "bill.issued"
	EventTypeBillAccepted   = "bill.accepted"
	EventTypeBillEndorsed   = "bill.endorsed"
	EventTypeBillDiscounted = "bill.discounted"
	EventTypeBillRepaid     = "bill.repaid"
	EventTypeBillPaid       = "bill.paid"
	EventTypeBillCancelled  = "bill.cancelled"
	EventTypeBillFrozen     = "bill.frozen"
	EventTypeBillUnfrozen   = "bill.unfrozen"
)

const aggregateTypeBill = "Bill"

// BillIssuedEvent is raised when a new bill enters circulation
type BillIssuedEvent struct {
	shared.BaseDomainEvent
	BillNumber    string          `json:"bill_number"`
	BillType      string          `json:"bill_type"`
	FaceValue     decimal.Decimal `json:"face_value"`
	Currency      string          `json:"currency"`
	DrawerAddress string          `json:"drawer_address"`
	DraweeAddress string          `json:"drawee_address"`
	PayeeAddress  string          `json:"payee_address"`
	DueDate       time.Time       `json:"due_date"`
}

// NewBillIssuedEvent creates a new bill issued event
func NewBillIssuedEvent(b *Bill) *BillIssuedEvent {
	return &BillIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillIssued, aggregateTypeBill, b.ID),
		BillNumber:      b.BillNumber,
		BillType:        b.Type.String(),
		FaceValue:       b.FaceValue,
		Currency:        string(b.Currency),
		DrawerAddress:   b.DrawerAddress,
		DraweeAddress:   b.DraweeAddress,
		PayeeAddress:    b.PayeeAddress,
		DueDate:         b.DueDate,
	}
}

// BillAcceptedEvent is raised when the drawee accepts the payment obligation
type BillAcceptedEvent struct {
	shared.BaseDomainEvent
	BillNumber    string `json:"bill_number"`
	DraweeAddress string `json:"drawee_address"`
}

// NewBillAcceptedEvent creates a new bill accepted event
func NewBillAcceptedEvent(b *Bill) *BillAcceptedEvent {
	return &BillAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillAccepted, aggregateTypeBill, b.ID),
		BillNumber:      b.BillNumber,
		DraweeAddress:   b.DraweeAddress,
	}
}

// BillEndorsedEvent is raised when holder rights transfer to a new party
type BillEndorsedEvent struct {
	shared.BaseDomainEvent
	BillNumber      string `json:"bill_number"`
	EndorserAddress string `json:"endorser_address"`
	EndorseeAddress string `json:"endorsee_address"`
	Kind            string `json:"kind"`
	SequenceNo      int    `json:"sequence_no"`
}

// NewBillEndorsedEvent creates a new bill endorsed event
func NewBillEndorsedEvent(b *Bill, endorser, endorsee string, kind EndorsementKind) *BillEndorsedEvent {
	return &BillEndorsedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillEndorsed, aggregateTypeBill, b.ID),
		BillNumber:      b.BillNumber,
		EndorserAddress: endorser,
		EndorseeAddress: endorsee,
		Kind:            kind.String(),
		SequenceNo:      b.EndorsementCount,
	}
}

// BillDiscountedEvent is raised when a bill is sold to a financial institution
type BillDiscountedEvent struct {
	shared.BaseDomainEvent
	BillNumber         string          `json:"bill_number"`
	HolderAddress      string          `json:"holder_address"`
	InstitutionAddress string          `json:"institution_address"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	DiscountRate       decimal.Decimal `json:"discount_rate"`
}

// NewBillDiscountedEvent creates a new bill discounted event
func NewBillDiscountedEvent(b *Bill, holder, institution string, amount, rate decimal.Decimal) *BillDiscountedEvent {
	return &BillDiscountedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeBillDiscounted, aggregateTypeBill, b.ID),
		BillNumber:         b.BillNumber,
		HolderAddress:      holder,
		InstitutionAddress: institution,
		DiscountAmount:     amount,
		DiscountRate:       rate,
	}
}

// BillRepaidEvent is raised when a discounted bill is settled at or after
// maturity
type BillRepaidEvent struct {
	shared.BaseDomainEvent
	BillNumber       string `json:"bill_number"`
	FinancierAddress string `json:"financier_address"`
}

// NewBillRepaidEvent creates a new bill repaid event
func NewBillRepaidEvent(b *Bill) *BillRepaidEvent {
	return &BillRepaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeBillRepaid, aggregateTypeBill, b.ID),
		BillNumber:       b.BillNumber,
		FinancierAddress: b.FinancierAddress,
	}
}

// BillPaidEvent is raised when an undiscounted bill is paid directly
type BillPaidEvent struct {
	shared.BaseDomainEvent
	BillNumber string `json:"bill_number"`
}

// NewBillPaidEvent creates a new bill paid event
func NewBillPaidEvent(b *Bill) *BillPaidEvent {
	return &BillPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillPaid, aggregateTypeBill, b.ID),
		BillNumber:      b.BillNumber,
	}
}

// BillCancelledEvent is raised when a bill is voided
type BillCancelledEvent struct {
	shared.BaseDomainEvent
	BillNumber string `json:"bill_number"`
	Reason     string `json:"reason"`
}

// NewBillCancelledEvent creates a new bill cancelled event
func NewBillCancelledEvent(b *Bill, reason string) *BillCancelledEvent {
	return &BillCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCancelled, aggregateTypeBill, b.ID),
		BillNumber:      b.BillNumber,
		Reason:          reason,
	}
}

// BillFrozenEvent is raised when a bill is placed under administrative hold
type BillFrozenEvent struct {
	shared.BaseDomainEvent
	BillNumber string `json:"bill_number"`
	Reason     string `json:"reason"`
}

// NewBillFrozenEvent creates a new bill frozen event
func NewBillFrozenEvent(b *Bill, reason string) *BillFrozenEvent {
	return &BillFrozenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillFrozen, aggregateTypeBill, b.ID),
		BillNumber:      b.BillNumber,
		Reason:          reason,
	}
}

// BillUnfrozenEvent is raised when the hold is lifted
type BillUnfrozenEvent struct {
	shared.BaseDomainEvent
	BillNumber     string `json:"bill_number"`
	RestoredStatus string `json:"restored_status"`
	Reason         string `json:"reason"`
}

// NewBillUnfrozenEvent creates a new bill unfrozen event
func NewBillUnfrozenEvent(b *Bill, reason string) *BillUnfrozenEvent {
	return &BillUnfrozenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillUnfrozen, aggregateTypeBill, b.ID),
		BillNumber:      b.BillNumber,
		RestoredStatus:  b.Status.String(),
		Reason:          reason,
	}
}

package bill

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillType represents the kind of negotiable instrument
type BillType string

const (
	BillTypeBankAcceptance       BillType = "BANK_ACCEPTANCE"
	BillTypeCommercialAcceptance BillType = "COMMERCIAL_ACCEPTANCE"
	BillTypePromissoryNote       BillType = "PROMISSORY_NOTE"
)

// IsValid checks if the bill type is valid
func (t BillType) IsValid() bool {
	switch t {
	case BillTypeBankAcceptance, BillTypeCommercialAcceptance, BillTypePromissoryNote:
		return true
	}
	return false
}

// String returns the string representation of BillType
func (t BillType) String() string {
	return string(t)
}

// BillStatus represents the lifecycle status of a bill
type BillStatus string

const (
	BillStatusDraft      BillStatus = "DRAFT"
	BillStatusIssued     BillStatus = "ISSUED"
	BillStatusEndorsed   BillStatus = "ENDORSED"
	BillStatusPledged    BillStatus = "PLEDGED"
	BillStatusDiscounted BillStatus = "DISCOUNTED"
	BillStatusFinanced   BillStatus = "FINANCED"
	BillStatusFrozen     BillStatus = "FROZEN"
	BillStatusCancelled  BillStatus = "CANCELLED"
	BillStatusPaid       BillStatus = "PAID"
	BillStatusSettled    BillStatus = "SETTLED"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusDraft, BillStatusIssued, BillStatusEndorsed, BillStatusPledged,
		BillStatusDiscounted, BillStatusFinanced, BillStatusFrozen,
		BillStatusCancelled, BillStatusPaid, BillStatusSettled:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusPaid || s == BillStatusSettled || s == BillStatusCancelled
}

// CanBeEndorsed returns true if holder rights can be transferred in this status
func (s BillStatus) CanBeEndorsed() bool {
	return s == BillStatusIssued || s == BillStatusEndorsed
}

// CanBeCancelled returns true if the bill may be voided in this status.
// Discounted and frozen bills cannot be cancelled: an active financing must be
// repaid first and a frozen bill must be unfrozen first.
func (s BillStatus) CanBeCancelled() bool {
	return s == BillStatusIssued || s == BillStatusEndorsed || s == BillStatusPledged
}

// LedgerSyncStatus tracks whether the bill's latest lifecycle event has been
// accepted by the external ledger
type LedgerSyncStatus string

const (
	LedgerSyncNotSubmitted LedgerSyncStatus = "NOT_SUBMITTED"
	LedgerSyncPending      LedgerSyncStatus = "PENDING"
	LedgerSyncConfirmed    LedgerSyncStatus = "CONFIRMED"
	LedgerSyncFailed       LedgerSyncStatus = "FAILED"
)

// IsValid checks if the sync status is valid
func (s LedgerSyncStatus) IsValid() bool {
	switch s {
	case LedgerSyncNotSubmitted, LedgerSyncPending, LedgerSyncConfirmed, LedgerSyncFailed:
		return true
	}
	return false
}

// Bill represents a negotiable financial instrument moving through the
// supply-chain finance network. It is the aggregate root: endorsement,
// discount, and repayment records exist only in reference to one bill and are
// created exclusively through the lifecycle operations.
type Bill struct {
	shared.AuditedAggregateRoot
	BillNumber string
	Type       BillType
	FaceValue  decimal.Decimal
	Currency   valueobject.Currency
	IssueDate  time.Time
	DueDate    time.Time

	DrawerID      uuid.UUID
	DrawerAddress string
	DraweeID      uuid.UUID
	DraweeAddress string
	PayeeID       uuid.UUID
	PayeeAddress  string

	// CurrentHolder is always the most recent endorsee, or the original payee
	// if the bill was never endorsed.
	CurrentHolder    string
	Status           BillStatus
	PreFreezeStatus  *BillStatus
	EndorsementCount int

	LedgerStatus LedgerSyncStatus
	LastTxHash   string

	// ParentBillID references the original bill when this one was created by a
	// split; child face values must sum to the parent's.
	ParentBillID *uuid.UUID

	// Financing snapshot, populated when the bill is discounted.
	FinancingAmount    decimal.Decimal
	FinancingRate      decimal.Decimal
	FinancierAddress   string
	FinancedAt         *time.Time
	AcceptedAt         *time.Time
	PaidAt             *time.Time
	FrozenAt           *time.Time
	FreezeReason       string
	FreezeReferenceNo  string
	CancelledAt        *time.Time
	CancelReason       string
	CancelType         string
	CancelReferenceNo  string
	Remark             string
}

// NewBill creates a bill in ISSUED state with the payee as initial holder.
// Party activity checks are the caller's responsibility; this factory only
// enforces structural invariants.
func NewBill(
	billNumber string,
	billType BillType,
	faceValue valueobject.Money,
	issueDate time.Time,
	dueDate time.Time,
	drawerID uuid.UUID, drawerAddress string,
	draweeID uuid.UUID, draweeAddress string,
	payeeID uuid.UUID, payeeAddress string,
) (*Bill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Bill number cannot be empty")
	}
	if len(billNumber) > 50 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Bill number cannot exceed 50 characters")
	}
	if !billType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Bill type is not valid")
	}
	if !faceValue.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Face value must be positive")
	}
	if !dueDate.After(issueDate) {
		return nil, shared.NewDomainError(CodeInvalidDateRange, "Due date must be after issue date")
	}
	if drawerID == uuid.Nil || draweeID == uuid.Nil || payeeID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Drawer, drawee and payee IDs are required")
	}
	if drawerAddress == "" || draweeAddress == "" || payeeAddress == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Drawer, drawee and payee addresses are required")
	}

	b := &Bill{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		BillNumber:           billNumber,
		Type:                 billType,
		FaceValue:            faceValue.Amount(),
		Currency:             faceValue.Currency(),
		IssueDate:            issueDate,
		DueDate:              dueDate,
		DrawerID:             drawerID,
		DrawerAddress:        drawerAddress,
		DraweeID:             draweeID,
		DraweeAddress:        draweeAddress,
		PayeeID:              payeeID,
		PayeeAddress:         payeeAddress,
		CurrentHolder:        payeeAddress,
		Status:               BillStatusIssued,
		LedgerStatus:         LedgerSyncNotSubmitted,
		FinancingAmount:      decimal.Zero,
		FinancingRate:        decimal.Zero,
	}

	b.AddDomainEvent(NewBillIssuedEvent(b))

	return b, nil
}

// Accept confirms the drawee's acceptance of the bill. The bill stays in
// ISSUED state after acceptance; no distinct accepted state is modeled.
func (b *Bill) Accept() error {
	if b.Status != BillStatusIssued {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot accept bill in %s status", b.Status))
	}
	now := time.Now()
	b.AcceptedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillAcceptedEvent(b))

	return nil
}

// MarkPaid settles an issued bill directly, without financing in between
func (b *Bill) MarkPaid() error {
	if b.Status != BillStatusIssued {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot pay bill in %s status", b.Status))
	}
	now := time.Now()
	b.Status = BillStatusPaid
	b.PaidAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillPaidEvent(b))

	return nil
}

// Endorse transfers holder rights to the endorsee. The endorser must be the
// current holder and may not endorse to themselves.
func (b *Bill) Endorse(endorser, endorsee string, kind EndorsementKind) error {
	if !b.Status.CanBeEndorsed() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot endorse bill in %s status", b.Status))
	}
	if !kind.IsValid() {
		return shared.NewDomainError(shared.CodeValidationFailed, "Endorsement kind is not valid")
	}
	if endorser != b.CurrentHolder {
		return shared.NewDomainError(CodeWrongHolder, "Endorser is not the current holder of the bill")
	}
	if endorsee == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Endorsee address cannot be empty")
	}
	if endorsee == endorser {
		return shared.NewDomainError(CodeSelfEndorsement, "Cannot endorse a bill to its current holder")
	}

	b.CurrentHolder = endorsee
	b.Status = BillStatusEndorsed
	b.EndorsementCount++
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBillEndorsedEvent(b, endorser, endorsee, kind))

	return nil
}

// ApplyDiscount records the sale of the bill to a financial institution before
// maturity. Holder rights transfer to the institution.
func (b *Bill) ApplyDiscount(holder, institution string, amount, rate decimal.Decimal) error {
	if !b.Status.CanBeEndorsed() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot discount bill in %s status", b.Status))
	}
	if holder != b.CurrentHolder {
		return shared.NewDomainError(CodeWrongHolder, "Only the current holder can discount the bill")
	}
	if institution == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Financial institution address cannot be empty")
	}
	if institution == holder {
		return shared.NewDomainError(CodeSelfEndorsement, "Cannot discount a bill to its current holder")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidationFailed, "Discount amount must be positive")
	}
	if amount.GreaterThan(b.FaceValue) {
		return shared.NewDomainError(shared.CodeValidationFailed,
			fmt.Sprintf("Discount amount %s exceeds face value %s", amount.StringFixed(2), b.FaceValue.StringFixed(2)))
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidationFailed, "Discount rate must be positive")
	}

	now := time.Now()
	b.CurrentHolder = institution
	b.Status = BillStatusDiscounted
	b.FinancingAmount = amount
	b.FinancingRate = rate
	b.FinancierAddress = institution
	b.FinancedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillDiscountedEvent(b, holder, institution, amount, rate))

	return nil
}

// MarkRepaid settles a discounted bill after the drawee repays the financier
func (b *Bill) MarkRepaid() error {
	if b.Status != BillStatusDiscounted {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot repay bill in %s status", b.Status))
	}
	now := time.Now()
	b.Status = BillStatusPaid
	b.PaidAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillRepaidEvent(b))

	return nil
}

// Cancel voids the bill. Only the current holder may cancel, and only while
// the bill has no active financing and is not frozen or terminal.
func (b *Bill) Cancel(caller, reason, cancelType, referenceNo string) error {
	if caller != b.CurrentHolder {
		return shared.NewDomainError(shared.CodeUnauthorized, "Only the current holder can cancel the bill")
	}
	if !b.Status.CanBeCancelled() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel bill in %s status", b.Status))
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Cancel reason is required")
	}

	now := time.Now()
	b.Status = BillStatusCancelled
	b.CancelledAt = &now
	b.CancelReason = reason
	b.CancelType = cancelType
	b.CancelReferenceNo = referenceNo
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillCancelledEvent(b, reason))

	return nil
}

// Freeze places the bill under an administrative hold, remembering the
// operative state so that Unfreeze can restore it
func (b *Bill) Freeze(caller, reason, referenceNo string) error {
	if caller != b.CurrentHolder {
		return shared.NewDomainError(shared.CodeUnauthorized, "Only the current holder can freeze the bill")
	}
	if b.Status == BillStatusFrozen {
		return shared.NewDomainError(shared.CodeInvalidState, "Bill is already frozen")
	}
	if b.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot freeze bill in %s status", b.Status))
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Freeze reason is required")
	}

	now := time.Now()
	prev := b.Status
	b.PreFreezeStatus = &prev
	b.Status = BillStatusFrozen
	b.FrozenAt = &now
	b.FreezeReason = reason
	b.FreezeReferenceNo = referenceNo
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillFrozenEvent(b, reason))

	return nil
}

// Unfreeze lifts the administrative hold and restores the pre-freeze state.
// This is the only operation that moves a bill backward in the lifecycle.
func (b *Bill) Unfreeze(reason string) error {
	if b.Status != BillStatusFrozen {
		return shared.NewDomainError(shared.CodeInvalidState, "Bill is not frozen")
	}

	restored := BillStatusIssued
	if b.PreFreezeStatus != nil {
		restored = *b.PreFreezeStatus
	}

	now := time.Now()
	b.Status = restored
	b.PreFreezeStatus = nil
	b.FrozenAt = nil
	b.FreezeReason = ""
	b.FreezeReferenceNo = ""
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillUnfrozenEvent(b, reason))

	return nil
}

// MarkLedgerPending flags the latest lifecycle event as submitted but not yet
// confirmed by the external ledger
func (b *Bill) MarkLedgerPending() {
	b.LedgerStatus = LedgerSyncPending
	b.UpdatedAt = time.Now()
}

// MarkLedgerConfirmed records the transaction reference returned by the ledger
func (b *Bill) MarkLedgerConfirmed(txHash string) {
	b.LedgerStatus = LedgerSyncConfirmed
	b.LastTxHash = txHash
	b.UpdatedAt = time.Now()
}

// MarkLedgerFailed flags the latest submission as rejected by the ledger
func (b *Bill) MarkLedgerFailed() {
	b.LedgerStatus = LedgerSyncFailed
	b.UpdatedAt = time.Now()
}

// GetFaceValueMoney returns the face value as Money
func (b *Bill) GetFaceValueMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(b.FaceValue, b.Currency)
	return m
}

// IsOverdue returns true if the bill is past its due date and not settled
func (b *Bill) IsOverdue(at time.Time) bool {
	if b.Status.IsTerminal() {
		return false
	}
	return at.After(b.DueDate)
}

// RemainingDays returns the whole days between the given date and maturity,
// never negative
func (b *Bill) RemainingDays(from time.Time) int {
	days := DaysBetween(from, b.DueDate)
	if days < 0 {
		return 0
	}
	return days
}

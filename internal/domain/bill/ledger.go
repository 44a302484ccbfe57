package bill

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// LedgerAction identifies the lifecycle event being submitted to the ledger
type LedgerAction string

const (
	LedgerActionIssue    LedgerAction = "ISSUE"
	LedgerActionAccept   LedgerAction = "ACCEPT"
	LedgerActionEndorse  LedgerAction = "ENDORSE"
	LedgerActionDiscount LedgerAction = "DISCOUNT"
	LedgerActionPay      LedgerAction = "PAY"
	LedgerActionRepay    LedgerAction = "REPAY"
	LedgerActionCancel   LedgerAction = "CANCEL"
	LedgerActionFreeze   LedgerAction = "FREEZE"
	LedgerActionUnfreeze LedgerAction = "UNFREEZE"
)

// LedgerSubmission is the payload sent to the external ledger for one
// lifecycle event
type LedgerSubmission struct {
	BillID     uuid.UUID
	BillNumber string
	Action     LedgerAction
	Payload    map[string]any
}

// LedgerEndorsement is one entry of the endorsement history as recorded on
// the external ledger
type LedgerEndorsement struct {
	Endorser string
	Endorsee string
	Kind     string
}

// LedgerGateway submits bill lifecycle events to the external blockchain
// ledger and reads back its recorded state
type LedgerGateway interface {
	// Submit records a lifecycle event on the ledger and returns the
	// transaction reference. Any failure wraps a *LedgerError.
	Submit(ctx context.Context, sub LedgerSubmission) (txHash string, err error)
	// FetchEndorsementHistory returns the endorsement chain the ledger holds
	// for the bill, in sequence order.
	FetchEndorsementHistory(ctx context.Context, billNumber string) ([]LedgerEndorsement, error)
}

// LedgerError represents a failure reported by or while reaching the ledger
type LedgerError struct {
	Action  LedgerAction
	Message string
	Err     error
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger %s failed: %s: %v", e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("ledger %s failed: %s", e.Action, e.Message)
}

// Unwrap returns the underlying cause
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a ledger error for the given action
func NewLedgerError(action LedgerAction, message string, err error) *LedgerError {
	return &LedgerError{Action: action, Message: message, Err: err}
}

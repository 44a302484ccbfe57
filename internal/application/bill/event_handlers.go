package bill

import (
	"context"

	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BillAuditHandler writes an audit log line for every bill lifecycle event.
// Regulated bill networks require an operation trail independent of the
// ledger's own transaction log.
type BillAuditHandler struct {
	logger *zap.Logger
}

// NewBillAuditHandler creates a new BillAuditHandler
func NewBillAuditHandler(logger *zap.Logger) *BillAuditHandler {
	return &BillAuditHandler{logger: logger}
}

// EventTypes returns the bill lifecycle events this handler consumes
func (h *BillAuditHandler) EventTypes() []string {
	return []string{
		bill.EventTypeBillIssued,
		bill.EventTypeBillAccepted,
		bill.EventTypeBillEndorsed,
		bill.EventTypeBillDiscounted,
		bill.EventTypeBillRepaid,
		bill.EventTypeBillPaid,
		bill.EventTypeBillCancelled,
		bill.EventTypeBillFrozen,
		bill.EventTypeBillUnfrozen,
	}
}

// Handle logs the event with its aggregate identity
func (h *BillAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("bill lifecycle event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("bill_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

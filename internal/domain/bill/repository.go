package bill

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
)

// BillFilter extends the base filter with bill-specific criteria
type BillFilter struct {
	shared.Filter
	Status        *BillStatus
	Type          *BillType
	HolderAddress string
	DrawerAddress string
	DraweeAddress string
	DueFrom       *time.Time
	DueTo         *time.Time
	Overdue       *bool
}

// BillRepository defines the persistence interface for bills
type BillRepository interface {
	Save(ctx context.Context, b *Bill) error
	// SaveWithLock persists the bill only if the stored version matches the
	// aggregate's previous version, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, b *Bill) error
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	FindByBillNumber(ctx context.Context, billNumber string) (*Bill, error)
	FindAll(ctx context.Context, filter BillFilter) (shared.Paginated[*Bill], error)
	FindByHolder(ctx context.Context, holderAddress string, filter BillFilter) (shared.Paginated[*Bill], error)
	ExistsByBillNumber(ctx context.Context, billNumber string) (bool, error)
	CountByStatus(ctx context.Context, status BillStatus) (int64, error)
	GenerateBillNumber(ctx context.Context) (string, error)
}

// EndorsementRepository defines the persistence interface for endorsement
// records. Records are append-only.
type EndorsementRepository interface {
	Save(ctx context.Context, e *Endorsement) error
	FindByBillID(ctx context.Context, billID uuid.UUID) ([]*Endorsement, error)
	CountByBillID(ctx context.Context, billID uuid.UUID) (int64, error)
}

// DiscountRecordRepository defines the persistence interface for discount
// records
type DiscountRecordRepository interface {
	Save(ctx context.Context, r *DiscountRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*DiscountRecord, error)
	FindByBillID(ctx context.Context, billID uuid.UUID) ([]*DiscountRecord, error)
	// FindOpenByBillID returns the single ACTIVE or MATURED record for the
	// bill, or nil when none exists.
	FindOpenByBillID(ctx context.Context, billID uuid.UUID) (*DiscountRecord, error)
}

// RepaymentRecordRepository defines the persistence interface for repayment
// records. Records are append-only.
type RepaymentRecordRepository interface {
	Save(ctx context.Context, r *RepaymentRecord) error
	FindByBillID(ctx context.Context, billID uuid.UUID) ([]*RepaymentRecord, error)
}

// PartyRegistry answers whether a network participant is registered and
// active. Backed by a local replica of the party directory.
type PartyRegistry interface {
	IsPartyActive(ctx context.Context, address string) (bool, error)
}

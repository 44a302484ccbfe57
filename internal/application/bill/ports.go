package bill

import (
	"context"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
)

// Repositories bundles the bill-context repositories bound to one
// transactional scope
type Repositories struct {
	Bills            bill.BillRepository
	Endorsements     bill.EndorsementRepository
	DiscountRecords  bill.DiscountRecordRepository
	RepaymentRecords bill.RepaymentRecordRepository
}

// UnitOfWork executes a function against transaction-bound repositories.
// If the function returns an error the whole local write set is rolled back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// BillLocker serializes mutations per bill. While one operation holds the
// lock, no other mutating operation on the same bill may proceed.
type BillLocker interface {
	// Acquire takes the per-bill lock and returns a release function.
	// Returns ErrLockNotAcquired if another operation is in flight.
	Acquire(ctx context.Context, billID uuid.UUID) (release func(), err error)
}

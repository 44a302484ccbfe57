package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	appbill "github.com/scf/backend/internal/application/bill"
)

// lockEntry represents a held bill lock with expiration. The token
// identifies the holder so a stale release cannot remove a lock that has
// expired and been re-acquired by someone else.
type lockEntry struct {
	token     uuid.UUID
	expiresAt time.Time
}

// InMemoryBillLocker implements appbill.BillLocker using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryBillLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]lockEntry
	ttl   time.Duration
}

// NewInMemoryBillLocker creates a new in-memory bill locker
func NewInMemoryBillLocker(ttl time.Duration) *InMemoryBillLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &InMemoryBillLocker{
		locks: make(map[uuid.UUID]lockEntry),
		ttl:   ttl,
	}
}

// Acquire takes the per-bill lock. An expired entry is treated as free so
// a crashed or leaked holder cannot block the bill forever.
func (l *InMemoryBillLocker) Acquire(ctx context.Context, billID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, held := l.locks[billID]; held && time.Now().Before(e.expiresAt) {
		return nil, appbill.ErrLockNotAcquired
	}

	token := uuid.New()
	l.locks[billID] = lockEntry{token: token, expiresAt: time.Now().Add(l.ttl)}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		// Only the current holder may delete; a release arriving after the
		// TTL expired and another holder took over must be a no-op.
		if e, held := l.locks[billID]; held && e.token == token {
			delete(l.locks, billID)
		}
	}
	return release, nil
}

// Size returns the number of held locks (for testing/monitoring)
func (l *InMemoryBillLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Ensure InMemoryBillLocker implements BillLocker
var _ appbill.BillLocker = (*InMemoryBillLocker)(nil)

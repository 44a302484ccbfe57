package bill

import (
	"context"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockBillRepository is a mock implementation of bill.BillRepository
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Save(ctx context.Context, b *bill.Bill) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBillRepository) SaveWithLock(ctx context.Context, b *bill.Bill) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bill.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByBillNumber(ctx context.Context, billNumber string) (*bill.Bill, error) {
	args := m.Called(ctx, billNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bill.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter bill.BillFilter) (shared.Paginated[*bill.Bill], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*bill.Bill]), args.Error(1)
}

func (m *MockBillRepository) FindByHolder(ctx context.Context, holderAddress string, filter bill.BillFilter) (shared.Paginated[*bill.Bill], error) {
	args := m.Called(ctx, holderAddress, filter)
	return args.Get(0).(shared.Paginated[*bill.Bill]), args.Error(1)
}

func (m *MockBillRepository) ExistsByBillNumber(ctx context.Context, billNumber string) (bool, error) {
	args := m.Called(ctx, billNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) CountByStatus(ctx context.Context, status bill.BillStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillRepository) GenerateBillNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockEndorsementRepository is a mock implementation of bill.EndorsementRepository
type MockEndorsementRepository struct {
	mock.Mock
}

func (m *MockEndorsementRepository) Save(ctx context.Context, e *bill.Endorsement) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEndorsementRepository) FindByBillID(ctx context.Context, billID uuid.UUID) ([]*bill.Endorsement, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bill.Endorsement), args.Error(1)
}

func (m *MockEndorsementRepository) CountByBillID(ctx context.Context, billID uuid.UUID) (int64, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDiscountRecordRepository is a mock implementation of bill.DiscountRecordRepository
type MockDiscountRecordRepository struct {
	mock.Mock
}

func (m *MockDiscountRecordRepository) Save(ctx context.Context, r *bill.DiscountRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDiscountRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*bill.DiscountRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bill.DiscountRecord), args.Error(1)
}

func (m *MockDiscountRecordRepository) FindByBillID(ctx context.Context, billID uuid.UUID) ([]*bill.DiscountRecord, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bill.DiscountRecord), args.Error(1)
}

func (m *MockDiscountRecordRepository) FindOpenByBillID(ctx context.Context, billID uuid.UUID) (*bill.DiscountRecord, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bill.DiscountRecord), args.Error(1)
}

// MockRepaymentRecordRepository is a mock implementation of bill.RepaymentRecordRepository
type MockRepaymentRecordRepository struct {
	mock.Mock
}

func (m *MockRepaymentRecordRepository) Save(ctx context.Context, r *bill.RepaymentRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepaymentRecordRepository) FindByBillID(ctx context.Context, billID uuid.UUID) ([]*bill.RepaymentRecord, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bill.RepaymentRecord), args.Error(1)
}

// MockPartyRegistry is a mock implementation of bill.PartyRegistry
type MockPartyRegistry struct {
	mock.Mock
}

func (m *MockPartyRegistry) IsPartyActive(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

// MockLedgerGateway is a mock implementation of bill.LedgerGateway
type MockLedgerGateway struct {
	mock.Mock
}

func (m *MockLedgerGateway) Submit(ctx context.Context, sub bill.LedgerSubmission) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerGateway) FetchEndorsementHistory(ctx context.Context, billNumber string) ([]bill.LedgerEndorsement, error) {
	args := m.Called(ctx, billNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bill.LedgerEndorsement), args.Error(1)
}

// fakeUnitOfWork executes the function directly against the given
// repositories, standing in for a real transaction
type fakeUnitOfWork struct {
	repos Repositories
}

func (u *fakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return fn(ctx, u.repos)
}

// fakeLocker hands out the lock unconditionally
type fakeLocker struct{}

func (l *fakeLocker) Acquire(ctx context.Context, billID uuid.UUID) (func(), error) {
	return func() {}, nil
}

// contendedLocker simulates another in-flight operation on the same bill
type contendedLocker struct{}

func (l *contendedLocker) Acquire(ctx context.Context, billID uuid.UUID) (func(), error) {
	return nil, ErrLockNotAcquired
}

// noopPublisher discards domain events
type noopPublisher struct{}

func (p *noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return nil
}

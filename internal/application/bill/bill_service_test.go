package bill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	addrDrawer      = "0xaaaa000000000000000000000000000000000001"
	addrDrawee      = "0xbbbb000000000000000000000000000000000002"
	addrPayee       = "0xcccc000000000000000000000000000000000003"
	addrPartyB      = "0xdddd000000000000000000000000000000000004"
	addrPartyC      = "0xdddd000000000000000000000000000000000005"
	addrInstitution = "0xeeee000000000000000000000000000000000006"
)

type serviceFixture struct {
	bills        *MockBillRepository
	endorsements *MockEndorsementRepository
	discounts    *MockDiscountRecordRepository
	repayments   *MockRepaymentRecordRepository
	registry     *MockPartyRegistry
	ledger       *MockLedgerGateway
	service      *BillService
}

func newServiceFixture(locker BillLocker) *serviceFixture {
	f := &serviceFixture{
		bills:        new(MockBillRepository),
		endorsements: new(MockEndorsementRepository),
		discounts:    new(MockDiscountRecordRepository),
		repayments:   new(MockRepaymentRecordRepository),
		registry:     new(MockPartyRegistry),
		ledger:       new(MockLedgerGateway),
	}
	repos := Repositories{
		Bills:            f.bills,
		Endorsements:     f.endorsements,
		DiscountRecords:  f.discounts,
		RepaymentRecords: f.repayments,
	}
	f.service = NewBillService(
		repos,
		&fakeUnitOfWork{repos: repos},
		f.registry,
		f.ledger,
		locker,
		&noopPublisher{},
		zap.NewNop(),
	)
	return f
}

func issuedBill(t *testing.T) *bill.Bill {
	t.Helper()
	issue := time.Now().AddDate(0, -1, 0)
	b, err := bill.NewBill(
		"BILL-20250801-00001",
		bill.BillTypeBankAcceptance,
		valueobject.NewMoneyCNY(decimal.NewFromInt(1_000_000)),
		issue, issue.AddDate(0, 6, 0),
		uuid.New(), addrDrawer,
		uuid.New(), addrDrawee,
		uuid.New(), addrPayee,
	)
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func issueRequest() IssueBillRequest {
	issue := time.Now()
	return IssueBillRequest{
		Type:          string(bill.BillTypeBankAcceptance),
		FaceValue:     decimal.NewFromInt(1_000_000),
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 6, 0),
		DrawerID:      uuid.New(),
		DrawerAddress: addrDrawer,
		DraweeID:      uuid.New(),
		DraweeAddress: addrDrawee,
		PayeeID:       uuid.New(),
		PayeeAddress:  addrPayee,
	}
}

func TestIssueBill(t *testing.T) {
	t.Run("issues and confirms on ledger", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		f.registry.On("IsPartyActive", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)
		f.bills.On("GenerateBillNumber", mock.Anything).Return("BILL-20250831-00042", nil)
		f.bills.On("Save", mock.Anything, mock.AnythingOfType("*bill.Bill")).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.MatchedBy(func(sub bill.LedgerSubmission) bool {
			return sub.Action == bill.LedgerActionIssue
		})).Return("0xtxissue", nil)

		resp, err := f.service.IssueBill(context.Background(), issueRequest())

		require.NoError(t, err)
		assert.Equal(t, "BILL-20250831-00042", resp.BillNumber)
		assert.Equal(t, string(bill.BillStatusIssued), resp.Status)
		assert.Equal(t, addrPayee, resp.CurrentHolder)
		assert.Equal(t, string(bill.LedgerSyncConfirmed), resp.LedgerStatus)
		assert.Equal(t, "0xtxissue", resp.LastTxHash)
		f.bills.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("rejects inactive party before any write", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		f.registry.On("IsPartyActive", mock.Anything, addrDrawer).Return(false, nil)

		_, err := f.service.IssueBill(context.Background(), issueRequest())

		assert.True(t, shared.HasCode(err, bill.CodePartyNotActive))
		f.bills.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.ledger.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate bill number", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		f.registry.On("IsPartyActive", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)
		f.bills.On("ExistsByBillNumber", mock.Anything, "BILL-DUP").Return(true, nil)

		req := issueRequest()
		req.BillNumber = "BILL-DUP"
		_, err := f.service.IssueBill(context.Background(), req)

		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))
	})

	t.Run("ledger failure surfaces integration error without local state", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		f.registry.On("IsPartyActive", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)
		f.bills.On("GenerateBillNumber", mock.Anything).Return("BILL-20250831-00043", nil)
		f.bills.On("Save", mock.Anything, mock.AnythingOfType("*bill.Bill")).Return(nil)
		ledgerErr := bill.NewLedgerError(bill.LedgerActionIssue, "node unreachable", errors.New("connection refused"))
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("", ledgerErr)

		_, err := f.service.IssueBill(context.Background(), issueRequest())

		var le *bill.LedgerError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, bill.LedgerActionIssue, le.Action)
	})
}

func TestAcceptBill(t *testing.T) {
	t.Run("drawee accepts", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.MatchedBy(func(sub bill.LedgerSubmission) bool {
			return sub.Action == bill.LedgerActionAccept
		})).Return("0xtxaccept", nil)

		resp, err := f.service.AcceptBill(context.Background(), addrDrawee, b.ID)

		require.NoError(t, err)
		assert.Equal(t, string(bill.BillStatusIssued), resp.Status)
		assert.NotNil(t, resp.AcceptedAt)
	})

	t.Run("rejects non-drawee", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)

		_, err := f.service.AcceptBill(context.Background(), addrPartyB, b.ID)

		assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
	})

	t.Run("not found", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		id := uuid.New()
		f.bills.On("FindByID", mock.Anything, id).Return(nil, nil)

		_, err := f.service.AcceptBill(context.Background(), addrDrawee, id)

		assert.True(t, shared.HasCode(err, shared.CodeNotFound))
	})
}

func TestEndorseBill(t *testing.T) {
	t.Run("appends endorsement and transfers holder", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.registry.On("IsPartyActive", mock.Anything, addrPartyB).Return(true, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("0xtxendorse", nil)
		f.endorsements.On("Save", mock.Anything, mock.MatchedBy(func(e *bill.Endorsement) bool {
			return e.SequenceNo == 1 && e.EndorseeAddress == addrPartyB && e.TxHash == "0xtxendorse"
		})).Return(nil)

		resp, err := f.service.EndorseBill(context.Background(), addrPayee, b.ID, EndorseBillRequest{
			EndorseeAddress: addrPartyB,
		})

		require.NoError(t, err)
		assert.Equal(t, string(bill.BillStatusEndorsed), resp.Status)
		assert.Equal(t, addrPartyB, resp.CurrentHolder)
		assert.Equal(t, 1, resp.EndorsementCount)
		f.endorsements.AssertExpectations(t)
	})

	t.Run("stale holder fails and only one of two competing calls succeeds", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.registry.On("IsPartyActive", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("0xtx1", nil)
		f.endorsements.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.EndorseBill(context.Background(), addrPayee, b.ID, EndorseBillRequest{EndorseeAddress: addrPartyB})
		require.NoError(t, err)

		// The second caller still believes the payee holds the bill.
		_, err = f.service.EndorseBill(context.Background(), addrPayee, b.ID, EndorseBillRequest{EndorseeAddress: addrPartyC})

		assert.True(t, shared.HasCode(err, bill.CodeWrongHolder))
		assert.Equal(t, addrPartyB, b.CurrentHolder)
		assert.Equal(t, 1, b.EndorsementCount)
	})

	t.Run("lock contention rejects the second operation", func(t *testing.T) {
		f := newServiceFixture(&contendedLocker{})

		_, err := f.service.EndorseBill(context.Background(), addrPayee, uuid.New(), EndorseBillRequest{EndorseeAddress: addrPartyB})

		assert.True(t, shared.HasCode(err, shared.CodeConcurrencyConflict))
		f.bills.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("ledger failure leaves endorsement unrecorded", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.registry.On("IsPartyActive", mock.Anything, addrPartyB).Return(true, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).
			Return("", bill.NewLedgerError(bill.LedgerActionEndorse, "rejected", nil))

		_, err := f.service.EndorseBill(context.Background(), addrPayee, b.ID, EndorseBillRequest{EndorseeAddress: addrPartyB})

		var le *bill.LedgerError
		require.ErrorAs(t, err, &le)
		f.endorsements.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDiscountBill(t *testing.T) {
	t.Run("opens discount record and transfers to institution", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.registry.On("IsPartyActive", mock.Anything, addrInstitution).Return(true, nil)
		f.discounts.On("FindOpenByBillID", mock.Anything, b.ID).Return(nil, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.discounts.On("Save", mock.Anything, mock.MatchedBy(func(r *bill.DiscountRecord) bool {
			return r.Status == bill.DiscountStatusActive && r.InstitutionAddress == addrInstitution
		})).Return(nil)
		f.endorsements.On("Save", mock.Anything, mock.MatchedBy(func(e *bill.Endorsement) bool {
			return e.Kind == bill.EndorsementKindDiscount
		})).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("0xtxdiscount", nil)

		resp, err := f.service.DiscountBill(context.Background(), addrPayee, b.ID, DiscountBillRequest{
			InstitutionAddress: addrInstitution,
			Amount:             decimal.NewFromInt(1_000_000),
			Rate:               decimal.NewFromFloat(0.055),
		})

		require.NoError(t, err)
		assert.Equal(t, string(bill.BillStatusDiscounted), resp.Status)
		assert.Equal(t, addrInstitution, resp.CurrentHolder)
		f.discounts.AssertExpectations(t)
	})

	t.Run("rejects second active discount", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		open, err := bill.NewDiscountRecord(b.ID, addrPayee, addrInstitution,
			decimal.NewFromInt(1000), decimal.NewFromFloat(0.05),
			time.Now().AddDate(0, 0, -1), b.DueDate)
		require.NoError(t, err)

		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.registry.On("IsPartyActive", mock.Anything, addrInstitution).Return(true, nil)
		f.discounts.On("FindOpenByBillID", mock.Anything, b.ID).Return(open, nil)

		_, err = f.service.DiscountBill(context.Background(), addrPayee, b.ID, DiscountBillRequest{
			InstitutionAddress: addrInstitution,
			Amount:             decimal.NewFromInt(1000),
			Rate:               decimal.NewFromFloat(0.05),
		})

		assert.True(t, shared.HasCode(err, shared.CodeDuplicateActiveResource))
	})
}

func TestRepayBill(t *testing.T) {
	discountedBill := func(t *testing.T, daysOverdue int) (*bill.Bill, *bill.DiscountRecord) {
		t.Helper()
		b := issuedBill(t)
		require.NoError(t, b.ApplyDiscount(addrPayee, addrInstitution,
			decimal.NewFromInt(1_000_000), decimal.NewFromFloat(0.055)))
		b.ClearDomainEvents()

		maturity := time.Now().AddDate(0, 0, -daysOverdue)
		record, err := bill.NewDiscountRecord(b.ID, addrPayee, addrInstitution,
			decimal.NewFromInt(1_000_000), decimal.NewFromFloat(0.055),
			maturity.AddDate(0, 0, -90), maturity)
		require.NoError(t, err)
		return b, record
	}

	t.Run("overdue repayment carries the penalty on net proceeds", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b, record := discountedBill(t, 10)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.discounts.On("FindOpenByBillID", mock.Anything, b.ID).Return(record, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.discounts.On("Save", mock.Anything, record).Return(nil)
		f.repayments.On("Save", mock.Anything, mock.AnythingOfType("*bill.RepaymentRecord")).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("0xtxrepay", nil)

		resp, err := f.service.RepayBill(context.Background(), addrDrawee, b.ID, RepayBillRequest{})

		require.NoError(t, err)
		assert.Equal(t, 10, resp.OverdueDays)
		require.NotNil(t, resp.Penalty)
		assert.True(t, resp.Penalty.Equal(decimal.NewFromFloat(4931.25)),
			"expected penalty 4931.25, got %s", resp.Penalty)
		assert.Equal(t, string(bill.PaymentTypeOverdue), resp.PaymentType)
		assert.Equal(t, bill.DiscountStatusRepaid, record.Status)
		assert.Equal(t, bill.BillStatusPaid, b.Status)
	})

	t.Run("on-time repayment has no penalty", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b, record := discountedBill(t, 0)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.discounts.On("FindOpenByBillID", mock.Anything, b.ID).Return(record, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.discounts.On("Save", mock.Anything, record).Return(nil)
		f.repayments.On("Save", mock.Anything, mock.AnythingOfType("*bill.RepaymentRecord")).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("0xtxrepay", nil)

		resp, err := f.service.RepayBill(context.Background(), addrDrawee, b.ID, RepayBillRequest{})

		require.NoError(t, err)
		assert.Nil(t, resp.Penalty)
		assert.Equal(t, 0, resp.OverdueDays)
	})

	t.Run("only the drawee can repay", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b, _ := discountedBill(t, 0)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)

		_, err := f.service.RepayBill(context.Background(), addrPartyB, b.ID, RepayBillRequest{})

		assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
	})

	t.Run("fails without an open discount record", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b, _ := discountedBill(t, 0)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.discounts.On("FindOpenByBillID", mock.Anything, b.ID).Return(nil, nil)

		_, err := f.service.RepayBill(context.Background(), addrDrawee, b.ID, RepayBillRequest{})

		assert.True(t, shared.HasCode(err, shared.CodeNotFound))
	})

	t.Run("maturity handling keeps the record open for repayment", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b, record := discountedBill(t, 3)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.discounts.On("FindOpenByBillID", mock.Anything, b.ID).Return(record, nil)
		f.discounts.On("Save", mock.Anything, record).Return(nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.repayments.On("Save", mock.Anything, mock.AnythingOfType("*bill.RepaymentRecord")).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("0xtxrepay", nil)

		matured, err := f.service.HandleMaturity(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, string(bill.DiscountStatusMatured), matured.Status)
		assert.Equal(t, bill.BillStatusDiscounted, b.Status)

		resp, err := f.service.RepayBill(context.Background(), addrDrawee, b.ID, RepayBillRequest{})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.OverdueDays)
		assert.Equal(t, bill.DiscountStatusRepaid, record.Status)
		assert.Equal(t, bill.BillStatusPaid, b.Status)
	})
}

func TestCancelBill(t *testing.T) {
	t.Run("cancel of a discounted bill fails", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		require.NoError(t, b.ApplyDiscount(addrPayee, addrInstitution,
			decimal.NewFromInt(1_000_000), decimal.NewFromFloat(0.055)))
		b.ClearDomainEvents()
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)

		_, err := f.service.CancelBill(context.Background(), addrInstitution, b.ID, CancelBillRequest{Reason: "mistake"})

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
		f.bills.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("cancel of an issued bill is local only", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)

		resp, err := f.service.CancelBill(context.Background(), addrPayee, b.ID, CancelBillRequest{Reason: "drafting error"})

		require.NoError(t, err)
		assert.Equal(t, string(bill.BillStatusCancelled), resp.Status)
		f.ledger.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})
}

func TestFreezeUnfreezeBill(t *testing.T) {
	t.Run("freeze then unfreeze restores the operative state", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		require.NoError(t, b.Endorse(addrPayee, addrPartyB, bill.EndorsementKindTransfer))
		b.ClearDomainEvents()
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.bills.On("SaveWithLock", mock.Anything, b).Return(nil)
		f.bills.On("Save", mock.Anything, b).Return(nil)
		f.ledger.On("Submit", mock.Anything, mock.Anything).Return("0xtxfreeze", nil)

		resp, err := f.service.FreezeBill(context.Background(), addrPartyB, b.ID, FreezeBillRequest{Reason: "court order"})
		require.NoError(t, err)
		assert.Equal(t, string(bill.BillStatusFrozen), resp.Status)

		resp, err = f.service.UnfreezeBill(context.Background(), b.ID, UnfreezeBillRequest{Reason: "order lifted"})
		require.NoError(t, err)
		assert.Equal(t, string(bill.BillStatusEndorsed), resp.Status)
	})
}

func TestReconcileEndorsements(t *testing.T) {
	t.Run("reports divergence between local and ledger chains", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		e, err := bill.NewEndorsement(b.ID, 1, addrPayee, addrPartyB, bill.EndorsementKindTransfer, "")
		require.NoError(t, err)

		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.endorsements.On("FindByBillID", mock.Anything, b.ID).Return([]*bill.Endorsement{e}, nil)
		f.ledger.On("FetchEndorsementHistory", mock.Anything, b.BillNumber).Return([]bill.LedgerEndorsement{
			{Endorser: addrPayee, Endorsee: addrPartyB, Kind: "TRANSFER"},
			{Endorser: addrPartyB, Endorsee: addrPartyC, Kind: "TRANSFER"},
		}, nil)

		resp, err := f.service.ReconcileEndorsements(context.Background(), b.ID)

		require.NoError(t, err)
		assert.False(t, resp.InSync)
		require.Len(t, resp.Mismatches, 1)
		assert.Equal(t, string(bill.MismatchMissingLocally), resp.Mismatches[0].Kind)
	})

	t.Run("running twice yields identical reports", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		b := issuedBill(t)
		f.bills.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		f.endorsements.On("FindByBillID", mock.Anything, b.ID).Return([]*bill.Endorsement{}, nil)
		f.ledger.On("FetchEndorsementHistory", mock.Anything, b.BillNumber).Return([]bill.LedgerEndorsement{}, nil)

		first, err := f.service.ReconcileEndorsements(context.Background(), b.ID)
		require.NoError(t, err)
		second, err := f.service.ReconcileEndorsements(context.Background(), b.ID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestGetStatusSummary(t *testing.T) {
	t.Run("aggregates counts across statuses", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		counts := map[bill.BillStatus]int64{
			bill.BillStatusIssued:     5,
			bill.BillStatusEndorsed:   3,
			bill.BillStatusPledged:    0,
			bill.BillStatusDiscounted: 2,
			bill.BillStatusFrozen:     0,
			bill.BillStatusPaid:       0,
			bill.BillStatusSettled:    1,
			bill.BillStatusCancelled:  0,
		}
		for status, n := range counts {
			f.bills.On("CountByStatus", mock.Anything, status).Return(n, nil)
		}

		summary, err := f.service.GetStatusSummary(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(5), summary.Issued)
		assert.Equal(t, int64(3), summary.Endorsed)
		assert.Equal(t, int64(2), summary.Discounted)
		assert.Equal(t, int64(1), summary.Settled)
		assert.Equal(t, int64(0), summary.Frozen)
		assert.Equal(t, int64(11), summary.Total)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		f := newServiceFixture(&fakeLocker{})
		f.bills.On("CountByStatus", mock.Anything, bill.BillStatusIssued).
			Return(int64(0), errors.New("connection reset"))

		_, err := f.service.GetStatusSummary(context.Background())

		assert.Error(t, err)
	})
}

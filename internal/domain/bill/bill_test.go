package bill

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	addrDrawer      = "0xaaaa000000000000000000000000000000000001"
	addrDrawee      = "0xbbbb000000000000000000000000000000000002"
	addrPayee       = "0xcccc000000000000000000000000000000000003"
	addrPartyB      = "0xdddd000000000000000000000000000000000004"
	addrInstitution = "0xeeee000000000000000000000000000000000005"
)

func newTestBill(t *testing.T) *Bill {
	t.Helper()
	issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 6, 0)
	b, err := NewBill(
		"BILL-20250301-00001",
		BillTypeBankAcceptance,
		valueobject.NewMoneyCNY(decimal.NewFromInt(1_000_000)),
		issue, due,
		uuid.New(), addrDrawer,
		uuid.New(), addrDrawee,
		uuid.New(), addrPayee,
	)
	require.NoError(t, err)
	return b
}

func TestNewBill(t *testing.T) {
	t.Run("creates issued bill held by payee", func(t *testing.T) {
		b := newTestBill(t)

		assert.Equal(t, BillStatusIssued, b.Status)
		assert.Equal(t, addrPayee, b.CurrentHolder)
		assert.Equal(t, LedgerSyncNotSubmitted, b.LedgerStatus)
		assert.Equal(t, 0, b.EndorsementCount)
		assert.Equal(t, 1, b.GetVersion())
		assert.Len(t, b.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeBillIssued, b.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty bill number", func(t *testing.T) {
		issue := time.Now()
		_, err := NewBill("", BillTypeBankAcceptance,
			valueobject.NewMoneyCNY(decimal.NewFromInt(1000)),
			issue, issue.AddDate(0, 1, 0),
			uuid.New(), addrDrawer, uuid.New(), addrDrawee, uuid.New(), addrPayee)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})

	t.Run("rejects non-positive face value", func(t *testing.T) {
		issue := time.Now()
		_, err := NewBill("BILL-1", BillTypeBankAcceptance,
			valueobject.NewMoneyCNY(decimal.Zero),
			issue, issue.AddDate(0, 1, 0),
			uuid.New(), addrDrawer, uuid.New(), addrDrawee, uuid.New(), addrPayee)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})

	t.Run("rejects due date not after issue date", func(t *testing.T) {
		issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewBill("BILL-1", BillTypeBankAcceptance,
			valueobject.NewMoneyCNY(decimal.NewFromInt(1000)),
			issue, issue,
			uuid.New(), addrDrawer, uuid.New(), addrDrawee, uuid.New(), addrPayee)

		assert.True(t, shared.HasCode(err, CodeInvalidDateRange))
	})

	t.Run("rejects invalid bill type", func(t *testing.T) {
		issue := time.Now()
		_, err := NewBill("BILL-1", BillType("IOU"),
			valueobject.NewMoneyCNY(decimal.NewFromInt(1000)),
			issue, issue.AddDate(0, 1, 0),
			uuid.New(), addrDrawer, uuid.New(), addrDrawee, uuid.New(), addrPayee)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})
}

func TestBillAccept(t *testing.T) {
	t.Run("records acceptance and stays issued", func(t *testing.T) {
		b := newTestBill(t)

		err := b.Accept()

		require.NoError(t, err)
		assert.Equal(t, BillStatusIssued, b.Status)
		assert.NotNil(t, b.AcceptedAt)
		assert.Equal(t, 2, b.GetVersion())
	})

	t.Run("fails outside issued state", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.MarkPaid())

		err := b.Accept()

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})
}

func TestBillEndorse(t *testing.T) {
	t.Run("transfers holder rights", func(t *testing.T) {
		b := newTestBill(t)
		b.ClearDomainEvents()

		err := b.Endorse(addrPayee, addrPartyB, EndorsementKindTransfer)

		require.NoError(t, err)
		assert.Equal(t, BillStatusEndorsed, b.Status)
		assert.Equal(t, addrPartyB, b.CurrentHolder)
		assert.Equal(t, 1, b.EndorsementCount)
		require.Len(t, b.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeBillEndorsed, b.GetDomainEvents()[0].EventType())
	})

	t.Run("chains through multiple endorsees", func(t *testing.T) {
		b := newTestBill(t)

		require.NoError(t, b.Endorse(addrPayee, addrPartyB, EndorsementKindTransfer))
		require.NoError(t, b.Endorse(addrPartyB, addrDrawer, EndorsementKindTransfer))

		assert.Equal(t, addrDrawer, b.CurrentHolder)
		assert.Equal(t, 2, b.EndorsementCount)
	})

	t.Run("rejects endorser who is not holder", func(t *testing.T) {
		b := newTestBill(t)

		err := b.Endorse(addrPartyB, addrDrawer, EndorsementKindTransfer)

		assert.True(t, shared.HasCode(err, CodeWrongHolder))
		assert.Equal(t, addrPayee, b.CurrentHolder)
	})

	t.Run("rejects self endorsement", func(t *testing.T) {
		b := newTestBill(t)

		err := b.Endorse(addrPayee, addrPayee, EndorsementKindTransfer)

		assert.True(t, shared.HasCode(err, CodeSelfEndorsement))
	})

	t.Run("rejects endorsement of a frozen bill", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Freeze(addrPayee, "court order", "REF-1"))

		err := b.Endorse(addrPayee, addrPartyB, EndorsementKindTransfer)

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})
}

func TestBillApplyDiscount(t *testing.T) {
	t.Run("transfers holder rights to institution", func(t *testing.T) {
		b := newTestBill(t)
		amount := decimal.NewFromInt(1_000_000)
		rate := decimal.NewFromFloat(0.055)

		err := b.ApplyDiscount(addrPayee, addrInstitution, amount, rate)

		require.NoError(t, err)
		assert.Equal(t, BillStatusDiscounted, b.Status)
		assert.Equal(t, addrInstitution, b.CurrentHolder)
		assert.Equal(t, addrInstitution, b.FinancierAddress)
		assert.True(t, b.FinancingAmount.Equal(amount))
		assert.NotNil(t, b.FinancedAt)
	})

	t.Run("rejects non-holder", func(t *testing.T) {
		b := newTestBill(t)

		err := b.ApplyDiscount(addrPartyB, addrInstitution, decimal.NewFromInt(1000), decimal.NewFromFloat(0.05))

		assert.True(t, shared.HasCode(err, CodeWrongHolder))
	})

	t.Run("rejects amount above face value", func(t *testing.T) {
		b := newTestBill(t)

		err := b.ApplyDiscount(addrPayee, addrInstitution, decimal.NewFromInt(1_000_001), decimal.NewFromFloat(0.05))

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})

	t.Run("rejects double discount", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.ApplyDiscount(addrPayee, addrInstitution, decimal.NewFromInt(1000), decimal.NewFromFloat(0.05)))

		err := b.ApplyDiscount(addrInstitution, addrPartyB, decimal.NewFromInt(1000), decimal.NewFromFloat(0.05))

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})
}

func TestBillMarkRepaid(t *testing.T) {
	t.Run("settles a discounted bill", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.ApplyDiscount(addrPayee, addrInstitution, decimal.NewFromInt(1_000_000), decimal.NewFromFloat(0.055)))

		err := b.MarkRepaid()

		require.NoError(t, err)
		assert.Equal(t, BillStatusPaid, b.Status)
		assert.NotNil(t, b.PaidAt)
		assert.True(t, b.Status.IsTerminal())
	})

	t.Run("fails when not discounted", func(t *testing.T) {
		b := newTestBill(t)

		err := b.MarkRepaid()

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})
}

func TestBillCancel(t *testing.T) {
	t.Run("allowed states", func(t *testing.T) {
		for _, status := range []BillStatus{BillStatusIssued, BillStatusEndorsed, BillStatusPledged} {
			b := newTestBill(t)
			b.Status = status

			err := b.Cancel(addrPayee, "drafting error", "MANUAL", "REF-9")

			require.NoError(t, err, "status %s should be cancellable", status)
			assert.Equal(t, BillStatusCancelled, b.Status)
			assert.Equal(t, "drafting error", b.CancelReason)
		}
	})

	t.Run("rejected states", func(t *testing.T) {
		for _, status := range []BillStatus{
			BillStatusDiscounted, BillStatusFrozen, BillStatusPaid,
			BillStatusSettled, BillStatusCancelled, BillStatusFinanced, BillStatusDraft,
		} {
			b := newTestBill(t)
			b.Status = status

			err := b.Cancel(addrPayee, "drafting error", "MANUAL", "REF-9")

			assert.True(t, shared.HasCode(err, shared.CodeInvalidState),
				"status %s should not be cancellable", status)
		}
	})

	t.Run("rejects non-holder", func(t *testing.T) {
		b := newTestBill(t)

		err := b.Cancel(addrPartyB, "drafting error", "MANUAL", "")

		assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
	})

	t.Run("requires a reason", func(t *testing.T) {
		b := newTestBill(t)

		err := b.Cancel(addrPayee, "", "MANUAL", "")

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})
}

func TestBillFreezeUnfreeze(t *testing.T) {
	t.Run("freeze remembers prior state and unfreeze restores it", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Endorse(addrPayee, addrPartyB, EndorsementKindTransfer))

		require.NoError(t, b.Freeze(addrPartyB, "court order", "CASE-42"))
		assert.Equal(t, BillStatusFrozen, b.Status)
		require.NotNil(t, b.PreFreezeStatus)
		assert.Equal(t, BillStatusEndorsed, *b.PreFreezeStatus)

		require.NoError(t, b.Unfreeze("order lifted"))
		assert.Equal(t, BillStatusEndorsed, b.Status)
		assert.Nil(t, b.PreFreezeStatus)
		assert.Empty(t, b.FreezeReason)
	})

	t.Run("rejects double freeze", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Freeze(addrPayee, "court order", ""))

		err := b.Freeze(addrPayee, "second order", "")

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})

	t.Run("rejects freeze of terminal bill", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.MarkPaid())

		err := b.Freeze(addrPayee, "court order", "")

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})

	t.Run("rejects unfreeze of unfrozen bill", func(t *testing.T) {
		b := newTestBill(t)

		err := b.Unfreeze("nothing to lift")

		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})
}

func TestBillLedgerMarks(t *testing.T) {
	b := newTestBill(t)

	b.MarkLedgerPending()
	assert.Equal(t, LedgerSyncPending, b.LedgerStatus)

	b.MarkLedgerConfirmed("0xtx123")
	assert.Equal(t, LedgerSyncConfirmed, b.LedgerStatus)
	assert.Equal(t, "0xtx123", b.LastTxHash)

	b.MarkLedgerFailed()
	assert.Equal(t, LedgerSyncFailed, b.LedgerStatus)
}

func TestBillOverdue(t *testing.T) {
	b := newTestBill(t)

	assert.False(t, b.IsOverdue(b.DueDate.AddDate(0, 0, -1)))
	assert.True(t, b.IsOverdue(b.DueDate.AddDate(0, 0, 1)))

	require.NoError(t, b.MarkPaid())
	assert.False(t, b.IsOverdue(b.DueDate.AddDate(0, 0, 30)))
}

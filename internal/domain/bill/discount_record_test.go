package bill

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscountRecord(t *testing.T) *DiscountRecord {
	t.Helper()
	discountDate := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	maturity := discountDate.AddDate(0, 0, 90)
	r, err := NewDiscountRecord(
		uuid.New(),
		addrPayee, addrInstitution,
		decimal.NewFromInt(1_000_000), decimal.NewFromFloat(0.055),
		discountDate, maturity,
	)
	require.NoError(t, err)
	return r
}

func TestNewDiscountRecord(t *testing.T) {
	t.Run("computes interest and net proceeds", func(t *testing.T) {
		r := newTestDiscountRecord(t)

		assert.Equal(t, DiscountStatusActive, r.Status)
		assert.True(t, r.DiscountInterest.Equal(decimal.NewFromFloat(13750.00)),
			"expected 13750.00, got %s", r.DiscountInterest)
		assert.True(t, r.NetProceeds.Equal(decimal.NewFromFloat(986250.00)),
			"expected 986250.00, got %s", r.NetProceeds)
	})

	t.Run("rejects maturity before discount date", func(t *testing.T) {
		d := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
		_, err := NewDiscountRecord(uuid.New(), addrPayee, addrInstitution,
			decimal.NewFromInt(1000), decimal.NewFromFloat(0.05), d, d)

		assert.True(t, shared.HasCode(err, CodeInvalidDateRange))
	})

	t.Run("rejects non-positive amount or rate", func(t *testing.T) {
		d := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
		m := d.AddDate(0, 0, 30)

		_, err := NewDiscountRecord(uuid.New(), addrPayee, addrInstitution,
			decimal.Zero, decimal.NewFromFloat(0.05), d, m)
		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))

		_, err = NewDiscountRecord(uuid.New(), addrPayee, addrInstitution,
			decimal.NewFromInt(1000), decimal.Zero, d, m)
		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})
}

func TestDiscountRecordTransitions(t *testing.T) {
	t.Run("active to matured to repaid", func(t *testing.T) {
		r := newTestDiscountRecord(t)

		require.NoError(t, r.MarkMatured())
		assert.Equal(t, DiscountStatusMatured, r.Status)
		assert.True(t, r.Status.IsOpen())

		require.NoError(t, r.MarkRepaid())
		assert.Equal(t, DiscountStatusRepaid, r.Status)
		assert.NotNil(t, r.RepaidAt)
		assert.False(t, r.Status.IsOpen())
	})

	t.Run("active straight to repaid", func(t *testing.T) {
		r := newTestDiscountRecord(t)

		require.NoError(t, r.MarkRepaid())
		assert.Equal(t, DiscountStatusRepaid, r.Status)
	})

	t.Run("repaid record cannot be touched again", func(t *testing.T) {
		r := newTestDiscountRecord(t)
		require.NoError(t, r.MarkRepaid())

		assert.True(t, shared.HasCode(r.MarkRepaid(), shared.CodeInvalidState))
		assert.True(t, shared.HasCode(r.MarkMatured(), shared.CodeInvalidState))
		assert.True(t, shared.HasCode(r.MarkCancelled(), shared.CodeInvalidState))
	})
}

func TestNewRepaymentRecord(t *testing.T) {
	paidAt := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	t.Run("on-time repayment has nil penalty", func(t *testing.T) {
		r, err := NewRepaymentRecord(uuid.New(), uuid.New(),
			addrDrawee, addrInstitution,
			decimal.NewFromInt(1_000_000), decimal.NewFromInt(11000),
			nil, 0, PaymentTypeMaturity, paidAt)

		require.NoError(t, err)
		assert.Nil(t, r.Penalty)
		assert.False(t, r.IsOverdue())
		assert.True(t, r.TotalAmount.Equal(decimal.NewFromInt(1_011_000)))
	})

	t.Run("overdue repayment includes penalty in total", func(t *testing.T) {
		penalty := decimal.NewFromFloat(4931.25)
		r, err := NewRepaymentRecord(uuid.New(), uuid.New(),
			addrDrawee, addrInstitution,
			decimal.NewFromInt(1_000_000), decimal.NewFromInt(11000),
			&penalty, 10, PaymentTypeOverdue, paidAt)

		require.NoError(t, err)
		require.NotNil(t, r.Penalty)
		assert.True(t, r.IsOverdue())
		assert.True(t, r.TotalAmount.Equal(decimal.NewFromFloat(1_015_931.25)),
			"expected 1015931.25, got %s", r.TotalAmount)
	})

	t.Run("rejects negative penalty", func(t *testing.T) {
		penalty := decimal.NewFromInt(-1)
		_, err := NewRepaymentRecord(uuid.New(), uuid.New(),
			addrDrawee, addrInstitution,
			decimal.NewFromInt(1000), decimal.Zero,
			&penalty, 1, PaymentTypeOverdue, paidAt)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		_, err := NewRepaymentRecord(uuid.New(), uuid.New(),
			addrDrawee, addrInstitution,
			decimal.Zero, decimal.Zero,
			nil, 0, PaymentTypeMaturity, paidAt)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})
}

func TestNewEndorsement(t *testing.T) {
	t.Run("creates record with sequence number", func(t *testing.T) {
		e, err := NewEndorsement(uuid.New(), 1, addrPayee, addrPartyB, EndorsementKindTransfer, "")

		require.NoError(t, err)
		assert.Equal(t, 1, e.SequenceNo)
		assert.Equal(t, addrPayee, e.EndorserAddress)
		assert.Equal(t, addrPartyB, e.EndorseeAddress)
	})

	t.Run("rejects sequence below one", func(t *testing.T) {
		_, err := NewEndorsement(uuid.New(), 0, addrPayee, addrPartyB, EndorsementKindTransfer, "")

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})

	t.Run("rejects identical endorser and endorsee", func(t *testing.T) {
		_, err := NewEndorsement(uuid.New(), 1, addrPayee, addrPayee, EndorsementKindTransfer, "")

		assert.True(t, shared.HasCode(err, CodeSelfEndorsement))
	})
}

package bill

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	t.Run("counts whole days", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 90, DaysBetween(from, to))
	})

	t.Run("ignores time of day", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
		to := time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC)
		assert.Equal(t, 1, DaysBetween(from, to))
	})

	t.Run("negative when reversed", func(t *testing.T) {
		from := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, -5, DaysBetween(from, to))
	})
}

func TestOverdueDays(t *testing.T) {
	maturity := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("zero before maturity", func(t *testing.T) {
		assert.Equal(t, 0, OverdueDays(maturity, maturity.AddDate(0, 0, -3)))
	})

	t.Run("zero on maturity day", func(t *testing.T) {
		assert.Equal(t, 0, OverdueDays(maturity, maturity))
	})

	t.Run("counts days past maturity", func(t *testing.T) {
		assert.Equal(t, 10, OverdueDays(maturity, maturity.AddDate(0, 0, 10)))
	})
}

func TestDiscountInterest(t *testing.T) {
	t.Run("one million at 5.5 percent for 90 days", func(t *testing.T) {
		amount := decimal.NewFromInt(1_000_000)
		rate := decimal.NewFromFloat(0.055)

		interest := DiscountInterest(amount, rate, 90)

		assert.True(t, interest.Equal(decimal.NewFromFloat(13750.00)),
			"expected 13750.00, got %s", interest)
	})

	t.Run("rounds half up to two places", func(t *testing.T) {
		amount := decimal.NewFromInt(100_000)
		rate := decimal.NewFromFloat(0.0433)

		// 100000 * 0.0433 * 37 / 360 = 445.0527...
		interest := DiscountInterest(amount, rate, 37)

		assert.True(t, interest.Equal(decimal.NewFromFloat(445.05)),
			"expected 445.05, got %s", interest)
	})

	t.Run("zero for non-positive days", func(t *testing.T) {
		amount := decimal.NewFromInt(1_000_000)
		rate := decimal.NewFromFloat(0.055)

		assert.True(t, DiscountInterest(amount, rate, 0).IsZero())
		assert.True(t, DiscountInterest(amount, rate, -5).IsZero())
	})
}

func TestNetProceeds(t *testing.T) {
	t.Run("face value minus discount interest", func(t *testing.T) {
		amount := decimal.NewFromInt(1_000_000)
		rate := decimal.NewFromFloat(0.055)

		net := NetProceeds(amount, rate, 90)

		assert.True(t, net.Equal(decimal.NewFromFloat(986250.00)),
			"expected 986250.00, got %s", net)
	})

	t.Run("interest plus proceeds equals amount", func(t *testing.T) {
		amount := decimal.NewFromFloat(738_291.57)
		rate := decimal.NewFromFloat(0.0475)

		for _, days := range []int{1, 30, 90, 180, 364} {
			interest := DiscountInterest(amount, rate, days)
			net := NetProceeds(amount, rate, days)
			assert.True(t, interest.Add(net).Equal(amount),
				"days=%d: %s + %s != %s", days, interest, net, amount)
		}
	})
}

func TestMaturityInterest(t *testing.T) {
	t.Run("rate expressed in percent over 365 days", func(t *testing.T) {
		principal := decimal.NewFromInt(1_000_000)
		rate := decimal.NewFromFloat(5.5)

		// 1000000 * 5.5/100 * 73/365 = 11000
		interest := MaturityInterest(principal, rate, 73)

		assert.True(t, interest.Equal(decimal.NewFromInt(11000)),
			"expected 11000, got %s", interest)
	})

	t.Run("zero for non-positive days", func(t *testing.T) {
		principal := decimal.NewFromInt(1_000_000)
		rate := decimal.NewFromFloat(5.5)

		assert.True(t, MaturityInterest(principal, rate, 0).IsZero())
	})
}

func TestOverduePenalty(t *testing.T) {
	t.Run("ten days overdue at default daily rate", func(t *testing.T) {
		base := decimal.NewFromFloat(986_250.00)

		penalty := OverduePenalty(base, 10, DefaultDailyPenaltyRate)

		assert.True(t, penalty.Equal(decimal.NewFromFloat(4931.25)),
			"expected 4931.25, got %s", penalty)
	})

	t.Run("zero when on time", func(t *testing.T) {
		base := decimal.NewFromFloat(986_250.00)

		assert.True(t, OverduePenalty(base, 0, DefaultDailyPenaltyRate).IsZero())
		assert.True(t, OverduePenalty(base, -1, DefaultDailyPenaltyRate).IsZero())
	})
}

package bill

import (
	"time"

	"github.com/shopspring/decimal"
)

// Day-count bases. Discount interest follows the money-market 360-day
// convention; maturity interest accrues on a 365-day year.
const (
	DiscountDayBasis = 360
	InterestDayBasis = 365
)

// DefaultDailyPenaltyRate is the overdue penalty accrued per day on the
// outstanding net proceeds (0.05% per day)
var DefaultDailyPenaltyRate = decimal.NewFromFloat(0.0005)

// DaysBetween returns the number of whole calendar days from one date to
// another, ignoring the time-of-day portion. Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// OverdueDays returns how many days past maturity the given date is, never
// negative
func OverdueDays(maturity, at time.Time) int {
	days := DaysBetween(maturity, at)
	if days < 0 {
		return 0
	}
	return days
}

// DiscountInterest computes the interest withheld by the financial
// institution when it buys a bill before maturity:
//
//	interest = amount × rate × days / 360
//
// The rate is an annualized fraction (0.055 means 5.5% p.a.). The result is
// rounded half-up to 2 decimal places.
func DiscountInterest(amount, rate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return amount.
		Mul(rate).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(DiscountDayBasis)).
		Round(2)
}

// NetProceeds is the cash the holder receives after the institution deducts
// its discount interest
func NetProceeds(amount, rate decimal.Decimal, days int) decimal.Decimal {
	return amount.Sub(DiscountInterest(amount, rate, days))
}

// MaturityInterest computes the interest owed at repayment on the financed
// principal:
//
//	interest = principal × annualRatePercent / 100 × days / 365
//
// The rate is expressed in percent (5.5 means 5.5% p.a.). The result is
// rounded half-up to 2 decimal places.
func MaturityInterest(principal, annualRatePercent decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return principal.
		Mul(annualRatePercent).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(InterestDayBasis)).
		Round(2)
}

// OverduePenalty computes the penalty on a late repayment:
//
//	penalty = base × overdueDays × dailyRate
//
// rounded half-up to 2 decimal places. Zero when the payment is on time.
func OverduePenalty(base decimal.Decimal, overdueDays int, dailyRate decimal.Decimal) decimal.Decimal {
	if overdueDays <= 0 {
		return decimal.Zero
	}
	return base.
		Mul(decimal.NewFromInt(int64(overdueDays))).
		Mul(dailyRate).
		Round(2)
}

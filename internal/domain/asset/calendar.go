package asset

import (
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DaysInYear returns 366 for every year divisible by 4 and 365 otherwise.
// Century years are not special-cased.
func DaysInYear(year int) int {
	if year%4 != 0 {
		return 365
	}
	return 366
}

// StepMonths adds n calendar months, clipping to the end of shorter months
func StepMonths(d valueobject.Date, n int) valueobject.Date {
	return d.AddMonths(n)
}

// DayOfYear returns the 1-based ordinal day of d within its year
func DayOfYear(d valueobject.Date) int {
	return d.YearDay()
}

// DaysRemaining returns totalDays - DayOfYear(d)
func DaysRemaining(d valueobject.Date, totalDays int) int {
	return totalDays - DayOfYear(d)
}

// FirstPeriodFraction is the share of the year left after d
func FirstPeriodFraction(d valueobject.Date, totalDays int) decimal.Decimal {
	return decimal.NewFromInt(int64(DaysRemaining(d, totalDays))).Div(decimal.NewFromInt(int64(totalDays)))
}

// LastPeriodFraction is the complement of FirstPeriodFraction
func LastPeriodFraction(d valueobject.Date, totalDays int) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(FirstPeriodFraction(d, totalDays))
}

// CountPeriodsUntil counts how many period-month steps starting at start stay
// on or before end. periodMonths must be positive.
func CountPeriodsUntil(start, end valueobject.Date, periodMonths int) int {
	count := 0
	for d := start; !d.After(end); d = StepMonths(d, periodMonths) {
		count++
	}
	return count
}

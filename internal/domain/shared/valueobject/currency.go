package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	CNY Currency = "CNY"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	HKD Currency = "HKD"
	CHF Currency = "CHF"
	KWD Currency = "KWD"
)

// DefaultCurrency is used when a company does not configure one
const DefaultCurrency = CNY

// currencyDecimals lists minor-unit digits that differ from the usual two
var currencyDecimals = map[Currency]int32{
	JPY: 0,
	KWD: 3,
}

// ParseCurrency normalizes and validates a three-letter code
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid currency code %q", code)
	}
	return c, nil
}

// IsValid reports whether the code looks like an ISO 4217 code
func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Decimals returns the rounding precision of the currency
func (c Currency) Decimals() int32 {
	if d, ok := currencyDecimals[c]; ok {
		return d
	}
	return 2
}

// Round rounds an amount to the currency precision (half away from zero)
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.Decimals())
}

// IsZero reports whether amount rounds to zero at the currency precision
func (c Currency) IsZero(amount decimal.Decimal) bool {
	return c.Round(amount).IsZero()
}

// Compare compares two amounts at the currency precision.
// Returns -1, 0 or 1.
func (c Currency) Compare(a, b decimal.Decimal) int {
	return c.Round(a.Sub(b)).Sign()
}

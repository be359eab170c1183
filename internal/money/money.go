// Package money handles currency amounts. Amounts are stored as int64 paise
// (the smallest currency unit); decimal strings cross the API boundary.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal rupee string (e.g. "7219.50") into paise.
// Values with more than two fractional digits are rejected.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	paise := d.Mul(hundred)
	if !paise.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-paise precision", s)
	}
	return paise.IntPart(), nil
}

// Format renders paise as a decimal rupee string with two fractional digits.
func Format(paise int64) string {
	return decimal.NewFromInt(paise).Div(hundred).StringFixed(2)
}

// Rupees converts paise into a decimal rupee value for arithmetic or wire use.
func Rupees(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(hundred)
}

// SplitPercent splits an amount into (reserved, remainder) where reserved is
// percent/100 of the amount, truncated to whole paise. The two parts always
// sum to the original amount.
func SplitPercent(amount int64, percent int64) (reserved, remainder int64) {
	reserved = amount * percent / 100
	remainder = amount - reserved
	return reserved, remainder
}

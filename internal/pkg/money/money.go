// Package money converts between integer cents and decimal platform totals.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/PlugSync/app/models"
)

var hundred = decimal.NewFromInt(100)

// Totals is the per-charge sum of paid, canceled and refunded cents.
type Totals struct {
	Paid     int64
	Canceled int64
	Refunded int64
}

// Sum adds up the amounts of all charges.
func Sum(charges []models.Charge) Totals {
	var t Totals
	for _, c := range charges {
		t.Paid += c.PaidAmount
		t.Canceled += c.CanceledAmount
		t.Refunded += c.RefundedAmount
	}
	return t
}

// CentsToDecimal converts cents into a two-place decimal amount.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DecimalToCents converts a decimal amount into cents, rounding half away
// from zero.
func DecimalToCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// Format renders cents for history comments, e.g. 1050 -> "10.50".
func Format(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}

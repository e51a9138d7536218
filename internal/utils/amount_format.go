package utils

import (
	"github.com/shopspring/decimal"
)

// FormatCents renders a minor-unit amount as a two-decimal string for API
// output, e.g. -12345 -> "-123.45". Rendering only: all ledger arithmetic
// stays on integer cents.
func FormatCents(amountCents int64) string {
	return decimal.New(amountCents, -2).StringFixed(2)
}

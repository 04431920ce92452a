// Package money formats catalog prices. Amounts are whole soʻm; the shop never
// shows fractions.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Suffix is appended after the grouped amount.
const Suffix = "soʻm"

// Sep separates digit groups and the suffix: a no-break space, as uz-UZ renders it.
const Sep = "\u00a0"

var printer = message.NewPrinter(language.Uzbek)

// Format renders amount with Uzbek digit grouping and the currency suffix,
// e.g. 150000 -> "150\u00a0000\u00a0soʻm" (Sep between groups and before Suffix).
func Format(amount int64) string {
	return printer.Sprintf("%d", amount) + Sep + Suffix
}

// Subtotal is the price of one line item.
func Subtotal(price int64, quantity int) int64 {
	return price * int64(quantity)
}

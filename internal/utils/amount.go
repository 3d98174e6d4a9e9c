package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount with Indian digit grouping for logs and
// receipts, e.g. 125000.5 -> "₹1,25,000.50".
func FormatINR(amount float64) string {
	return inr.Sprintf("₹%.2f", amount)
}

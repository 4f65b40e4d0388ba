package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// amountPrinter groups digits the way en-CA readers expect: 186,000.5
var amountPrinter = message.NewPrinter(language.MustParse("en-CA"))

// FormatAmount renders an amount as "$186,000", keeping at most two decimals
// and never padding whole amounts with ".00"
func FormatAmount(value float64) string {
	return "$" + amountPrinter.Sprintf("%v", number.Decimal(value, number.MaxFractionDigits(2)))
}

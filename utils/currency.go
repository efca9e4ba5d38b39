package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency formats an amount held in minor units (cents) as dollars
// Example: 123450 -> "$1,234.50"
func FormatCurrency(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return printer.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}

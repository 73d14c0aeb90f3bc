package stats

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var displayPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount for report tables and detail views:
// "Rs. 1,234.56" for LKR, "AED 1,234.56" for anything else.
func FormatAmount(amount float64, currency string) string {
	return prefix(currency) + formatNumber(amount, 2)
}

// FormatHeadline renders an amount for summary cards, dropping cents.
func FormatHeadline(amount float64, currency string) string {
	return prefix(currency) + formatNumber(amount, 0)
}

func prefix(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == "LKR" {
		return "Rs. "
	}
	return currency + " "
}

func formatNumber(amount float64, decimals int) string {
	return displayPrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// Package format renders amounts and percentages for display.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iwvelando/flip-calculator/pkg/constants"
)

// Currency returns a currency string with a pound sign and thousands separators (e.g., "-£1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != zeroAmount() {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// Percent returns a percentage with two decimals (e.g., "23.30%").
func Percent(value float64) string {
	return fmt.Sprintf("%.*f%%", constants.DecimalPlaces, value)
}

// formatPositiveCurrency groups thousands the way amounts are written in the UK.
func formatPositiveCurrency(value float64) string {
	p := message.NewPrinter(language.BritishEnglish)
	return p.Sprintf("%.*f", constants.DecimalPlaces, value)
}

func zeroAmount() string {
	return formatPositiveCurrency(0)
}

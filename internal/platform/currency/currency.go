// Package currency formats decimal money amounts for display.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NGN is the only currency the demo account holds.
const NGN = "NGN"

var symbols = map[string]string{
	NGN:   "₦",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Symbol returns the display symbol for an ISO currency code, or the code
// followed by a space when no symbol is known.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if s, ok := symbols[code]; ok {
		return s
	}
	return code + " "
}

// Format renders amount with two decimal places and digit grouping, for
// example ₦2,540,300.00. Negative amounts keep the sign before the symbol.
func Format(amount decimal.Decimal, code string) string {
	printer := message.NewPrinter(language.English)
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	whole := rounded.Truncate(0)
	frac := rounded.Sub(whole).Shift(2).IntPart()
	return sign + Symbol(code) + printer.Sprintf("%d", whole.IntPart()) + "." + twoDigits(frac)
}

func twoDigits(v int64) string {
	if v < 10 {
		return "0" + string(rune('0'+v))
	}
	return decimal.NewFromInt(v).String()
}

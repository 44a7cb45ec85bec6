// Money parsing and formatting. Amounts are decimal.Decimal throughout:
// exact arithmetic makes every aggregate independent of summation order.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into an amount. It accepts both
// dot (12.34) and comma (12,34) separators and rejects negative values;
// amounts in this system are magnitudes, direction comes from the record
// type.
//
// Examples:
//
//	ParseAmount("1250")    -> 1250
//	ParseAmount("12,34")   -> 12.34
//	ParseAmount("-5")      -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatCurrency renders an amount as whole dollars with thousands
// separators, e.g. "$1,235". Fractions round half-up. Used on dashboard
// summaries where cents are noise.
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + groupThousands(d.Round(0).StringFixed(0))
}

// FormatCurrencyDetailed renders an amount with cents, e.g. "$1,234.56".
func FormatCurrencyDetailed(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.Round(2).StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")
	return sign + "$" + groupThousands(intPart) + "." + fracPart
}

func groupThousands(s string) string {
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

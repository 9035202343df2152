// Package money formats minor-unit integer amounts for display.
//
// Amounts are carried as int64 cents end to end; conversion to a major-unit
// string happens only at the display boundary, so no floating point is ever
// involved in an aggregate.
package money

import "fmt"

// Format renders cents as a major-unit currency string with exactly two
// decimals. The sign leads the symbol: Format(-50000, "$") == "-$500.00".
func Format(cents int64, symbol string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}

package format

import (
	"fmt"
)

// Dollars formats a USD amount in major units with thousand separators.
// Example: Dollars(12345) => "$12,345"
func Dollars(n int) string {
	if n < 0 {
		return "-$" + thousandSep(int64(-n))
	}
	return "$" + thousandSep(int64(n))
}

// Price renders a price token: "Custom" when the amount cannot be shown as
// a fixed number, the dollar amount otherwise.
func Price(amount int) string {
	if amount <= 0 {
		return "Custom"
	}
	return Dollars(amount)
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	out := ""
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out += ","
		}
		out += string(c)
	}
	return out
}

// Percent renders a modifier percentage, e.g. Percent(0.6) => "60%".
func Percent(pct float64) string {
	return fmt.Sprintf("%d%%", int(pct*100+0.5))
}

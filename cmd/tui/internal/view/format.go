package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

var thousand = decimal.NewFromInt(1000)

// FormatMoney renders a dollar amount with two decimals and thousands separators.
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	d = d.Round(2)

	whole := d.Truncate(0)
	cents := d.Sub(whole).StringFixed(2)[1:]

	groups := []string{}
	for whole.GreaterThanOrEqual(thousand) {
		groups = append([]string{whole.Mod(thousand).StringFixed(0)}, groups...)
		whole = whole.Div(thousand).Truncate(0)
	}

	out := whole.StringFixed(0)
	for _, g := range groups {
		out += "," + leftPad(g, 3)
	}

	return sign + "$" + out + cents
}

func leftPad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}

	return s
}

// FormatDate formats an optional date as YYYY-MM-DD, or "-" when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

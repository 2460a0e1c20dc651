package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "January 02, 2006"

// Formatter renders numbers and dates for one currency and locale.
type Formatter struct {
	symbol     string
	printer    *message.Printer
	decimalSep string
}

// NewFormatter creates a Formatter. Grouping and the decimal separator follow
// tag; the currency symbol is always placed before the amount.
func NewFormatter(symbol string, tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)
	sep := "."
	if s := p.Sprintf("%.1f", 0.5); len(s) > 2 && s[0] == '0' && s[len(s)-1] == '5' {
		sep = s[1 : len(s)-1]
	}
	return &Formatter{symbol: symbol, printer: p, decimalSep: sep}
}

// Money formats d with the currency symbol, exactly two decimals and
// thousands grouping: 1234.5 -> "$1,234.50".
func (f *Formatter) Money(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	intPart, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + f.symbol + f.group(intPart) + f.decimalSep + frac
}

func (f *Formatter) group(digits string) string {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return digits
	}
	return f.printer.Sprintf("%d", n)
}

// Percent formats a percentage with at most two decimals and no trailing
// zeros: 10 -> "10%", 12.50 -> "12.5%".
func (f *Formatter) Percent(d decimal.Decimal) string {
	s := d.Round(2).String()
	return strings.Replace(s, ".", f.decimalSep, 1) + "%"
}

// Quantity formats a line item quantity without trailing zeros.
func (f *Formatter) Quantity(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", f.decimalSep, 1)
}

// Date formats t as "January 02, 2006".
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// Months formats a course duration.
func Months(n int) string {
	if n == 1 {
		return "1 month"
	}
	return strconv.Itoa(n) + " months"
}

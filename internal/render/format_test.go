package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatter_Money(t *testing.T) {
	f := NewFormatter("$", language.AmericanEnglish)
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"400", "$400.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-50", "-$50.00"},
		{"-0.001", "$0.00"},
		{"0.005", "$0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Money(dec(tt.in)))
		})
	}
}

func TestFormatter_MoneyLocale(t *testing.T) {
	f := NewFormatter("€", language.German)
	assert.Equal(t, "€1.234,50", f.Money(dec("1234.5")))
}

func TestFormatter_Percent(t *testing.T) {
	f := NewFormatter("$", language.AmericanEnglish)
	assert.Equal(t, "10%", f.Percent(dec("10.00")))
	assert.Equal(t, "12.5%", f.Percent(dec("12.50")))
	assert.Equal(t, "7.13%", f.Percent(dec("7.125")))
	assert.Equal(t, "0%", f.Percent(dec("0")))
}

func TestFormatter_Quantity(t *testing.T) {
	f := NewFormatter("$", language.AmericanEnglish)
	assert.Equal(t, "2", f.Quantity(dec("2.00")))
	assert.Equal(t, "1.5", f.Quantity(dec("1.50")))
}

func TestDateAndMonths(t *testing.T) {
	assert.Equal(t, "January 02, 2006", Date(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "1 month", Months(1))
	assert.Equal(t, "6 months", Months(6))
}

package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	items := []LineItem{{Name: "Tuition", Quantity: dec("2"), UnitPrice: dec("500.00")}}

	got := ComputeTotals(items, dec("10"), dec("50"))

	assert.Equal(t, "1000.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "100.00", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "1050.00", got.TotalAmount.StringFixed(2))
}

func TestComputeTotals_MultipleItems(t *testing.T) {
	items := []LineItem{
		{Name: "Workshop", Quantity: dec("1.5"), UnitPrice: dec("120.00")},
		{Name: "Materials", Quantity: dec("3"), UnitPrice: dec("9.99")},
	}

	got := ComputeTotals(items, dec("7.5"), decimal.Zero)

	assert.True(t, got.Subtotal.Equal(dec("209.97")))
	assert.True(t, got.TaxAmount.Equal(dec("15.74775")))
	assert.Equal(t, "225.72", got.TotalAmount.StringFixed(2))
}

func TestCustomInvoice_Recompute(t *testing.T) {
	ci := &CustomInvoice{
		Items:  []LineItem{{Name: "A", Quantity: dec("1"), UnitPrice: dec("100")}},
		Totals: Totals{TaxPercentage: dec("10"), Discount: dec("5"), TotalAmount: dec("999")},
	}

	ci.Recompute()
	assert.Equal(t, "105.00", ci.Totals.TotalAmount.StringFixed(2))

	ci.Items = append(ci.Items, LineItem{Name: "B", Quantity: dec("2"), UnitPrice: dec("50")})
	ci.Recompute()
	assert.Equal(t, "215.00", ci.Totals.TotalAmount.StringFixed(2))
}

func TestAccountBalance(t *testing.T) {
	paid := AccountBalance{TotalOwed: dec("1000.00"), TotalPaid: dec("1000.00")}
	assert.True(t, paid.Settled())
	assert.True(t, paid.Remainder().IsZero())

	due := AccountBalance{TotalOwed: dec("1000.00"), TotalPaid: dec("600.00")}
	assert.False(t, due.Settled())
	assert.Equal(t, "400.00", due.Remainder().StringFixed(2))

	over := AccountBalance{TotalOwed: dec("100"), TotalPaid: dec("150")}
	assert.True(t, over.Settled())
	assert.True(t, over.Remainder().IsZero())
}

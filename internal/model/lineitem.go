package model

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineItem is a single billable row of a custom invoice.
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Amount is quantity × unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Totals are derived from line items and never edited directly.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// ComputeTotals applies the invoice formula:
//
//	subtotal = Σ quantity × unit_price
//	tax      = subtotal × tax% / 100
//	total    = subtotal + tax − discount
//
// Values are kept at full precision; rounding happens only at display time.
func ComputeTotals(items []LineItem, taxPercentage, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount())
	}
	tax := subtotal.Mul(taxPercentage).Div(hundred)
	return Totals{
		Subtotal:      subtotal,
		TaxPercentage: taxPercentage,
		TaxAmount:     tax,
		Discount:      discount,
		TotalAmount:   subtotal.Add(tax).Sub(discount),
	}
}

// AccountBalance is the aggregate owed/paid pair of a recipient.
type AccountBalance struct {
	TotalOwed decimal.Decimal `json:"total_fees_owed"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// Settled reports whether everything owed has been paid.
func (b AccountBalance) Settled() bool {
	return b.TotalPaid.GreaterThanOrEqual(b.TotalOwed)
}

// Remainder is the outstanding amount, never negative.
func (b AccountBalance) Remainder() decimal.Decimal {
	if b.Settled() {
		return decimal.Zero
	}
	return b.TotalOwed.Sub(b.TotalPaid)
}

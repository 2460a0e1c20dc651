package render

import (
	"strconv"

	"docissuer/internal/model"
)

const (
	rowLine      = 5.5
	cellPad      = 2.0
	headerRow    = 9.0
	totalsRow    = 7.0
	bannerHeight = 12.0
	footerSpace  = 12.0
)

type column struct {
	Title string
	Ratio float64
	Align string
}

// invoiceSheet is the template-neutral content of an invoice page. Both
// invoice variants are converted to a sheet and drawn by drawInvoice.
type invoiceSheet struct {
	BillTo  [][2]string
	Meta    [][2]string
	Section string
	Columns []column
	Rows    [][]string
	Totals  [][2]string
	Banner  banner
	Notes   string
}

type banner struct {
	Paid  bool
	Label string
}

// paymentBanner reports paid once the paid total reaches the owed total.
func paymentBanner(b model.AccountBalance, f *Formatter) banner {
	if b.Settled() {
		return banner{Paid: true, Label: "PAID IN FULL"}
	}
	return banner{Label: "BALANCE DUE: " + f.Money(b.Remainder())}
}

func billTo(r model.Recipient) [][2]string {
	rows := [][2]string{{"Name:", r.Name}}
	if r.Email != "" {
		rows = append(rows, [2]string{"Email:", r.Email})
	}
	if r.Phone != "" {
		rows = append(rows, [2]string{"Phone:", r.Phone})
	}
	if r.Address != "" {
		rows = append(rows, [2]string{"Address:", r.Address})
	}
	return rows
}

func validateInvoice(doc model.RenderableDocument) error {
	v := doc.Invoice
	if v == nil {
		return model.MissingField("invoice")
	}
	switch {
	case v.Recipient.Name == "":
		return model.MissingField("recipient.name")
	case v.CourseName == "":
		return model.MissingField("course_name")
	case v.PaymentDate.IsZero():
		return model.MissingField("payment_date")
	case v.IssueDate.IsZero():
		return model.MissingField("issue_date")
	}
	return nil
}

func invoiceSheetFor(doc model.RenderableDocument, f *Formatter) invoiceSheet {
	v := doc.Invoice
	desc := v.CourseName
	if v.BatchName != "" {
		desc += "\nBatch: " + v.BatchName
	}
	amount := f.Money(v.Amount)
	return invoiceSheet{
		BillTo: billTo(v.Recipient),
		Meta: [][2]string{
			{"Invoice Number:", doc.Identifier.String()},
			{"Payment Date:", Date(v.PaymentDate)},
			{"Issue Date:", Date(v.IssueDate)},
		},
		Section: "Course Details:",
		Columns: []column{
			{"#", 0.07, "C"},
			{"Description", 0.45, "L"},
			{"Duration", 0.16, "C"},
			{"Rate", 0.16, "R"},
			{"Amount", 0.16, "R"},
		},
		Rows:   [][]string{{"1", desc, Months(v.DurationMonths), amount, amount}},
		Totals: [][2]string{{"Total Amount:", amount}},
		Banner: paymentBanner(v.Balance, f),
	}
}

func validateCustomInvoice(doc model.RenderableDocument) error {
	v := doc.CustomInvoice
	if v == nil {
		return model.MissingField("custom_invoice")
	}
	switch {
	case v.Recipient.Name == "":
		return model.MissingField("recipient.name")
	case len(v.Items) == 0:
		return model.MissingField("items")
	case v.PaymentDate.IsZero():
		return model.MissingField("payment_date")
	case v.IssueDate.IsZero():
		return model.MissingField("issue_date")
	}
	for i, it := range v.Items {
		if it.Name == "" {
			return model.MissingField("items[" + strconv.Itoa(i) + "].name")
		}
	}
	return nil
}

func customInvoiceSheetFor(doc model.RenderableDocument, f *Formatter) invoiceSheet {
	v := doc.CustomInvoice
	totals := v.Totals()

	rows := make([][]string, len(v.Items))
	for i, it := range v.Items {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			it.Name,
			f.Quantity(it.Quantity),
			f.Money(it.UnitPrice),
			f.Money(it.Amount()),
		}
	}

	return invoiceSheet{
		BillTo: billTo(v.Recipient),
		Meta: [][2]string{
			{"Invoice Number:", doc.Identifier.String()},
			{"Payment Date:", Date(v.PaymentDate)},
			{"Issue Date:", Date(v.IssueDate)},
		},
		Section: "Items:",
		Columns: []column{
			{"#", 0.07, "C"},
			{"Description", 0.45, "L"},
			{"Qty", 0.12, "C"},
			{"Unit Price", 0.18, "R"},
			{"Amount", 0.18, "R"},
		},
		Rows: rows,
		Totals: [][2]string{
			{"Subtotal:", f.Money(totals.Subtotal)},
			{"Tax (" + f.Percent(totals.TaxPercentage) + "):", f.Money(totals.TaxAmount)},
			{"Discount:", f.Money(totals.Discount.Neg())},
			{"Amount Paid:", f.Money(v.AmountPaid)},
			{"Total Amount:", f.Money(totals.TotalAmount)},
		},
		Banner: paymentBanner(v.Balance(), f),
		Notes:  v.Notes,
	}
}

func drawInvoice(p *page, doc model.RenderableDocument, sh invoiceSheet) {
	t := p.theme
	w, h := p.size()
	m := t.Margin
	content := w - 2*m
	bottom := h - m - footerSpace

	p.pdf.AliasNbPages("")
	p.pdf.SetFooterFunc(func() {
		y := h - m - footerSpace/2
		p.rule(m, y, m+content, t.Grid, 0.3)
		p.font("", 8)
		p.textColor(t.Faint)
		p.cellAt(m, y+1.5, content/2, 5, "Generated at "+doc.RenderedAt.Format("2006-01-02 15:04 MST"), "L")
		p.cellAt(m+content/2, y+1.5, content/2, 5, "Page "+strconv.Itoa(p.pdf.PageNo())+" of {nb}", "R")
	})
	p.pdf.AddPage()

	// Header: issuer on the left, document title on the right.
	y := m
	half := content / 2
	p.font("B", 16)
	p.textColor(t.Text)
	p.cellAt(m, y, half, 8, t.IssuerName, "L")
	p.font("B", 28)
	p.textColor(t.Title)
	p.cellAt(m+half, y, half, 12, "INVOICE", "R")

	next := y + 14
	if t.IssuerAddress != "" {
		p.font("", 9)
		p.textColor(t.Muted)
		ay := y + 8
		for _, l := range p.lines(t.IssuerAddress, half) {
			p.rawCellAt(m, ay, half, 4.5, l, "L")
			ay += 4.5
		}
		next = max(next, ay+2)
	}
	y = next
	p.rule(m, y, m+content, t.Title, 0.6)
	y += 6

	// Bill-to and meta columns.
	p.font("B", 12)
	p.textColor(t.Heading)
	p.cellAt(m, y, half, 6, "Bill To:", "L")
	p.cellAt(m+half, y, half, 6, "Invoice Details:", "L")
	y += 8
	left := p.labelRows(m, y, half, sh.BillTo)
	right := p.labelRows(m+half, y, half, sh.Meta)
	y = max(left, right) + 6

	p.font("B", 12)
	p.textColor(t.Heading)
	p.cellAt(m, y, content, 6, sh.Section, "L")
	y += 8

	y = p.table(y, m, content, bottom, sh.Columns, sh.Rows)
	y += 4

	// Totals, banner and closing stay together on one page.
	need := float64(len(sh.Totals))*totalsRow + 4 + bannerHeight + 16
	if y+need > bottom {
		p.pdf.AddPage()
		y = m
	}
	labelW := content * 0.7
	for i, row := range sh.Totals {
		last := i == len(sh.Totals)-1
		if last {
			p.rule(m+content*0.5, y+0.5, m+content, t.Accent, 0.7)
			p.font("B", 12)
		} else {
			p.font("", 11)
		}
		p.textColor(t.Text)
		p.cellAt(m, y+1, labelW, totalsRow, row[0], "R")
		p.cellAt(m+labelW, y+1, content-labelW, totalsRow, row[1], "R")
		y += totalsRow
	}
	y += 4

	if sh.Banner.Paid {
		p.fill(t.PaidFill)
	} else {
		p.fill(t.DueFill)
	}
	p.pdf.Rect(m, y, content, bannerHeight, "F")
	p.font("B", 13)
	p.textColor(t.Text)
	p.cellAt(m, y, content, bannerHeight, sh.Banner.Label, "C")
	y += bannerHeight + 6

	if sh.Notes != "" {
		p.font("I", 9)
		p.textColor(t.Muted)
		for _, l := range p.lines("Notes: "+sh.Notes, content) {
			if y+4.5 > bottom {
				p.pdf.AddPage()
				y = m
			}
			p.rawCellAt(m, y, content, 4.5, l, "L")
			y += 4.5
		}
		y += 4
	}

	if y+6 > bottom {
		p.pdf.AddPage()
		y = m
	}
	p.font("", 10)
	p.textColor(t.Faint)
	p.cellAt(m, y, content, 6, "Thank you for your payment!", "C")
}

// labelRows draws bold labels with wrapped values and returns the y below them.
func (p *page) labelRows(x, y, w float64, rows [][2]string) float64 {
	labelW := w * 0.36
	valueW := w - labelW - 2
	for _, r := range rows {
		p.font("B", 10)
		p.textColor(p.theme.Muted)
		p.cellAt(x, y, labelW, 5.5, r[0], "L")
		p.font("", 10)
		p.textColor(p.theme.Text)
		for _, l := range p.lines(r[1], valueW) {
			p.rawCellAt(x+labelW, y, valueW, 5.5, l, "L")
			y += 5.5
		}
	}
	return y
}

// table draws a bordered table starting at y. A row that does not fit above
// bottom moves to a new page, where the header row is drawn again.
func (p *page) table(y, x, width, bottom float64, cols []column, rows [][]string) float64 {
	t := p.theme
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = width * c.Ratio
	}

	header := func() {
		p.fill(t.Accent)
		p.draw(t.Grid)
		p.pdf.SetLineWidth(0.3)
		p.textColor(t.OnAccent)
		p.font("B", 11)
		cx := x
		for i, c := range cols {
			p.pdf.SetXY(cx, y)
			p.cell(widths[i], headerRow, c.Title, "1", "C", true)
			cx += widths[i]
		}
		y += headerRow
	}
	header()

	for _, row := range rows {
		p.font("", 10)
		cells := make([][]string, len(cols))
		n := 1
		for i := range cols {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			cells[i] = p.lines(text, widths[i]-2*cellPad)
			n = max(n, len(cells[i]))
		}
		rh := float64(n)*rowLine + 2*cellPad

		if y+rh > bottom {
			p.pdf.AddPage()
			y = t.Margin
			header()
			p.font("", 10)
		}

		cx := x
		p.draw(t.Grid)
		p.textColor(t.Text)
		for i, c := range cols {
			p.pdf.Rect(cx, y, widths[i], rh, "D")
			for j, l := range cells[i] {
				p.rawCellAt(cx+cellPad, y+cellPad+float64(j)*rowLine, widths[i]-2*cellPad, rowLine, l, c.Align)
			}
			cx += widths[i]
		}
		y += rh
	}
	return y
}

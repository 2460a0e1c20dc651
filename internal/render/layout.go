package render

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
)

// page wraps one fpdf document with the theme and formatter of a render.
type page struct {
	pdf   *fpdf.Fpdf
	theme Theme
	fmt   *Formatter
	tr    func(string) string
}

type pageSettings struct {
	orientation string
	title       string
	renderedAt  time.Time
	compress    bool
}

func newPage(theme Theme, s pageSettings) *page {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: s.orientation,
		UnitStr:        "mm",
		SizeStr:        theme.PageSize,
	})
	// Output depends only on the input document.
	pdf.SetCreationDate(s.renderedAt)
	pdf.SetModificationDate(s.renderedAt)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(s.compress)

	pdf.SetTitle(s.title, true)
	pdf.SetCreator(theme.IssuerName, true)
	pdf.SetAutoPageBreak(false, 0)

	return &page{
		pdf:   pdf,
		theme: theme,
		fmt:   NewFormatter(theme.CurrencySymbol, theme.Locale),
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (p *page) size() (w, h float64) {
	return p.pdf.GetPageSize()
}

func (p *page) fill(c Color)      { p.pdf.SetFillColor(c.R, c.G, c.B) }
func (p *page) draw(c Color)      { p.pdf.SetDrawColor(c.R, c.G, c.B) }
func (p *page) textColor(c Color) { p.pdf.SetTextColor(c.R, c.G, c.B) }

func (p *page) font(style string, size float64) {
	p.pdf.SetFont(p.theme.FontFamily, style, size)
}

// cell writes a single line of text in a box at the current position.
func (p *page) cell(w, h float64, s, border, align string, fill bool) {
	p.pdf.CellFormat(w, h, p.tr(s), border, 0, align, fill, 0, "")
}

// cellAt is cell at an absolute position.
func (p *page) cellAt(x, y, w, h float64, s, align string) {
	p.pdf.SetXY(x, y)
	p.cell(w, h, s, "", align, false)
}

// centered writes s horizontally centered across the full page width.
func (p *page) centered(y, h float64, s string) {
	w, _ := p.size()
	p.cellAt(0, y, w, h, s, "C")
}

// lines splits s so that every line fits w with the current font.
func (p *page) lines(s string, w float64) []string {
	if s == "" {
		return []string{""}
	}
	raw := p.pdf.SplitLines([]byte(p.tr(s)), w)
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = string(l)
	}
	return out
}

// rawCellAt writes text that has already been translated.
func (p *page) rawCellAt(x, y, w, h float64, s, align string) {
	p.pdf.SetXY(x, y)
	p.pdf.CellFormat(w, h, s, "", 0, align, false, 0, "")
}

func (p *page) rule(x1, y, x2 float64, c Color, width float64) {
	p.draw(c)
	p.pdf.SetLineWidth(width)
	p.pdf.Line(x1, y, x2, y)
}

func (p *page) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

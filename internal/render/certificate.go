package render

import (
	"math"

	"docissuer/internal/model"
)

// Border and seal sizes, as fractions of the shorter page side.
const (
	certOuterInset     = 0.035
	certInnerInset     = 0.060
	certOuterLine      = 0.008
	certInnerLine      = 0.002
	certCornerSize     = 0.045
	certSealRadius     = 0.075
	certReferenceShort = 215.9 // letter short side in mm; font sizes are specified against it
)

// Text baselines as fractions of page height from the top.
const (
	certSlotInstitution = 0.130
	certSlotTitle       = 0.215
	certSlotPreamble    = 0.315
	certSlotRecipient   = 0.395
	certSlotCompleted   = 0.485
	certSlotCourse      = 0.550
	certSlotDetails     = 0.625
	certSlotDate        = 0.690
)

// Seal and footer, as fractions of page height from the bottom.
const (
	certSealFromBottom   = 0.175
	certFooterFromBottom = 0.115
)

type rect struct {
	X, Y, W, H float64
}

// certificateGeometry is every coordinate of the certificate template for a
// page of the given size.
type certificateGeometry struct {
	Width, Height float64
	Scale         float64

	Outer, Inner         rect
	OuterLine, InnerLine float64
	Corner               float64

	Slots map[string]float64

	SealX, SealY, SealR float64
	FooterY             float64
}

func certificateLayout(w, h float64) certificateGeometry {
	unit := math.Min(w, h)
	outer := unit * certOuterInset
	inner := unit * certInnerInset
	return certificateGeometry{
		Width:     w,
		Height:    h,
		Scale:     unit / certReferenceShort,
		Outer:     rect{X: outer, Y: outer, W: w - 2*outer, H: h - 2*outer},
		Inner:     rect{X: inner, Y: inner, W: w - 2*inner, H: h - 2*inner},
		OuterLine: unit * certOuterLine,
		InnerLine: unit * certInnerLine,
		Corner:    unit * certCornerSize,
		Slots: map[string]float64{
			"institution": h * certSlotInstitution,
			"title":       h * certSlotTitle,
			"preamble":    h * certSlotPreamble,
			"recipient":   h * certSlotRecipient,
			"completed":   h * certSlotCompleted,
			"course":      h * certSlotCourse,
			"details":     h * certSlotDetails,
			"date":        h * certSlotDate,
		},
		SealX:   w / 2,
		SealY:   h - h*certSealFromBottom,
		SealR:   unit * certSealRadius,
		FooterY: h - h*certFooterFromBottom,
	}
}

func validateCertificate(doc model.RenderableDocument) error {
	v := doc.Certificate
	if v == nil {
		return model.MissingField("certificate")
	}
	switch {
	case v.RecipientName == "":
		return model.MissingField("recipient_name")
	case v.CourseName == "":
		return model.MissingField("course_name")
	case v.CompletionDate.IsZero():
		return model.MissingField("completion_date")
	case v.IssueDate.IsZero():
		return model.MissingField("issue_date")
	}
	return nil
}

func drawCertificate(p *page, doc model.RenderableDocument) {
	v := doc.Certificate
	p.pdf.AddPage()
	g := certificateLayout(p.size())
	t := p.theme
	pt := func(size float64) float64 { return size * g.Scale }

	// Frame: thick outer border, thin inner border, filled corner blocks.
	p.draw(t.Title)
	p.pdf.SetLineWidth(g.OuterLine)
	p.pdf.Rect(g.Outer.X, g.Outer.Y, g.Outer.W, g.Outer.H, "D")
	p.draw(t.Heading)
	p.pdf.SetLineWidth(g.InnerLine)
	p.pdf.Rect(g.Inner.X, g.Inner.Y, g.Inner.W, g.Inner.H, "D")

	p.fill(t.Accent)
	c := g.Corner / 2
	for _, at := range [][2]float64{
		{g.Outer.X, g.Outer.Y},
		{g.Outer.X + g.Outer.W, g.Outer.Y},
		{g.Outer.X, g.Outer.Y + g.Outer.H},
		{g.Outer.X + g.Outer.W, g.Outer.Y + g.Outer.H},
	} {
		p.pdf.Rect(at[0]-c, at[1]-c, g.Corner, g.Corner, "F")
	}

	line := func(slot string, style string, size float64, color Color, s string) {
		p.font(style, pt(size))
		p.textColor(color)
		p.centered(g.Slots[slot], pt(size)*0.5, s)
	}

	line("institution", "B", 16, t.Muted, t.IssuerName)
	line("title", "B", 36, t.Title, "CERTIFICATE OF COMPLETION")
	line("preamble", "", 18, t.Heading, "This is to certify that")
	line("recipient", "B", 28, t.Accent, v.RecipientName)
	line("completed", "", 14, t.Text, "has successfully completed the course")
	line("course", "B", 20, t.Highlight, v.CourseName)

	details := "Duration: " + Months(v.DurationMonths)
	if v.BatchName != "" {
		details = "Batch: " + v.BatchName + "    " + details
	}
	line("details", "", 14, t.Text, details)
	line("date", "", 14, t.Text, "Completed on "+Date(v.CompletionDate))

	// Seal.
	p.fill(t.Highlight)
	p.draw(t.Title)
	p.pdf.SetLineWidth(g.InnerLine * 2)
	p.pdf.Circle(g.SealX, g.SealY, g.SealR, "FD")
	p.draw(t.Accent)
	p.pdf.SetLineWidth(g.InnerLine)
	p.pdf.Circle(g.SealX, g.SealY, g.SealR*0.78, "D")
	p.font("B", pt(9))
	p.textColor(t.Text)
	p.cellAt(g.SealX-g.SealR, g.SealY-pt(9)*0.25, 2*g.SealR, pt(9)*0.5, "CERTIFIED", "C")

	// Footer: identifier on the left, issue date on the right.
	pad := g.Inner.X + g.Corner
	width := (g.Width - 2*pad) / 2
	p.font("", pt(10))
	p.textColor(t.Faint)
	p.cellAt(pad, g.FooterY, width, pt(10)*0.5, "Certificate ID: "+doc.Identifier.String(), "L")
	p.cellAt(pad+width, g.FooterY, width, pt(10)*0.5, "Issued: "+Date(v.IssueDate), "R")
}

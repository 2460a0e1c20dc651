package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"docissuer/internal/config"
)

// Color is an RGB triple in the 0-255 range.
type Color struct {
	R, G, B int
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func mustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Theme holds every styling constant the templates use. It is passed to the
// Renderer by value; nothing in this package keeps styling state of its own.
type Theme struct {
	FontFamily string
	// PageSize is an fpdf size name such as "Letter" or "A4".
	PageSize string
	// Margin is the invoice page margin in millimetres.
	Margin float64

	Title     Color
	Heading   Color
	Accent    Color
	Highlight Color
	Text      Color
	Muted     Color
	Faint     Color
	Grid      Color
	OnAccent  Color
	PaidFill  Color
	DueFill   Color

	CurrencySymbol string
	Locale         language.Tag

	IssuerName    string
	IssuerAddress string
}

// DefaultTheme is the pastel palette the documents have always been issued with.
func DefaultTheme() Theme {
	return Theme{
		FontFamily:     "Helvetica",
		PageSize:       "Letter",
		Margin:         18,
		Title:          mustHex("#D4C5F9"),
		Heading:        mustHex("#B4E7CE"),
		Accent:         mustHex("#FFB3D9"),
		Highlight:      mustHex("#FFDAB9"),
		Text:           mustHex("#333333"),
		Muted:          mustHex("#666666"),
		Faint:          mustHex("#999999"),
		Grid:           mustHex("#E0E0E0"),
		OnAccent:       mustHex("#F5F5F5"),
		PaidFill:       mustHex("#B4E7CE"),
		DueFill:        mustHex("#FFDAB9"),
		CurrencySymbol: "$",
		Locale:         language.AmericanEnglish,
		IssuerName:     "Student Records Office",
	}
}

// NewTheme applies the render configuration on top of DefaultTheme.
func NewTheme(cfg config.RenderConfig) (Theme, error) {
	t := DefaultTheme()
	if cfg.IssuerName != "" {
		t.IssuerName = cfg.IssuerName
	}
	t.IssuerAddress = cfg.IssuerAddress
	if cfg.CurrencySymbol != "" {
		t.CurrencySymbol = cfg.CurrencySymbol
	}
	if cfg.PageSize != "" {
		t.PageSize = cfg.PageSize
	}
	if cfg.Locale != "" {
		tag, err := language.Parse(cfg.Locale)
		if err != nil {
			return Theme{}, fmt.Errorf("render locale: %w", err)
		}
		t.Locale = tag
	}
	return t, nil
}

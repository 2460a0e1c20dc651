package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DocumentClass names one family of issued documents. It determines the
// identifier prefix, the render template and the artifact location.
type DocumentClass string

const (
	ClassInvoice       DocumentClass = "invoice"
	ClassCustomInvoice DocumentClass = "custom_invoice"
	ClassCertificate   DocumentClass = "certificate"
)

// Identifier prefixes.
const (
	PrefixInvoice       = "INV"
	PrefixCustomInvoice = "CINV"
	PrefixCertificate   = "CERT"
)

// SequenceWidth is the zero-padded width of the sequence component.
const SequenceWidth = 4

var (
	ErrInvalidDocumentClass = errors.New("invalid document class")
	ErrMalformedIdentifier  = errors.New("malformed document identifier")
)

var classPrefixes = map[DocumentClass]string{
	ClassInvoice:       PrefixInvoice,
	ClassCustomInvoice: PrefixCustomInvoice,
	ClassCertificate:   PrefixCertificate,
}

var artifactCategories = map[DocumentClass]string{
	ClassInvoice:       "invoices",
	ClassCustomInvoice: "invoices/custom",
	ClassCertificate:   "certificates",
}

// Prefix returns the identifier prefix of the class.
func (c DocumentClass) Prefix() (string, error) {
	p, ok := classPrefixes[c]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDocumentClass, string(c))
	}
	return p, nil
}

// Category returns the storage category (directory) for artifacts of the class.
func (c DocumentClass) Category() string {
	return artifactCategories[c]
}

// Valid reports whether c is one of the known classes.
func (c DocumentClass) Valid() bool {
	_, ok := classPrefixes[c]
	return ok
}

// ClassForPrefix maps an identifier prefix back to its document class.
func ClassForPrefix(prefix string) (DocumentClass, error) {
	for c, p := range classPrefixes {
		if p == prefix {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: prefix %q", ErrInvalidDocumentClass, prefix)
}

// DocumentIdentifier is the human-readable number of an issued document.
// The zero value is not a valid identifier.
type DocumentIdentifier struct {
	Prefix   string `json:"prefix"`
	Year     int    `json:"year"`
	Sequence int    `json:"sequence"`
}

// String returns the canonical PREFIX-YYYY-NNNN form.
func (id DocumentIdentifier) String() string {
	return fmt.Sprintf("%s-%04d-%0*d", id.Prefix, id.Year, SequenceWidth, id.Sequence)
}

// IsZero reports whether the identifier was never assigned.
func (id DocumentIdentifier) IsZero() bool {
	return id.Prefix == "" && id.Year == 0 && id.Sequence == 0
}

// ParseIdentifier parses the canonical textual form. The format is strict:
// exactly four year digits and exactly four sequence digits.
func ParseIdentifier(s string) (DocumentIdentifier, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return DocumentIdentifier{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, s)
	}
	if _, err := ClassForPrefix(parts[0]); err != nil {
		return DocumentIdentifier{}, err
	}
	if !allDigits(parts[1], 4) || !allDigits(parts[2], SequenceWidth) {
		return DocumentIdentifier{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, s)
	}
	year, _ := strconv.Atoi(parts[1])
	seq, _ := strconv.Atoi(parts[2])
	if seq == 0 {
		return DocumentIdentifier{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, s)
	}
	return DocumentIdentifier{Prefix: parts[0], Year: year, Sequence: seq}, nil
}

// NormalizeIdentifier prepares user input for an exact-match lookup:
// surrounding whitespace is trimmed and letters are upper-cased. Digits are
// left untouched, so "0001" and "00001" stay distinct.
func NormalizeIdentifier(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SequenceKey names one numbering namespace. Every (prefix, year) pair
// starts its own sequence at 1.
type SequenceKey struct {
	Prefix string
	Year   int
}

func (k SequenceKey) String() string {
	return fmt.Sprintf("%s-%04d", k.Prefix, k.Year)
}

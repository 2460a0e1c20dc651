package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentIdentifier_String(t *testing.T) {
	tests := []struct {
		id   DocumentIdentifier
		want string
	}{
		{DocumentIdentifier{Prefix: PrefixInvoice, Year: 2026, Sequence: 1}, "INV-2026-0001"},
		{DocumentIdentifier{Prefix: PrefixCustomInvoice, Year: 2026, Sequence: 7}, "CINV-2026-0007"},
		{DocumentIdentifier{Prefix: PrefixCertificate, Year: 2025, Sequence: 1234}, "CERT-2025-1234"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.String())
		})
	}
}

func TestParseIdentifier(t *testing.T) {
	id, err := ParseIdentifier("CINV-2026-0007")
	require.NoError(t, err)
	assert.Equal(t, DocumentIdentifier{Prefix: "CINV", Year: 2026, Sequence: 7}, id)

	for _, bad := range []string{
		"",
		"INV-2026",
		"INV-2026-00001",
		"INV-26-0001",
		"INV-2026-0000",
		"inv-2026-0001",
		"INV-2026-00a1",
	} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseIdentifier(bad)
			assert.Error(t, err)
		})
	}

	_, err = ParseIdentifier("XYZ-2026-0001")
	assert.ErrorIs(t, err, ErrInvalidDocumentClass)
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "INV-2026-0001", NormalizeIdentifier(" inv-2026-0001 "))
	assert.Equal(t, "CERT-2026-0001", NormalizeIdentifier("\tcert-2026-0001\n"))
	// exact-format contract: no numeric coercion
	assert.NotEqual(t, NormalizeIdentifier("INV-2026-0001"), NormalizeIdentifier("INV-2026-00001"))
}

func TestDocumentClass(t *testing.T) {
	p, err := ClassCertificate.Prefix()
	require.NoError(t, err)
	assert.Equal(t, "CERT", p)

	_, err = DocumentClass("receipt").Prefix()
	assert.ErrorIs(t, err, ErrInvalidDocumentClass)

	c, err := ClassForPrefix("CINV")
	require.NoError(t, err)
	assert.Equal(t, ClassCustomInvoice, c)
}

func TestArtifactPath(t *testing.T) {
	id := DocumentIdentifier{Prefix: PrefixInvoice, Year: 2026, Sequence: 1}
	assert.Equal(t, "invoices/invoice_INV-2026-0001.pdf", ArtifactPath(ClassInvoice, id))

	cid := DocumentIdentifier{Prefix: PrefixCustomInvoice, Year: 2026, Sequence: 3}
	assert.Equal(t, "invoices/custom/custom_invoice_CINV-2026-0003.pdf", ArtifactPath(ClassCustomInvoice, cid))

	cert := DocumentIdentifier{Prefix: PrefixCertificate, Year: 2026, Sequence: 1}
	assert.Equal(t, "certificate_CERT-2026-0001.pdf", ArtifactFilename(ClassCertificate, cert))
	assert.Equal(t, "certificates/certificate_CERT-2026-0001.pdf", ArtifactPath(ClassCertificate, cert))
}

package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singlePagePDF builds a one-page PDF that draws each line with Helvetica.
func singlePagePDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n72 720 Td\n")
	for _, line := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func encryptPDF(t *testing.T, data []byte, password string) []byte {
	t.Helper()
	conf := model.NewAESConfiguration(password, password, 256)
	var out bytes.Buffer
	require.NoError(t, api.Encrypt(bytes.NewReader(data), &out, conf))
	return out.Bytes()
}

func TestPDFProcessor_ExtractText(t *testing.T) {
	p := NewPDFProcessor()

	text, err := p.ExtractText(singlePagePDF("Form 26AS", "TDS u/s 192 45000"), "")

	require.NoError(t, err)
	assert.Contains(t, text, "Form 26AS")
	assert.Contains(t, text, "TDS u/s 192 45000")
}

func TestPDFProcessor_ExtractText_NotAPDF(t *testing.T) {
	p := NewPDFProcessor()

	_, err := p.ExtractText([]byte("plain text, no pdf here"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open pdf")
}

func TestPDFProcessor_ExtractText_Encrypted(t *testing.T) {
	p := NewPDFProcessor()
	locked := encryptPDF(t, singlePagePDF("Annual Information Statement"), "ABCDE1234F")

	t.Run("right password", func(t *testing.T) {
		text, err := p.ExtractText(locked, "ABCDE1234F")
		require.NoError(t, err)
		assert.Contains(t, text, "Annual Information Statement")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := p.ExtractText(locked, "wrong")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt pdf")
		assert.NotNil(t, errors.Unwrap(err))
	})
}

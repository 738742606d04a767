package form

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/dr-antrag/internal/pdf"
)

func TestSignatureText(t *testing.T) {
	now := time.Date(2026, time.May, 4, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Max Mustermann, 04.05.2026", SignatureText("Max Mustermann", now))
	assert.Equal(t, ", 04.05.2026", SignatureText("", now))
}

func TestRenderOverlay(t *testing.T) {
	var buf bytes.Buffer
	err := RenderOverlay(&buf, "Max Mustermann, 04.05.2026", pdf.A4Width, pdf.A4Height)
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "BT 70.00 465.00 Td (Max Mustermann, 04.05.2026) Tj ET")
	assert.Contains(t, string(out), "/BaseFont /Helvetica")

	doc, err := pdf.Read(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())

	w, h, err := doc.PageSize(1)
	require.NoError(t, err)
	assert.InDelta(t, pdf.A4Width, w, 0.01)
	assert.InDelta(t, pdf.A4Height, h, 0.01)
}

func TestRenderOverlay_Umlauts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderOverlay(&buf, "Jörg Müßig, 04.05.2026", pdf.A4Width, pdf.A4Height))

	// cp1252: ö=0xF6 ü=0xFC ß=0xDF
	assert.Contains(t, buf.String(), "(J\xf6rg M\xfc\xdfig, 04.05.2026)")
}

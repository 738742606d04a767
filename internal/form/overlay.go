package form

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/a3tai/dr-antrag/internal/trip"
)

// Placement of the signature line on page 2, in points from the lower left
// corner of the page.
const (
	SignaturePage     = 2
	SignatureX        = 70
	SignatureY        = 465
	SignatureFont     = "Helvetica"
	SignatureFontSize = 10
)

// SignatureText returns "name, DD.MM.YYYY" for the given moment.
func SignatureText(name string, now time.Time) string {
	return fmt.Sprintf("%s, %s", name, now.Format(trip.DateLayout))
}

// RenderOverlay writes a single page PDF of the given size holding text at
// the signature position.
func RenderOverlay(w io.Writer, text string, width, height float64) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCompression(false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Core fonts are cp1252; translate so umlauts in names render.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont(SignatureFont, "", SignatureFontSize)

	// gofpdf measures y from the top edge.
	pdf.Text(SignatureX, height-SignatureY, tr(text))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering signature overlay: %w", err)
	}
	return nil
}

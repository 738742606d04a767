// Package pdftest writes small AcroForm documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Field is one form field of a generated template.
type Field struct {
	// Name is the field name. A dotted name such as "Person.Name1" becomes
	// a kid of a non-terminal field "Person".
	Name string
	// Page is 1 or 2.
	Page     int
	Checkbox bool
	// OnState overrides the checked appearance state name, "Yes" by default.
	OnState string
	// Value pre-fills a text field.
	Value string
}

func text(name string, page int) Field     { return Field{Name: name, Page: page} }
func checkbox(name string, page int) Field { return Field{Name: name, Page: page, Checkbox: true} }

// RemarksOnState is the custom checked state of the Obj39 checkbox in
// DRFields.
const RemarksOnState = "Ja"

// StaleAddress pre-fills the exact address fields of DRFields.
const StaleAddress = "Alte Dienstwagen-Adresse"

// DRFields mirrors the fields of the two-page business trip form.
var DRFields = []Field{
	text("Person.Name1", 1),
	text("Person.Orga1", 1),
	text("Person.Telefon1", 1),
	text("Person.Name2", 1),
	text("Abfahrtsort", 1),
	text("RueckkehrNach", 1),
	text("Reiseziel", 1),
	text("Reiseweg", 1),
	text("Begruendung", 1),
	text("Datum", 1),
	text("Uhrzeit1", 1),
	text("Datum2", 1),
	text("Uhrzeit2", 1),
	text("Datum3", 1),
	text("Uhrzeit3", 1),
	text("Datum4", 1),
	text("Uhrzeit4", 1),
	text("Begruendung2", 1),
	text("Begruendung3", 1),
	text("Bemerkungen_der_anstragstellenden_Person", 1),
	{Name: "Genaue_Abfahrtsanschrift", Page: 1, Value: StaleAddress},
	{Name: "Genaue_Ankunftsanschrift", Page: 1, Value: StaleAddress},
	checkbox("OBJ42", 1),
	checkbox("OBJ43", 1),
	checkbox("OBJ14", 1),
	checkbox("OBJ48", 1),
	checkbox("BCB_Nein", 1),
	checkbox("BC_Nein", 1),
	checkbox("Beschaffung_Nein", 1),
	checkbox("Obj6", 1),
	checkbox("Obj7", 1),
	checkbox("Obj8", 1),
	checkbox("Obj15", 1),
	text("Bemerkungen_der_anstragstellenden_Person1", 2),
	{Name: "Obj39", Page: 2, Checkbox: true, OnState: RemarksOnState},
	checkbox("Obj49", 2),
	checkbox("Obj52", 2),
	checkbox("Obj56", 2),
	checkbox("Obj59", 2),
	checkbox("Obj10", 2),
	checkbox("Obj11", 2),
	checkbox("Obj12", 2),
}

// Fixed object numbers of the generated document.
const (
	objCatalog = iota + 1
	objPages
	objAcroForm
	objPage1
	objPage2
	objFont
	objContent1
	objContent2
	objOnAppearance
	objOffAppearance
	firstDynamic
)

type builder struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (b *builder) object(num int, body string) {
	b.offsets[num] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (b *builder) stream(num int, dict, data string) {
	b.object(num, fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data))
}

func ref(num int) string {
	return fmt.Sprintf("%d 0 R", num)
}

func literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return "(" + r.Replace(s) + ")"
}

// Template renders a two-page A4 PDF with an AcroForm holding fields.
func Template(fields []Field) []byte {
	b := &builder{offsets: map[int]int{}}
	b.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	next := firstDynamic
	parents := map[string]int{}
	var parentOrder []string
	var topLevel []int
	annots := map[int][]int{1: nil, 2: nil}
	bodies := map[int]string{}
	kids := map[int][]int{}

	y := map[int]float64{1: 780, 2: 780}
	for _, f := range fields {
		num := next
		next++

		partial := f.Name
		parent := 0
		if head, tail, ok := strings.Cut(f.Name, "."); ok {
			partial = tail
			if _, seen := parents[head]; !seen {
				parents[head] = next
				next++
				parentOrder = append(parentOrder, head)
				topLevel = append(topLevel, parents[head])
			}
			parent = parents[head]
			kids[parent] = append(kids[parent], num)
		} else {
			topLevel = append(topLevel, num)
		}

		page := objPage1
		if f.Page == 2 {
			page = objPage2
		}
		annots[f.Page] = append(annots[f.Page], num)

		rect := fmt.Sprintf("[50 %.0f 250 %.0f]", y[f.Page], y[f.Page]+14)
		y[f.Page] -= 16

		var sb strings.Builder
		fmt.Fprintf(&sb, "<< /Type /Annot /Subtype /Widget /T %s /Rect %s /P %s /F 4", literal(partial), rect, ref(page))
		if parent != 0 {
			fmt.Fprintf(&sb, " /Parent %s", ref(parent))
		}
		if f.Checkbox {
			on := f.OnState
			if on == "" {
				on = "Yes"
			}
			fmt.Fprintf(&sb, " /FT /Btn /V /Off /AS /Off /MK << >> /AP << /N << /%s %s /Off %s >> >>",
				on, ref(objOnAppearance), ref(objOffAppearance))
		} else {
			sb.WriteString(" /FT /Tx /DA (/Helv 10 Tf 0 g)")
			if f.Value != "" {
				fmt.Fprintf(&sb, " /V %s", literal(f.Value))
			}
		}
		sb.WriteString(" >>")
		bodies[num] = sb.String()
	}

	refs := func(nums []int) string {
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = ref(n)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}

	b.object(objCatalog, fmt.Sprintf("<< /Type /Catalog /Pages %s /AcroForm %s >>", ref(objPages), ref(objAcroForm)))
	b.object(objPages, fmt.Sprintf("<< /Type /Pages /Kids [%s %s] /Count 2 /MediaBox [0 0 595.28 841.89] >>",
		ref(objPage1), ref(objPage2)))
	b.object(objAcroForm, fmt.Sprintf("<< /Fields %s /DA (/Helv 0 Tf 0 g) /DR << /Font << /Helv %s >> >> >>",
		refs(topLevel), ref(objFont)))
	for i, page := range []int{objPage1, objPage2} {
		content := objContent1
		if i == 1 {
			content = objContent2
		}
		b.object(page, fmt.Sprintf("<< /Type /Page /Parent %s /Resources << /Font << /Helv %s >> >> /Contents %s /Annots %s >>",
			ref(objPages), ref(objFont), ref(content), refs(annots[i+1])))
	}
	b.object(objFont, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	b.stream(objContent1, "", "BT /Helv 14 Tf 50 805 Td (Antrag auf Genehmigung einer Dienstreise) Tj ET")
	b.stream(objContent2, "", "BT /Helv 14 Tf 50 805 Td (Seite 2) Tj ET")
	b.stream(objOnAppearance, "/Type /XObject /Subtype /Form /BBox [0 0 14 14]", "0 g 2 2 10 10 re f")
	b.stream(objOffAppearance, "/Type /XObject /Subtype /Form /BBox [0 0 14 14]", "")

	for _, head := range parentOrder {
		num := parents[head]
		b.object(num, fmt.Sprintf("<< /T %s /Kids %s >>", literal(head), refs(kids[num])))
	}
	for num := firstDynamic; num < next; num++ {
		if body, ok := bodies[num]; ok {
			b.object(num, body)
		}
	}

	xref := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n0000000000 65535 f \n", next)
	for num := 1; num < next; num++ {
		fmt.Fprintf(&b.buf, "%010d 00000 n \n", b.offsets[num])
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root %s >>\nstartxref\n%d\n%%%%EOF\n", next, ref(objCatalog), xref)

	return b.buf.Bytes()
}

// WriteTemplate writes a template with DRFields into dir and returns its path.
func WriteTemplate(t testing.TB, dir string) string {
	t.Helper()
	return WriteTemplateWith(t, dir, DRFields)
}

// WriteTemplateWith writes a template with the given fields into dir and
// returns its path.
func WriteTemplateWith(t testing.TB, dir string, fields []Field) string {
	t.Helper()
	path := filepath.Join(dir, "template.pdf")
	if err := os.WriteFile(path, Template(fields), 0o600); err != nil {
		t.Fatalf("writing template: %v", err)
	}
	return path
}

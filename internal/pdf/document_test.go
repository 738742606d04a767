package pdf

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/dr-antrag/internal/pdf/pdftest"
)

func openTemplate(t *testing.T, fields []pdftest.Field) *Document {
	t.Helper()
	doc, err := Read(bytes.NewReader(pdftest.Template(fields)))
	require.NoError(t, err)
	return doc
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRead_Garbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("definitely not a pdf")))
	assert.Error(t, err)
}

func TestDocument_PageSize(t *testing.T) {
	doc := openTemplate(t, pdftest.DRFields)
	require.Equal(t, 2, doc.PageCount())

	// MediaBox is inherited from the page tree root.
	w, h, err := doc.PageSize(2)
	require.NoError(t, err)
	assert.InDelta(t, A4Width, w, 0.01)
	assert.InDelta(t, A4Height, h, 0.01)

	_, _, err = doc.PageSize(0)
	assert.ErrorIs(t, err, ErrNoPage)
	_, _, err = doc.PageSize(3)
	assert.ErrorIs(t, err, ErrNoPage)
}

func TestDocument_Widgets(t *testing.T) {
	doc := openTemplate(t, []pdftest.Field{
		{Name: "Person.Name1", Page: 1},
		{Name: "Reiseziel", Page: 1, Value: "Alt"},
		{Name: "Obj39", Page: 2, Checkbox: true, OnState: "Ja"},
		{Name: "OBJ42", Page: 1, Checkbox: true},
	})

	widgets, err := doc.Widgets()
	require.NoError(t, err)
	require.Len(t, widgets, 4)

	byName := map[string]*Widget{}
	for _, w := range widgets {
		byName[w.Name] = w
	}

	name := byName["Person.Name1"]
	require.NotNil(t, name)
	assert.Equal(t, "Name1", name.Partial)
	assert.Equal(t, FieldTypeText, name.Type)
	assert.Equal(t, 1, name.Page)
	assert.False(t, name.ReadOnly())

	assert.Equal(t, "Alt", byName["Reiseziel"].Value())

	remarks := byName["Obj39"]
	require.NotNil(t, remarks)
	assert.Equal(t, FieldTypeCheckbox, remarks.Type)
	assert.Equal(t, 2, remarks.Page)
	assert.Equal(t, "Ja", remarks.OnState())
	assert.Equal(t, "Off", remarks.Value())

	assert.Equal(t, "Yes", byName["OBJ42"].OnState())
}

func TestWidget_SetValuesRoundTrip(t *testing.T) {
	doc := openTemplate(t, pdftest.DRFields)

	widgets, err := doc.Widgets()
	require.NoError(t, err)
	for _, w := range widgets {
		switch w.Name {
		case "Person.Name1":
			require.NoError(t, w.SetText("Jörg Müßig"))
		case "Genaue_Abfahrtsanschrift":
			require.NoError(t, w.SetText(""))
		case "Bemerkungen_der_anstragstellenden_Person":
			require.NoError(t, w.SetText("Zeile 1\rZeile 2"))
		case "Obj39":
			w.SetChecked(true)
		case "OBJ42":
			w.SetChecked(true)
			w.SetChecked(false)
		}
	}
	require.NoError(t, doc.SetNeedAppearances())

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))

	reread, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.True(t, reread.NeedAppearances())

	values, err := reread.FieldValues()
	require.NoError(t, err)
	assert.Equal(t, "Jörg Müßig", values["Person.Name1"])
	assert.Equal(t, "", values["Genaue_Abfahrtsanschrift"])
	assert.Equal(t, pdftest.StaleAddress, values["Genaue_Ankunftsanschrift"])
	assert.Equal(t, "Zeile 1\rZeile 2", values["Bemerkungen_der_anstragstellenden_Person"])
	assert.Equal(t, pdftest.RemarksOnState, values["Obj39"])
	assert.Equal(t, "Off", values["OBJ42"])
}

func TestDocument_NeedAppearancesDefault(t *testing.T) {
	doc := openTemplate(t, pdftest.DRFields)
	assert.False(t, doc.NeedAppearances())
	require.NoError(t, doc.SetNeedAppearances())
	assert.True(t, doc.NeedAppearances())
}

func TestDocument_Fields(t *testing.T) {
	doc := openTemplate(t, pdftest.DRFields)

	fields, err := doc.Fields()
	require.NoError(t, err)
	require.Len(t, fields, len(pdftest.DRFields))

	for i, f := range fields {
		assert.Equal(t, pdftest.DRFields[i].Name, f.Name)
		assert.Equal(t, pdftest.DRFields[i].Page, f.Page)
		assert.Equal(t, 1, f.Widgets)
		if pdftest.DRFields[i].Checkbox {
			assert.Equal(t, FieldTypeCheckbox, f.Type, f.Name)
			assert.Equal(t, "Off", f.Value, f.Name)
		} else {
			assert.Equal(t, FieldTypeText, f.Type, f.Name)
		}
	}
}

func TestReadFields(t *testing.T) {
	path := pdftest.WriteTemplate(t, t.TempDir())
	fields, err := ReadFields(path)
	require.NoError(t, err)
	assert.NotEmpty(t, fields)

	_, err = ReadFields(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestEncodeText(t *testing.T) {
	v, err := encodeText("")
	require.NoError(t, err)
	assert.Equal(t, "()", v.String())

	v, err = encodeText("Aä")
	require.NoError(t, err)
	assert.Equal(t, "<FEFF004100E4>", v.String())
}

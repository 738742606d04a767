package pdf

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/unicode"
)

// FieldType represents the type of an AcroForm field
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeButton    FieldType = "button"
	FieldTypeSelect    FieldType = "select"
	FieldTypeSignature FieldType = "signature"
	FieldTypeUnknown   FieldType = "unknown"
)

// Field flag bits (Ff).
const (
	flagReadOnly   = 1 << 0
	flagRadio      = 1 << 15
	flagPushbutton = 1 << 16
)

// offState is the appearance state of an unchecked checkbox.
const offState = "Off"

// maxParentDepth bounds walks up the field hierarchy.
const maxParentDepth = 32

// Widget is one widget annotation of a form field, as found on a page.
// Several widgets can share a field; setting a value through any of them
// updates the shared field.
type Widget struct {
	// Name is the fully qualified field name, e.g. "Person.Name1".
	Name string
	// Partial is the terminal field's own T entry, e.g. "Name1".
	Partial string
	// Page is the 1-based page the widget is placed on.
	Page int
	Type FieldType

	doc    *Document
	field  types.Dict
	widget types.Dict
}

// Widgets returns the widget annotations of every page in page order.
// Annotations without a resolvable field name are skipped.
func (d *Document) Widgets() ([]*Widget, error) {
	var widgets []*Widget

	for i, page := range d.pages {
		annotsObj, found := page.Find("Annots")
		if !found {
			continue
		}

		annots, err := d.ctx.DereferenceArray(annotsObj)
		if err != nil {
			return nil, fmt.Errorf("failed to dereference Annots of page %d: %w", i+1, err)
		}

		for _, annotObj := range annots {
			annot, err := d.ctx.DereferenceDict(annotObj)
			if err != nil || annot == nil {
				continue
			}
			if d.name(annot, "Subtype") != "Widget" {
				continue
			}

			w := d.newWidget(annot, i+1)
			if w.Name == "" {
				continue
			}
			widgets = append(widgets, w)
		}
	}

	return widgets, nil
}

func (d *Document) newWidget(annot types.Dict, page int) *Widget {
	w := &Widget{Page: page, doc: d, widget: annot, field: annot}

	// A widget without T is a kid of the field it belongs to.
	if _, found := annot.Find("T"); !found {
		if parentObj, found := annot.Find("Parent"); found {
			if parent, err := d.ctx.DereferenceDict(parentObj); err == nil && parent != nil {
				w.field = parent
			}
		}
	}

	w.Partial = d.text(w.field, "T")
	w.Name = d.qualifiedName(w.field)
	w.Type = d.fieldType(w.field)
	return w
}

// qualifiedName joins the T entries from the root of the field hierarchy
// down to field with dots.
func (d *Document) qualifiedName(field types.Dict) string {
	var parts []string
	for depth := 0; field != nil && depth < maxParentDepth; depth++ {
		if t := d.text(field, "T"); t != "" {
			parts = append(parts, t)
		}
		parentObj, found := field.Find("Parent")
		if !found {
			break
		}
		parent, err := d.ctx.DereferenceDict(parentObj)
		if err != nil {
			break
		}
		field = parent
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// inherited looks key up on field and then on its ancestors.
func (d *Document) inherited(field types.Dict, key string) (types.Object, bool) {
	for depth := 0; field != nil && depth < maxParentDepth; depth++ {
		if obj, found := field.Find(key); found {
			return obj, true
		}
		parentObj, found := field.Find("Parent")
		if !found {
			break
		}
		parent, err := d.ctx.DereferenceDict(parentObj)
		if err != nil {
			break
		}
		field = parent
	}
	return nil, false
}

func (d *Document) fieldType(field types.Dict) FieldType {
	ftObj, found := d.inherited(field, "FT")
	if !found {
		return FieldTypeUnknown
	}

	ftName, err := d.ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return FieldTypeUnknown
	}

	switch ftName {
	case "Btn":
		flags := d.flags(field)
		if flags&flagRadio != 0 {
			return FieldTypeRadio
		}
		if flags&flagPushbutton != 0 {
			return FieldTypeButton
		}
		return FieldTypeCheckbox
	case "Tx":
		return FieldTypeText
	case "Ch":
		return FieldTypeSelect
	case "Sig":
		return FieldTypeSignature
	default:
		return FieldTypeUnknown
	}
}

func (d *Document) flags(field types.Dict) int {
	obj, found := d.inherited(field, "Ff")
	if !found {
		return 0
	}
	flags, err := d.ctx.DereferenceInteger(obj)
	if err != nil || flags == nil {
		return 0
	}
	return int(*flags)
}

func (d *Document) text(dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	s, err := d.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}

func (d *Document) name(dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	n, err := d.ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return string(n)
}

// ReadOnly reports whether the field carries the read-only flag.
func (w *Widget) ReadOnly() bool {
	return w.doc.flags(w.field)&flagReadOnly != 0
}

// Value returns the current field value: the text of a text field, or the
// state name of a button field ("Off" when unchecked).
func (w *Widget) Value() string {
	d := w.doc
	switch w.Type {
	case FieldTypeCheckbox, FieldTypeRadio, FieldTypeButton:
		return d.name(w.field, "V")
	default:
		return d.text(w.field, "V")
	}
}

// SetText sets the field value. The widget's cached appearance is dropped
// so viewers honouring NeedAppearances draw the new text.
func (w *Widget) SetText(s string) error {
	v, err := encodeText(s)
	if err != nil {
		return fmt.Errorf("failed to encode value of %s: %w", w.Name, err)
	}
	w.field["V"] = v
	delete(w.widget, "AP")
	return nil
}

// SetChecked switches a checkbox on or off.
func (w *Widget) SetChecked(on bool) {
	state := offState
	if on {
		state = w.OnState()
	}
	w.field["V"] = types.Name(state)
	w.widget["AS"] = types.Name(state)
}

// OnState returns the appearance state that represents "checked": the
// first non-Off entry of the normal appearance dictionary, or "Yes".
func (w *Widget) OnState() string {
	apObj, found := w.widget.Find("AP")
	if !found {
		return "Yes"
	}
	ap, err := w.doc.ctx.DereferenceDict(apObj)
	if err != nil || ap == nil {
		return "Yes"
	}
	nObj, found := ap.Find("N")
	if !found {
		return "Yes"
	}
	n, err := w.doc.ctx.DereferenceDict(nObj)
	if err != nil || n == nil {
		return "Yes"
	}

	states := make([]string, 0, len(n))
	for k := range n {
		if k != offState {
			states = append(states, k)
		}
	}
	if len(states) == 0 {
		return "Yes"
	}
	sort.Strings(states)
	return states[0]
}

// encodeText renders s as a PDF text string. Non-empty values are written as
// UTF-16BE with byte order mark so umlauts survive every viewer.
func encodeText(s string) (types.Object, error) {
	if s == "" {
		return types.StringLiteral(""), nil
	}

	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return types.HexLiteral(strings.ToUpper(hex.EncodeToString(b))), nil
}

package pdf

import "fmt"

// Field describes one AcroForm field as placed in a document.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Value    string    `json:"value,omitempty"`
	Page     int       `json:"page"`
	ReadOnly bool      `json:"read_only,omitempty"`
	// Widgets counts the annotations that display the field.
	Widgets int `json:"widgets"`
}

// Fields returns every named form field in order of first appearance.
// A field with widgets on several pages reports the first page.
func (d *Document) Fields() ([]Field, error) {
	widgets, err := d.Widgets()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(widgets))
	fields := make([]Field, 0, len(widgets))
	for _, w := range widgets {
		if i, seen := index[w.Name]; seen {
			fields[i].Widgets++
			continue
		}
		index[w.Name] = len(fields)
		fields = append(fields, Field{
			Name:     w.Name,
			Type:     w.Type,
			Value:    w.Value(),
			Page:     w.Page,
			ReadOnly: w.ReadOnly(),
			Widgets:  1,
		})
	}
	return fields, nil
}

// FieldValues returns the current value of every field keyed by name.
func (d *Document) FieldValues() (map[string]string, error) {
	fields, err := d.Fields()
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = f.Value
	}
	return values, nil
}

// ReadFields opens the PDF at path and lists its form fields.
func ReadFields(path string) ([]Field, error) {
	doc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return doc.Fields()
}

package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/a3tai/dr-antrag/internal/trip"
)

// ValueKind tags the variant held by a FieldValue.
type ValueKind uint8

const (
	TextValue ValueKind = iota + 1
	FlagValue
)

// FieldValue is what gets written to one physical form field: either text
// or a checkbox activation.
type FieldValue struct {
	Kind ValueKind
	Text string
	Flag bool
}

// Text returns a text field value.
func Text(s string) FieldValue {
	return FieldValue{Kind: TextValue, Text: s}
}

// Flag returns a checkbox value.
func Flag(on bool) FieldValue {
	return FieldValue{Kind: FlagValue, Flag: on}
}

// String describes the value for logs and test failures.
func (v FieldValue) String() string {
	switch v.Kind {
	case TextValue:
		return fmt.Sprintf("text(%q)", v.Text)
	case FlagValue:
		return fmt.Sprintf("flag(%t)", v.Flag)
	default:
		return "invalid"
	}
}

// FieldValueSet maps physical field identifiers to the values to write.
type FieldValueSet map[string]FieldValue

// Merge copies every value of other into s, overwriting collisions.
func (s FieldValueSet) Merge(other FieldValueSet) {
	for name, v := range other {
		s[name] = v
	}
}

// Names returns the field identifiers in sorted order.
func (s FieldValueSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearPrefix marks a mapping entry whose fields are always blanked.
const ClearPrefix = "CLEAR_"

// Entry maps one dotted request path to the physical fields it fills.
// Entries whose Path starts with ClearPrefix are not looked up; their
// fields are set to the empty string.
type Entry struct {
	Path   string
	Fields []string
}

// Clears reports whether the entry blanks its fields instead of copying a value.
func (e Entry) Clears() bool {
	return strings.HasPrefix(e.Path, ClearPrefix)
}

// mappingTable is shared by every fill and must not be modified.
var mappingTable = []Entry{
	// applicant
	{"antragsteller.name", []string{"Person.Name1"}},
	{"antragsteller.abteilung", []string{"Person.Orga1"}},
	{"antragsteller.telefon", []string{"Person.Telefon1"}},
	{"antragsteller.mitreisender_name", []string{"Person.Name2"}},
	{"antragsteller.adresse_privat", []string{"Abfahrtsort", "RueckkehrNach"}},

	// trip
	{"reise_details.zielort", []string{"Reiseziel"}},
	{"reise_details.reiseweg", []string{"Reiseweg"}},
	{"reise_details.zweck", []string{"Begruendung"}},

	// times
	{"reise_details.start_datum", []string{"Datum"}},
	{"reise_details.start_zeit", []string{"Uhrzeit1"}},
	{"reise_details.dienstgeschaeft_beginn_datum", []string{"Datum3"}},
	{"reise_details.dienstgeschaeft_beginn_zeit", []string{"Uhrzeit3"}},
	{"reise_details.dienstgeschaeft_ende_datum", []string{"Datum2"}},
	{"reise_details.dienstgeschaeft_ende_zeit", []string{"Uhrzeit2"}},
	{"reise_details.ende_datum", []string{"Datum4"}},
	{"reise_details.ende_zeit", []string{"Uhrzeit4"}},

	// justifications
	{"befoerderung.sonderfall_begruendung_textfeld", []string{"Begruendung2"}},
	{"konfiguration_checkboxen.grosskundenrabatt_begruendung_wenn_nein", []string{"Begruendung3"}},

	// the template repeats the remarks box on both pages
	{"zusatz_infos.bemerkungen_feld", []string{
		"Bemerkungen_der_anstragstellenden_Person",
		"Bemerkungen_der_anstragstellenden_Person1",
	}},

	// exact addresses only apply to official vehicle trips
	{"CLEAR_DIENSTWAGEN", []string{"Genaue_Abfahrtsanschrift", "Genaue_Ankunftsanschrift"}},
}

// MappingTable returns the field mapping table. The slice is shared and
// read-only.
func MappingTable() []Entry {
	return mappingTable
}

// TargetFields returns every template field a fill may write: mapping
// targets in table order followed by AllBoxes.
func TargetFields() []string {
	var names []string
	for _, e := range mappingTable {
		names = append(names, e.Fields...)
	}
	return append(names, AllBoxes...)
}

// Resolve walks every entry of table through req and returns the text values
// to write. Entries whose path is absent are skipped. Only string and integer
// leaves are written.
func Resolve(req *trip.Request, table []Entry) FieldValueSet {
	values := make(FieldValueSet, len(table))
	for _, e := range table {
		if e.Clears() {
			for _, f := range e.Fields {
				values[f] = Text("")
			}
			continue
		}

		v, ok := req.Lookup(e.Path)
		if !ok {
			continue
		}

		var text string
		switch v := v.(type) {
		case string:
			text = NormalizeLineBreaks(v)
		case int:
			text = strconv.Itoa(v)
		default:
			continue
		}

		for _, f := range e.Fields {
			values[f] = Text(text)
		}
	}
	return values
}

// lineBreaks rewrites every newline spelling to the carriage return used by
// PDF text fields. CRLF comes first so it collapses to a single CR.
var lineBreaks = strings.NewReplacer("\r\n", "\r", `\n`, "\r", "\n", "\r")

// NormalizeLineBreaks converts CRLF, the two-character sequence backslash-n
// and LF to CR.
func NormalizeLineBreaks(s string) string {
	return lineBreaks.Replace(s)
}

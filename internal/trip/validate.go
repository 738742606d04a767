package trip

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for request parsing.
var (
	ErrMalformedJSON = errors.New("malformed JSON")
	ErrValidation    = errors.New("validation error")
)

// MaxSummaryViolations is how many violations Summary reports.
const MaxSummaryViolations = 3

// Field length limits.
const (
	MinNameLength        = 2
	MaxNameLength        = 100
	MinDepartmentLength  = 1
	MaxDepartmentLength  = 100
	MinPhoneLength       = 5
	MaxPhoneLength       = 50
	MinAddressLength     = 5
	MaxAddressLength     = 200
	MinDestinationLength = 3
	MaxDestinationLength = 300
	MinFreeTextLength    = 3
	MaxFreeTextLength    = 500
)

var (
	datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Modes lists the accepted transport modes in display order.
var Modes = []string{ModeCar, ModeRail, ModeBus, ModeOfficialVehicle, ModeFlight}

// Violation is one failed rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError lists every violation found in a request, in rule order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Summary()
}

// Unwrap lets callers test for ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Summary joins the first MaxSummaryViolations violations with "; ".
func (e *ValidationError) Summary() string {
	n := len(e.Violations)
	if n > MaxSummaryViolations {
		n = MaxSummaryViolations
	}
	parts := make([]string, 0, n)
	for _, v := range e.Violations[:n] {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// Parse decodes raw JSON into a Request, normalizes it and validates it.
// Syntax errors wrap ErrMalformedJSON; everything else that makes the input
// unacceptable is reported as a *ValidationError.
func Parse(data []byte) (*Request, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedJSON)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Violations: []Violation{typeViolation(typeErr)}}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	Normalize(&req)
	err := Validate(&req)
	if nulls := nullFlags(data); len(nulls) > 0 {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			verr = &ValidationError{}
		}
		verr.Violations = append(verr.Violations, nulls...)
		return nil, verr
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// flagKeys lists the true/false members of each flag section in rule order.
var flagKeys = []struct {
	section string
	keys    []string
}{
	{"konfiguration_checkboxen", []string{
		"bahncard_business_vorhanden",
		"bahncard_privat_vorhanden",
		"bahncard_beschaffung_beantragt",
		"grosskundenrabatt_genutzt",
		"weitere_ermaessigungen_vorhanden",
		"dienstgeschaeft_2km_umkreis",
		"anspruch_trennungsgeld",
		"weitere_anmerkungen_checkbox_aktivieren",
	}},
	{"verzicht_erklaerung", []string{
		"verzicht_tagegeld",
		"verzicht_uebernachtungsgeld",
		"verzicht_fahrtkosten",
	}},
}

// nullFlags reports flags sent as JSON null. An absent flag means false;
// decoding would turn null into false as well, so it is caught here.
func nullFlags(data []byte) []Violation {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	var violations []Violation
	for _, fk := range flagKeys {
		raw, ok := doc[fk.section]
		if !ok {
			continue
		}
		var members map[string]json.RawMessage
		if err := json.Unmarshal(raw, &members); err != nil {
			continue
		}
		for _, key := range fk.keys {
			if v, ok := members[key]; ok && string(bytes.TrimSpace(v)) == "null" {
				violations = append(violations, Violation{
					Field:   fk.section + "." + key,
					Message: "ungültiger Typ null, erwartet true/false",
				})
			}
		}
	}
	return violations
}

// Decode reads a whole JSON document from r and parses it.
func Decode(r io.Reader) (*Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}
	return Parse(data)
}

func typeViolation(err *json.UnmarshalTypeError) Violation {
	field := err.Field
	if field == "" {
		field = "(root)"
	}
	return Violation{
		Field:   field,
		Message: fmt.Sprintf("ungültiger Typ %s, erwartet %s", err.Value, typeName(err.Type)),
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "unbekannt"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "Text"
	case reflect.Bool:
		return "true/false"
	case reflect.Struct:
		return "Objekt"
	default:
		return t.Kind().String()
	}
}

// Normalize trims surrounding whitespace from every string and defaults blank
// legal-basis qualifiers to paragraph II.
func Normalize(r *Request) {
	if r == nil {
		return
	}
	if a := r.Applicant; a != nil {
		trim(a.Name, a.Department, a.Phone, a.PrivateAddress, a.CoTraveler)
	}
	if d := r.Details; d != nil {
		trim(d.Destination, d.Route, d.Purpose,
			d.StartDate, d.StartTime, d.EndDate, d.EndTime,
			d.BusinessStartDate, d.BusinessStartTime, d.BusinessEndDate, d.BusinessEndTime)
	}
	if e := r.Extra; e != nil {
		trim(e.Remarks)
	}
	if t := r.Transport; t != nil {
		trim(t.Justification)
		normalizeLeg(t.Outbound)
		normalizeLeg(t.Return)
	}
	if c := r.Checkboxes; c != nil {
		trim(c.DiscountJustification)
	}
	if s := r.Signature; s != nil {
		trim(s.DatePage2)
	}
}

func normalizeLeg(l *TransportLeg) {
	if l == nil {
		return
	}
	l.Mode = strings.TrimSpace(l.Mode)
	l.LegalBasis = strings.TrimSpace(l.LegalBasis)
	if l.LegalBasis == "" {
		l.LegalBasis = LegalBasisII
	}
}

func trim(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}

// check inspects one value and returns a message when it is unacceptable.
type check func(v *string) string

// rule binds a check to one field of a section.
type rule struct {
	field string
	get   func(r *Request) *string
	check check
}

// section is a required top-level object and the rules for its fields.
type section struct {
	key     string
	present func(r *Request) bool
	rules   []rule
}

var sections = []section{
	{
		key:     "antragsteller",
		present: func(r *Request) bool { return r.Applicant != nil },
		rules: []rule{
			{"antragsteller.name", func(r *Request) *string { return r.Applicant.Name }, length(MinNameLength, MaxNameLength)},
			{"antragsteller.abteilung", func(r *Request) *string { return r.Applicant.Department }, length(MinDepartmentLength, MaxDepartmentLength)},
			{"antragsteller.telefon", func(r *Request) *string { return r.Applicant.Phone }, length(MinPhoneLength, MaxPhoneLength)},
			{"antragsteller.adresse_privat", func(r *Request) *string { return r.Applicant.PrivateAddress }, length(MinAddressLength, MaxAddressLength)},
		},
	},
	{
		key:     "reise_details",
		present: func(r *Request) bool { return r.Details != nil },
		rules: []rule{
			{"reise_details.zielort", func(r *Request) *string { return r.Details.Destination }, length(MinDestinationLength, MaxDestinationLength)},
			{"reise_details.reiseweg", func(r *Request) *string { return r.Details.Route }, length(MinFreeTextLength, MaxFreeTextLength)},
			{"reise_details.zweck", func(r *Request) *string { return r.Details.Purpose }, length(MinFreeTextLength, MaxFreeTextLength)},
			{"reise_details.start_datum", func(r *Request) *string { return r.Details.StartDate }, date},
			{"reise_details.start_zeit", func(r *Request) *string { return r.Details.StartTime }, clock},
			{"reise_details.ende_datum", func(r *Request) *string { return r.Details.EndDate }, date},
			{"reise_details.ende_zeit", func(r *Request) *string { return r.Details.EndTime }, clock},
			{"reise_details.dienstgeschaeft_beginn_datum", func(r *Request) *string { return r.Details.BusinessStartDate }, date},
			{"reise_details.dienstgeschaeft_beginn_zeit", func(r *Request) *string { return r.Details.BusinessStartTime }, clock},
			{"reise_details.dienstgeschaeft_ende_datum", func(r *Request) *string { return r.Details.BusinessEndDate }, date},
			{"reise_details.dienstgeschaeft_ende_zeit", func(r *Request) *string { return r.Details.BusinessEndTime }, clock},
		},
	},
	{
		key:     "befoerderung",
		present: func(r *Request) bool { return r.Transport != nil },
		rules: []rule{
			{"befoerderung.hinreise.typ", func(r *Request) *string { return legMode(r.Transport.Outbound) }, mode},
			{"befoerderung.hinreise.paragraph_5_nrkvo", func(r *Request) *string { return legBasis(r.Transport.Outbound) }, legalBasis},
			{"befoerderung.rueckreise.typ", func(r *Request) *string { return legMode(r.Transport.Return) }, mode},
			{"befoerderung.rueckreise.paragraph_5_nrkvo", func(r *Request) *string { return legBasis(r.Transport.Return) }, legalBasis},
		},
	},
	{
		key:     "konfiguration_checkboxen",
		present: func(r *Request) bool { return r.Checkboxes != nil },
	},
}

// Validate applies the rules in order and returns a *ValidationError listing
// every violation, or nil. A missing section is reported once and its field
// rules are skipped.
func Validate(r *Request) error {
	if r == nil {
		return &ValidationError{Violations: []Violation{{Field: "(root)", Message: "Feld erforderlich"}}}
	}

	var violations []Violation
	for _, s := range sections {
		if !s.present(r) {
			violations = append(violations, Violation{Field: s.key, Message: "Feld erforderlich"})
			continue
		}
		for _, ru := range s.rules {
			if msg := ru.check(ru.get(r)); msg != "" {
				violations = append(violations, Violation{Field: ru.field, Message: msg})
			}
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func legMode(l *TransportLeg) *string {
	if l == nil {
		return nil
	}
	return &l.Mode
}

func legBasis(l *TransportLeg) *string {
	if l == nil {
		return nil
	}
	return &l.LegalBasis
}

func length(minLen, maxLen int) check {
	return func(v *string) string {
		if v == nil {
			return "Feld erforderlich"
		}
		n := utf8.RuneCountInString(*v)
		if n < minLen {
			return fmt.Sprintf("muss mindestens %d Zeichen lang sein", minLen)
		}
		if n > maxLen {
			return fmt.Sprintf("darf höchstens %d Zeichen lang sein", maxLen)
		}
		return ""
	}
}

func date(v *string) string {
	if v == nil {
		return "Feld erforderlich"
	}
	if !datePattern.MatchString(*v) {
		return fmt.Sprintf("Ungültiges Datumsformat: '%s'. Erwartet: DD.MM.YYYY", *v)
	}
	return ""
}

func clock(v *string) string {
	if v == nil {
		return "Feld erforderlich"
	}
	if !timePattern.MatchString(*v) {
		return fmt.Sprintf("Ungültiges Zeitformat: '%s'. Erwartet: HH:MM", *v)
	}
	return ""
}

func mode(v *string) string {
	if v == nil || *v == "" {
		return "Feld erforderlich"
	}
	for _, m := range Modes {
		if *v == m {
			return ""
		}
	}
	return fmt.Sprintf("ungültiger Wert '%s', erlaubt: %s", *v, strings.Join(Modes, ", "))
}

func legalBasis(v *string) string {
	if v == nil {
		return "Feld erforderlich"
	}
	if *v != LegalBasisII && *v != LegalBasisIII {
		return fmt.Sprintf("ungültiger Wert '%s', erlaubt: II, III", *v)
	}
	return ""
}

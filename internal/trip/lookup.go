package trip

import "strings"

// node is implemented by every nested section of a Request.
type node interface {
	lookup(path string) (any, bool)
}

// Lookup resolves a dotted path of JSON keys such as "reise_details.zielort".
//
// The second result is false as soon as a segment is absent: an optional
// section that was not submitted, an optional string left out, or a key the
// model does not know. Leaves are returned as string or bool; a path ending
// at a section returns that section.
func (r *Request) Lookup(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}

	head, rest, _ := strings.Cut(path, ".")

	var n node
	switch head {
	case "_meta":
		if r.Meta == nil {
			return nil, false
		}
		n = r.Meta
	case "antragsteller":
		if r.Applicant == nil {
			return nil, false
		}
		n = r.Applicant
	case "reise_details":
		if r.Details == nil {
			return nil, false
		}
		n = r.Details
	case "zusatz_infos":
		if r.Extra == nil {
			return nil, false
		}
		n = r.Extra
	case "befoerderung":
		if r.Transport == nil {
			return nil, false
		}
		n = r.Transport
	case "konfiguration_checkboxen":
		if r.Checkboxes == nil {
			return nil, false
		}
		n = r.Checkboxes
	case "verzicht_erklaerung":
		if r.Waivers == nil {
			return nil, false
		}
		n = r.Waivers
	case "unterschrift":
		if r.Signature == nil {
			return nil, false
		}
		n = r.Signature
	default:
		return nil, false
	}

	if rest == "" {
		return n, true
	}
	return n.lookup(rest)
}

func (m *Meta) lookup(key string) (any, bool) {
	switch key {
	case "description":
		return str(m.Description)
	case "version":
		return str(m.Version)
	}
	return nil, false
}

func (a *Applicant) lookup(key string) (any, bool) {
	switch key {
	case "name":
		return str(a.Name)
	case "abteilung":
		return str(a.Department)
	case "telefon":
		return str(a.Phone)
	case "adresse_privat":
		return str(a.PrivateAddress)
	case "mitreisender_name":
		return str(a.CoTraveler)
	}
	return nil, false
}

func (d *Details) lookup(key string) (any, bool) {
	switch key {
	case "zielort":
		return str(d.Destination)
	case "reiseweg":
		return str(d.Route)
	case "zweck":
		return str(d.Purpose)
	case "start_datum":
		return str(d.StartDate)
	case "start_zeit":
		return str(d.StartTime)
	case "ende_datum":
		return str(d.EndDate)
	case "ende_zeit":
		return str(d.EndTime)
	case "dienstgeschaeft_beginn_datum":
		return str(d.BusinessStartDate)
	case "dienstgeschaeft_beginn_zeit":
		return str(d.BusinessStartTime)
	case "dienstgeschaeft_ende_datum":
		return str(d.BusinessEndDate)
	case "dienstgeschaeft_ende_zeit":
		return str(d.BusinessEndTime)
	}
	return nil, false
}

func (e *Extra) lookup(key string) (any, bool) {
	if key == "bemerkungen_feld" {
		return str(e.Remarks)
	}
	return nil, false
}

func (t *Transport) lookup(path string) (any, bool) {
	head, rest, _ := strings.Cut(path, ".")

	var leg *TransportLeg
	switch head {
	case "hinreise":
		leg = t.Outbound
	case "rueckreise":
		leg = t.Return
	case "sonderfall_begruendung_textfeld":
		if rest != "" {
			return nil, false
		}
		return str(t.Justification)
	default:
		return nil, false
	}

	if leg == nil {
		return nil, false
	}
	if rest == "" {
		return leg, true
	}
	return leg.lookup(rest)
}

func (l *TransportLeg) lookup(key string) (any, bool) {
	switch key {
	case "typ":
		return l.Mode, true
	case "paragraph_5_nrkvo":
		return l.LegalBasis, true
	}
	return nil, false
}

func (c *Checkboxes) lookup(key string) (any, bool) {
	switch key {
	case "bahncard_business_vorhanden":
		return c.BusinessCard, true
	case "bahncard_privat_vorhanden":
		return c.PrivateCard, true
	case "bahncard_beschaffung_beantragt":
		return c.ProcurementRequested, true
	case "grosskundenrabatt_genutzt":
		return c.DiscountUsed, true
	case "grosskundenrabatt_begruendung_wenn_nein":
		return str(c.DiscountJustification)
	case "weitere_ermaessigungen_vorhanden":
		return c.FurtherReductions, true
	case "dienstgeschaeft_2km_umkreis":
		return c.WithinTwoKilometres, true
	case "anspruch_trennungsgeld":
		return c.SeparationAllowance, true
	case "weitere_anmerkungen_checkbox_aktivieren":
		return c.EnableRemarksCheckbox, true
	}
	return nil, false
}

func (w *Waivers) lookup(key string) (any, bool) {
	switch key {
	case "verzicht_tagegeld":
		return w.DailyAllowance, true
	case "verzicht_uebernachtungsgeld":
		return w.OvernightAllowance, true
	case "verzicht_fahrtkosten":
		return w.TravelCosts, true
	}
	return nil, false
}

func (s *Signature) lookup(key string) (any, bool) {
	if key == "datum_seite_2" {
		return str(s.DatePage2)
	}
	return nil, false
}

func str(s *string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return *s, true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

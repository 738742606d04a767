// Package trip holds the travel-expense request submitted for a business trip
// reimbursement form, the validator that turns untrusted JSON into a Request,
// and a dotted-path accessor used by the form field mapping.
//
// JSON keys follow the wire format of the submitting clients (German field
// names); Go identifiers use the English meaning of each field.
package trip

// Transport modes accepted for a TransportLeg.
const (
	ModeCar             = "PKW"
	ModeRail            = "BAHN"
	ModeBus             = "BUS"
	ModeOfficialVehicle = "DIENSTWAGEN"
	ModeFlight          = "FLUG"
)

// Legal basis qualifiers for a TransportLeg.
const (
	LegalBasisII  = "II"
	LegalBasisIII = "III"
)

// Date and time layouts used throughout the request.
const (
	DateLayout    = "02.01.2006"
	CompactLayout = "20060102"
)

// Request is the validated root aggregate of one submission.
type Request struct {
	Meta       *Meta       `json:"_meta,omitempty"`
	Applicant  *Applicant  `json:"antragsteller"`
	Details    *Details    `json:"reise_details"`
	Extra      *Extra      `json:"zusatz_infos,omitempty"`
	Transport  *Transport  `json:"befoerderung"`
	Checkboxes *Checkboxes `json:"konfiguration_checkboxen"`
	Waivers    *Waivers    `json:"verzicht_erklaerung,omitempty"`
	Signature  *Signature  `json:"unterschrift,omitempty"`
}

// Meta is informational and never written to the form.
type Meta struct {
	Description *string `json:"description,omitempty"`
	Version     *string `json:"version,omitempty"`
}

// Applicant identifies the person travelling.
type Applicant struct {
	Name           *string `json:"name"`
	Department     *string `json:"abteilung"`
	Phone          *string `json:"telefon"`
	PrivateAddress *string `json:"adresse_privat"`
	CoTraveler     *string `json:"mitreisender_name,omitempty"`
}

// Details describes where, why and when the trip happens.
type Details struct {
	Destination *string `json:"zielort"`
	Route       *string `json:"reiseweg"`
	Purpose     *string `json:"zweck"`

	StartDate *string `json:"start_datum"`
	StartTime *string `json:"start_zeit"`
	EndDate   *string `json:"ende_datum"`
	EndTime   *string `json:"ende_zeit"`

	BusinessStartDate *string `json:"dienstgeschaeft_beginn_datum"`
	BusinessStartTime *string `json:"dienstgeschaeft_beginn_zeit"`
	BusinessEndDate   *string `json:"dienstgeschaeft_ende_datum"`
	BusinessEndTime   *string `json:"dienstgeschaeft_ende_zeit"`
}

// Extra carries free-text remarks.
type Extra struct {
	Remarks *string `json:"bemerkungen_feld,omitempty"`
}

// Transport holds both legs of the journey.
type Transport struct {
	Outbound      *TransportLeg `json:"hinreise"`
	Return        *TransportLeg `json:"rueckreise"`
	Justification *string       `json:"sonderfall_begruendung_textfeld,omitempty"`
}

// TransportLeg is one direction of the journey.
type TransportLeg struct {
	Mode       string `json:"typ"`
	LegalBasis string `json:"paragraph_5_nrkvo,omitempty"`
}

// IsCar reports whether the leg is travelled by private car. The comparison
// ignores case.
func (l *TransportLeg) IsCar() bool {
	return l != nil && containsFold(l.Mode, ModeCar)
}

// Checkboxes are the independent yes/no declarations on the form.
type Checkboxes struct {
	BusinessCard          bool    `json:"bahncard_business_vorhanden"`
	PrivateCard           bool    `json:"bahncard_privat_vorhanden"`
	ProcurementRequested  bool    `json:"bahncard_beschaffung_beantragt"`
	DiscountUsed          bool    `json:"grosskundenrabatt_genutzt"`
	DiscountJustification *string `json:"grosskundenrabatt_begruendung_wenn_nein,omitempty"`
	FurtherReductions     bool    `json:"weitere_ermaessigungen_vorhanden"`
	WithinTwoKilometres   bool    `json:"dienstgeschaeft_2km_umkreis"`
	SeparationAllowance   bool    `json:"anspruch_trennungsgeld"`
	EnableRemarksCheckbox bool    `json:"weitere_anmerkungen_checkbox_aktivieren"`
}

// Waivers are declarations to forgo parts of the reimbursement.
type Waivers struct {
	DailyAllowance     bool `json:"verzicht_tagegeld"`
	OvernightAllowance bool `json:"verzicht_uebernachtungsgeld"`
	TravelCosts        bool `json:"verzicht_fahrtkosten"`
}

// Signature carries an optional date override. It is parsed but the stamped
// signature line always uses the generation date.
type Signature struct {
	DatePage2 *string `json:"datum_seite_2,omitempty"`
}

// ApplicantName returns the applicant's name or "" when absent.
func (r *Request) ApplicantName() string {
	if r == nil || r.Applicant == nil {
		return ""
	}
	return deref(r.Applicant.Name)
}

// StartDate returns the trip start date text or "" when absent.
func (r *Request) StartDate() string {
	if r == nil || r.Details == nil {
		return ""
	}
	return deref(r.Details.StartDate)
}

// Destination returns the destination text or "" when absent.
func (r *Request) Destination() string {
	if r == nil || r.Details == nil {
		return ""
	}
	return deref(r.Details.Destination)
}

// Purpose returns the purpose text or "" when absent.
func (r *Request) Purpose() string {
	if r == nil || r.Details == nil {
		return ""
	}
	return deref(r.Details.Purpose)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

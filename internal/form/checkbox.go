package form

import (
	"fmt"

	"github.com/a3tai/dr-antrag/internal/trip"
)

// Physical checkbox identifiers on the template.
const (
	BoxOutboundCarIII = "OBJ43"
	BoxOutboundCarII  = "OBJ42"
	BoxReturnCarIII   = "OBJ14"
	BoxReturnCarII    = "OBJ48"

	BoxNoBusinessCard  = "BCB_Nein"
	BoxNoPrivateCard   = "BC_Nein"
	BoxNoProcurement   = "Beschaffung_Nein"
	BoxDiscountUsed    = "Obj6"
	BoxDiscountUnused  = "Obj7"
	BoxFurtherYes      = "Obj8"
	BoxFurtherNo       = "Obj15"
	BoxRemarks         = "Obj39"
	BoxWithinTwoKm     = "Obj52"
	BoxBeyondTwoKm     = "Obj49"
	BoxSeparationYes   = "Obj59"
	BoxSeparationNo    = "Obj56"
	BoxWaiveDaily      = "Obj10"
	BoxWaiveOvernight  = "Obj11"
	BoxWaiveTravelCost = "Obj12"
)

// AllBoxes lists every checkbox the rules can touch.
var AllBoxes = []string{
	BoxOutboundCarIII, BoxOutboundCarII, BoxReturnCarIII, BoxReturnCarII,
	BoxNoBusinessCard, BoxNoPrivateCard, BoxNoProcurement,
	BoxDiscountUsed, BoxDiscountUnused, BoxFurtherYes, BoxFurtherNo,
	BoxRemarks, BoxWithinTwoKm, BoxBeyondTwoKm, BoxSeparationYes, BoxSeparationNo,
	BoxWaiveDaily, BoxWaiveOvernight, BoxWaiveTravelCost,
}

// ExclusivePairs lists the checkboxes of which exactly one is always active.
var ExclusivePairs = [][2]string{
	{BoxDiscountUsed, BoxDiscountUnused},
	{BoxFurtherYes, BoxFurtherNo},
	{BoxWithinTwoKm, BoxBeyondTwoKm},
	{BoxSeparationYes, BoxSeparationNo},
}

// CheckboxState returns the identifiers of every checkbox the request
// activates, in rule order. All rules are evaluated; none short-circuits.
// It fails with ErrIncompleteRequest when the transport or checkbox
// sections are missing.
func CheckboxState(req *trip.Request) ([]string, error) {
	if req == nil || req.Transport == nil || req.Checkboxes == nil {
		return nil, fmt.Errorf("%w: befoerderung and konfiguration_checkboxen are required", ErrIncompleteRequest)
	}
	t, c := req.Transport, req.Checkboxes
	if t.Outbound == nil || t.Return == nil {
		return nil, fmt.Errorf("%w: both transport legs are required", ErrIncompleteRequest)
	}

	var on []string
	pick := func(cond bool, yes, no string) {
		if cond {
			on = append(on, yes)
		} else {
			on = append(on, no)
		}
	}
	when := func(cond bool, box string) {
		if cond {
			on = append(on, box)
		}
	}

	if t.Outbound.IsCar() {
		pick(t.Outbound.LegalBasis == trip.LegalBasisIII, BoxOutboundCarIII, BoxOutboundCarII)
	}
	if t.Return.IsCar() {
		pick(t.Return.LegalBasis == trip.LegalBasisIII, BoxReturnCarIII, BoxReturnCarII)
	}

	when(!c.BusinessCard, BoxNoBusinessCard)
	when(!c.PrivateCard, BoxNoPrivateCard)
	when(!c.ProcurementRequested, BoxNoProcurement)

	pick(c.DiscountUsed, BoxDiscountUsed, BoxDiscountUnused)
	pick(c.FurtherReductions, BoxFurtherYes, BoxFurtherNo)
	when(c.EnableRemarksCheckbox, BoxRemarks)

	pick(c.WithinTwoKilometres, BoxWithinTwoKm, BoxBeyondTwoKm)
	pick(c.SeparationAllowance, BoxSeparationYes, BoxSeparationNo)

	if w := req.Waivers; w != nil {
		when(w.DailyAllowance, BoxWaiveDaily)
		when(w.OvernightAllowance, BoxWaiveOvernight)
		when(w.TravelCosts, BoxWaiveTravelCost)
	}

	return on, nil
}

// Checkboxes returns CheckboxState as a FieldValueSet of activated flags.
func Checkboxes(req *trip.Request) (FieldValueSet, error) {
	on, err := CheckboxState(req)
	if err != nil {
		return nil, err
	}
	values := make(FieldValueSet, len(on))
	for _, box := range on {
		values[box] = Flag(true)
	}
	return values, nil
}

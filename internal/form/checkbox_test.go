package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/dr-antrag/internal/trip"
)

func transportBoxes(on []string) []string {
	var out []string
	for _, box := range on {
		switch box {
		case BoxOutboundCarII, BoxOutboundCarIII, BoxReturnCarII, BoxReturnCarIII:
			out = append(out, box)
		}
	}
	return out
}

func TestCheckboxState_Transport(t *testing.T) {
	tests := []struct {
		name     string
		outbound trip.TransportLeg
		ret      trip.TransportLeg
		want     []string
	}{
		{
			name:     "car under paragraph III",
			outbound: trip.TransportLeg{Mode: "PKW", LegalBasis: "III"},
			ret:      trip.TransportLeg{Mode: "PKW", LegalBasis: "III"},
			want:     []string{BoxOutboundCarIII, BoxReturnCarIII},
		},
		{
			name:     "car under paragraph II",
			outbound: trip.TransportLeg{Mode: "PKW", LegalBasis: "II"},
			ret:      trip.TransportLeg{Mode: "PKW", LegalBasis: "II"},
			want:     []string{BoxOutboundCarII, BoxReturnCarII},
		},
		{
			name:     "car without legal basis",
			outbound: trip.TransportLeg{Mode: "PKW"},
			ret:      trip.TransportLeg{Mode: "pkw"},
			want:     []string{BoxOutboundCarII, BoxReturnCarII},
		},
		{
			name:     "mixed legs",
			outbound: trip.TransportLeg{Mode: "BAHN", LegalBasis: "III"},
			ret:      trip.TransportLeg{Mode: "PKW", LegalBasis: "III"},
			want:     []string{BoxReturnCarIII},
		},
		{
			name:     "no car",
			outbound: trip.TransportLeg{Mode: "FLUG"},
			ret:      trip.TransportLeg{Mode: "DIENSTWAGEN", LegalBasis: "III"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(t, func(r *trip.Request) {
				out, ret := tt.outbound, tt.ret
				r.Transport.Outbound = &out
				r.Transport.Return = &ret
			})

			on, err := CheckboxState(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, transportBoxes(on))
		})
	}
}

func TestCheckboxState_Defaults(t *testing.T) {
	on, err := CheckboxState(validRequest(t, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{
		BoxOutboundCarII,
		BoxReturnCarII,
		BoxNoBusinessCard,
		BoxNoPrivateCard,
		BoxNoProcurement,
		BoxDiscountUnused,
		BoxFurtherNo,
		BoxBeyondTwoKm,
		BoxSeparationNo,
	}, on)
}

func TestCheckboxState_AllDeclared(t *testing.T) {
	req := validRequest(t, func(r *trip.Request) {
		r.Checkboxes = &trip.Checkboxes{
			BusinessCard:          true,
			PrivateCard:           true,
			ProcurementRequested:  true,
			DiscountUsed:          true,
			FurtherReductions:     true,
			WithinTwoKilometres:   true,
			SeparationAllowance:   true,
			EnableRemarksCheckbox: true,
		}
		r.Waivers = &trip.Waivers{DailyAllowance: true, OvernightAllowance: true, TravelCosts: true}
	})

	on, err := CheckboxState(req)
	require.NoError(t, err)

	assert.NotContains(t, on, BoxNoBusinessCard)
	assert.NotContains(t, on, BoxNoPrivateCard)
	assert.NotContains(t, on, BoxNoProcurement)
	for _, box := range []string{
		BoxDiscountUsed, BoxFurtherYes, BoxRemarks, BoxWithinTwoKm, BoxSeparationYes,
		BoxWaiveDaily, BoxWaiveOvernight, BoxWaiveTravelCost,
	} {
		assert.Contains(t, on, box)
	}
}

func TestCheckboxState_Waivers(t *testing.T) {
	req := validRequest(t, func(r *trip.Request) {
		r.Waivers = &trip.Waivers{OvernightAllowance: true}
	})

	on, err := CheckboxState(req)
	require.NoError(t, err)

	assert.Contains(t, on, BoxWaiveOvernight)
	assert.NotContains(t, on, BoxWaiveDaily)
	assert.NotContains(t, on, BoxWaiveTravelCost)
}

func TestCheckboxState_ExclusivePairs(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		req := validRequest(t, func(r *trip.Request) {
			r.Checkboxes.DiscountUsed = mask&1 != 0
			r.Checkboxes.FurtherReductions = mask&2 != 0
			r.Checkboxes.WithinTwoKilometres = mask&4 != 0
			r.Checkboxes.SeparationAllowance = mask&8 != 0
		})

		on, err := CheckboxState(req)
		require.NoError(t, err)

		for _, pair := range ExclusivePairs {
			count := 0
			for _, box := range on {
				if box == pair[0] || box == pair[1] {
					count++
				}
			}
			assert.Equal(t, 1, count, "mask %04b pair %v", mask, pair)
		}
	}
}

func TestCheckboxState_Incomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *trip.Request)
	}{
		{"no transport", func(r *trip.Request) { r.Transport = nil }},
		{"no checkbox configuration", func(r *trip.Request) { r.Checkboxes = nil }},
		{"no return leg", func(r *trip.Request) { r.Transport.Return = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			on, err := CheckboxState(validRequest(t, tt.mutate))
			assert.ErrorIs(t, err, ErrIncompleteRequest)
			assert.Nil(t, on)
		})
	}

	_, err := CheckboxState(nil)
	assert.ErrorIs(t, err, ErrIncompleteRequest)
}

func TestCheckboxes(t *testing.T) {
	values, err := Checkboxes(validRequest(t, nil))
	require.NoError(t, err)

	assert.Len(t, values, 9)
	for name, v := range values {
		assert.Equal(t, Flag(true), v, "field %s", name)
	}
}

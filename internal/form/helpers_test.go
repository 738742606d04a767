package form

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a3tai/dr-antrag/internal/trip"
)

const validJSON = `{
  "antragsteller": {
    "name": "Max Mustermann",
    "abteilung": "IT-Abteilung",
    "telefon": "0591 12345-678",
    "adresse_privat": "Musterstraße 1, 49808 Lingen",
    "mitreisender_name": ""
  },
  "reise_details": {
    "zielort": "26486 Wangerooge",
    "reiseweg": "Lingen -> Wangerooge -> Lingen",
    "zweck": "Fortbildung: Test",
    "start_datum": "15.05.2026",
    "start_zeit": "06:30",
    "ende_datum": "17.05.2026",
    "ende_zeit": "19:00",
    "dienstgeschaeft_beginn_datum": "15.05.2026",
    "dienstgeschaeft_beginn_zeit": "10:00",
    "dienstgeschaeft_ende_datum": "17.05.2026",
    "dienstgeschaeft_ende_zeit": "14:00"
  },
  "befoerderung": {
    "hinreise": {"typ": "PKW", "paragraph_5_nrkvo": "II"},
    "rueckreise": {"typ": "PKW", "paragraph_5_nrkvo": "II"},
    "sonderfall_begruendung_textfeld": ""
  },
  "konfiguration_checkboxen": {
    "bahncard_business_vorhanden": false,
    "bahncard_privat_vorhanden": false,
    "bahncard_beschaffung_beantragt": false,
    "grosskundenrabatt_genutzt": false,
    "grosskundenrabatt_begruendung_wenn_nein": "",
    "weitere_ermaessigungen_vorhanden": false,
    "dienstgeschaeft_2km_umkreis": false,
    "anspruch_trennungsgeld": false,
    "weitere_anmerkungen_checkbox_aktivieren": false
  }
}`

// validRequest parses validJSON and applies mutate, if any.
func validRequest(t *testing.T, mutate func(r *trip.Request)) *trip.Request {
	t.Helper()
	req, err := trip.Parse([]byte(validJSON))
	require.NoError(t, err)
	if mutate != nil {
		mutate(req)
	}
	return req
}

func strptr(s string) *string { return &s }

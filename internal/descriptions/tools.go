package descriptions

// Tool descriptions shown to MCP clients. They double as instructions for
// the language model that assembles the request JSON.

const (
	FillFormDescription = `Fill the official business trip request form (DR-Antrag) from a JSON request and write the PDF.

**When to use:** A traveller has described a business trip and the signed request form is needed.

**Input:** The request JSON as a string. Required sections: antragsteller, reise_details, befoerderung,
konfiguration_checkboxen. Optional: zusatz_infos, verzicht_erklaerung, unterschrift. Call dr_example first
to see the exact shape.

**Rules the form enforces:**
• Dates are DD.MM.YYYY, times are HH:MM with two-digit hours ("06:30", not "6:30")
• befoerderung.*.typ is one of PKW, BAHN, BUS, DIENSTWAGEN, FLUG (upper case)
• paragraph_5_nrkvo is "II" or "III"; leave it empty for "II"
• Line breaks in bemerkungen_feld may be written as \n

**Output:** Path of the written PDF. The name is derived from start date, destination and purpose,
e.g. 20260515_DR-Antrag_Wangerooge_Datenschutz.pdf. The applicant's name and today's date are printed
on the signature line of page 2.

**Errors:** Validation problems are reported field by field (first three), so they can be fixed and the
call repeated.`

	ExampleDescription = `Return a complete, valid example request for dr_fill_form.

**When to use:** Before building a request, to copy the field names and value formats. The example
describes a two-day training trip by private car.`

	TemplateFieldsDescription = `List the form fields of the configured template: name, type, current value and page.

**When to use:** Troubleshooting. Checks that the template in use still carries the field names the
filler writes to, e.g. after the administration publishes a new form revision.`

	TemplateStatusDescription = `Report whether the configured template exists, is readable and how many pages it has.

**When to use:** When dr_fill_form fails with a template error, or to check the deployment.`
)

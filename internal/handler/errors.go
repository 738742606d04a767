package handler

import (
	"encoding/json"
	"net/http"
)

// User facing messages. The first two keep the wording existing clients
// match on.
const (
	msgNoData           = "No JSON data provided"
	msgInvalidJSON      = "Invalid JSON format"
	msgValidationPrefix = "Validierungsfehler: "
	msgTooLarge         = "Anfrage zu groß"
	msgRateLimited      = "Zu viele Anfragen. Bitte warte eine Minute."
	msgTemplateMissing  = "PDF-Vorlage nicht gefunden"
	msgGenerationFailed = "PDF-Generierung fehlgeschlagen"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

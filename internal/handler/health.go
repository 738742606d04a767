package handler

import (
	"net/http"
)

// healthResponse reports liveness and whether the template can be used.
// The service stays up without a template; generate then fails with 500.
type healthResponse struct {
	Status           string `json:"status"`
	TemplateExists   bool   `json:"template_exists"`
	TemplateReadable bool   `json:"template_readable"`
	Version          string `json:"version"`
}

// health handles GET /health.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := s.forms.TemplateStatus()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		TemplateExists:   status.Exists,
		TemplateReadable: status.Readable,
		Version:          s.version,
	})
}

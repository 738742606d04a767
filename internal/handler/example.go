package handler

import (
	"net/http"

	"github.com/a3tai/dr-antrag/internal/trip"
)

// example handles GET /example with the bundled example request.
func (s *Server) example(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(trip.ExampleJSON())
}

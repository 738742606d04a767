// Package handler implements the HTTP API of the form service:
// GET /health, GET /example and POST /generate.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/a3tai/dr-antrag/internal/form"
	"github.com/a3tai/dr-antrag/internal/middleware"
	"github.com/a3tai/dr-antrag/internal/pdf/security"
)

// Options tunes the router.
type Options struct {
	// RateLimit is the number of generate requests per minute allowed per
	// client IP. Zero disables limiting.
	RateLimit int
	// MaxBody caps request bodies of POST /generate in bytes. Zero disables it.
	MaxBody int64
	// CORSOrigins enables CORS for the listed origins when not empty.
	CORSOrigins []string
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	forms   *form.Service
	outRoot *security.OutputRoot
	version string
	logger  *slog.Logger
}

// NewServer creates the handler set. Generated files are written to work
// directories below outRoot and removed once the response is sent.
func NewServer(forms *form.Service, outRoot *security.OutputRoot, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		forms:   forms,
		outRoot: outRoot,
		version: version,
		logger:  logger,
	}
}

// Router builds the chi router with the middleware chain
// RequestID → RealIP → request logger → Recoverer → CORS.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.NewCORSHandler(opts.CORSOrigins))
	}

	r.Get("/health", s.health)
	r.Get("/example", s.example)

	r.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.Limit(opts.RateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(s.tooManyRequests),
			))
		}
		r.Use(middleware.NewMaxBodySizeHandler(opts.MaxBody))
		r.Post("/generate", s.generate)
	})

	return r
}

func (s *Server) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("rate limit exceeded", "remote_addr", r.RemoteAddr)
	writeError(w, http.StatusTooManyRequests, msgRateLimited)
}

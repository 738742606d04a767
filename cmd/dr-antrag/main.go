package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/a3tai/dr-antrag/internal/config"
	"github.com/a3tai/dr-antrag/internal/form"
	"github.com/a3tai/dr-antrag/internal/handler"
	"github.com/a3tai/dr-antrag/internal/mcp"
	"github.com/a3tai/dr-antrag/internal/pdf/security"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const shutdownTimeout = 15 * time.Second

// setupLogging builds the process logger. Server mode logs JSON to stdout.
// Stdio mode keeps stdout free for the MCP protocol and logs text to stderr,
// and only when debug is enabled.
func setupLogging(cfg *config.Config, stdout, stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}

	if cfg.IsStdioMode() {
		if !cfg.IsDebug() {
			stderr = io.Discard
		}
		return slog.New(slog.NewTextHandler(stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(stdout, opts))
}

// newHTTPServer wraps h with explicit timeouts.
func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// runServerMode serves the HTTP API until SIGINT or SIGTERM, then gives
// in-flight requests shutdownTimeout to finish.
func runServerMode(cfg *config.Config, forms *form.Service, outRoot *security.OutputRoot, logger *slog.Logger) error {
	api := handler.NewServer(forms, outRoot, cfg.Version, logger)
	srv := newHTTPServer(cfg, api.Router(handler.Options{
		RateLimit:   cfg.RateLimit,
		MaxBody:     cfg.MaxBodySize,
		CORSOrigins: cfg.CORSOrigins,
	}))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "template", forms.TemplatePath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	select {
	case sig := <-stop:
		logger.Info("shutting down server", "signal", sig.String())
	case err := <-serverErrCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// runStdioMode serves the MCP tools until the parent process closes stdin.
func runStdioMode(cfg *config.Config, forms *form.Service, outRoot *security.OutputRoot) error {
	server, err := mcp.NewServer(cfg, forms, outRoot)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(context.Background())
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion()
		return
	}
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger := setupLogging(cfg, os.Stdout, os.Stderr)
	slog.SetDefault(logger)

	logger.Debug("starting with configuration", "config", cfg.String())

	outRoot, err := security.NewOutputRoot(cfg.OutputDir)
	if err != nil {
		logger.Error("invalid output directory", "error", err)
		os.Exit(1)
	}

	forms := form.NewService(cfg.TemplatePath, cfg.MaxFileSize, form.WithLogger(logger))

	// A missing template is reported per request; start anyway so /health
	// can tell operators what is wrong.
	if status := forms.TemplateStatus(); !status.Readable {
		logger.Warn("template not usable", "path", status.Path, "problem", status.Message)
	}

	if cfg.IsServerMode() {
		err = runServerMode(cfg, forms, outRoot, logger)
	} else {
		err = runStdioMode(cfg, forms, outRoot)
	}
	if err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("DR-Antrag\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}

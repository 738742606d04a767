package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 5001
	DefaultHost         = "0.0.0.0"
	DefaultLogLevel     = "info"
	DefaultTemplatePath = "forms/DR-Antrag_035_001Stand4-2025pdf.pdf"
	DefaultRateLimit    = 10               // requests per minute per client IP
	DefaultMaxBodySize  = 1 << 20          // 1MB
	DefaultMaxFileSize  = 50 * 1024 * 1024 // 50MB

	// EnvPrefix prefixes every environment variable, e.g. DR_ANTRAG_PORT.
	EnvPrefix = "DR_ANTRAG"
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the form service
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Form configuration
	TemplatePath string
	OutputDir    string // generated files are written below this directory

	// HTTP limits
	RateLimit   int   // generate requests per minute per client, 0 disables
	MaxBodySize int64 // bytes
	CORSOrigins []string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum template size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:         ModeServer,
		Host:         DefaultHost,
		Port:         DefaultPort,
		TemplatePath: DefaultTemplatePath,
		OutputDir:    filepath.Join(os.TempDir(), "dr-antrag"),
		RateLimit:    DefaultRateLimit,
		MaxBodySize:  DefaultMaxBodySize,
		Version:      "0.1.0",
		ServerName:   "dr-antrag",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.TemplatePath, &cfg.OutputDir} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("ratelimit", cfg.RateLimit)
	viper.SetDefault("maxbody", cfg.MaxBodySize)
	viper.SetDefault("cors", "")
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'server' for the HTTP API, 'stdio' for MCP standard I/O")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("template", cfg.TemplatePath, "Path to the business trip form template PDF")
	pflag.String("outdir", cfg.OutputDir, "Directory below which generated PDFs are written")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int("ratelimit", cfg.RateLimit, "Generate requests per minute per client IP (0 disables)")
	pflag.Int64("maxbody", cfg.MaxBodySize, "Maximum request body size in bytes")
	pflag.String("cors", "", "Comma-separated list of allowed CORS origins")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum template file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "template", "outdir",
		"loglevel", "ratelimit", "maxbody", "cors", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nDR-Antrag - fills the business trip request form from JSON\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   # HTTP API on 0.0.0.0:5001 (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --template=/srv/forms/dr.pdf      # custom template\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --outdir=$HOME/dr    # MCP tool server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_MODE        Run mode\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_TEMPLATE    Template path\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_OUTDIR      Output directory\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_RATELIMIT   Rate limit per minute\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_MAXBODY     Maximum request body size\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_CORS        Allowed CORS origins\n")
		fmt.Fprintf(os.Stderr, "  DR_ANTRAG_MAXFILESIZE Maximum template size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.TemplatePath = viper.GetString("template")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.RateLimit = viper.GetInt("ratelimit")
	cfg.MaxBodySize = viper.GetInt64("maxbody")
	cfg.CORSOrigins = splitOrigins(viper.GetString("cors"))
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimSuffix(o, "/"))
		}
	}
	return origins
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.TemplatePath == "" {
		return errors.New("template path cannot be empty")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	if c.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	if c.MaxBodySize <= 0 {
		return errors.New("maximum body size must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	for _, origin := range c.CORSOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") && origin != "*" {
			return fmt.Errorf("invalid CORS origin: %s (must include scheme)", origin)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, TemplatePath: %s, OutputDir: %s, LogLevel: %s, "+
		"RateLimit: %d, MaxBodySize: %d, CORSOrigins: %v}",
		c.Mode, c.Host, c.Port, c.TemplatePath, c.OutputDir, c.LogLevel,
		c.RateLimit, c.MaxBodySize, c.CORSOrigins)
}

// IsServerMode returns true if the HTTP API should be served
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the MCP tool server runs over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

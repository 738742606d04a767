package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/dr-antrag/internal/config"
	"github.com/a3tai/dr-antrag/internal/descriptions"
	"github.com/a3tai/dr-antrag/internal/form"
	"github.com/a3tai/dr-antrag/internal/pdf/security"
	"github.com/a3tai/dr-antrag/internal/trip"
)

// Tool names.
const (
	ToolFillForm       = "dr_fill_form"
	ToolExample        = "dr_example"
	ToolTemplateFields = "dr_template_fields"
	ToolTemplateStatus = "dr_template_status"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	forms     *form.Service
	outRoot   *security.OutputRoot
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance. Forms are written below
// outRoot.
func NewServer(cfg *config.Config, forms *form.Service, outRoot *security.OutputRoot) (*Server, error) {
	if forms == nil {
		return nil, fmt.Errorf("form service cannot be nil")
	}
	if outRoot == nil {
		return nil, fmt.Errorf("output root cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		forms:     forms,
		outRoot:   outRoot,
		mcpServer: mcpServer,
		logger:    slog.Default(),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	fillFormTool := mcp.NewTool(
		ToolFillForm,
		mcp.WithDescription(descriptions.FillFormDescription),
		mcp.WithString("json",
			mcp.Required(),
			mcp.Description("The business trip request as a JSON document"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory for the PDF, relative to the configured output directory (optional)"),
		),
	)
	s.mcpServer.AddTool(fillFormTool, s.handleFillForm)

	exampleTool := mcp.NewTool(
		ToolExample,
		mcp.WithDescription(descriptions.ExampleDescription),
	)
	s.mcpServer.AddTool(exampleTool, s.handleExample)

	templateFieldsTool := mcp.NewTool(
		ToolTemplateFields,
		mcp.WithDescription(descriptions.TemplateFieldsDescription),
	)
	s.mcpServer.AddTool(templateFieldsTool, s.handleTemplateFields)

	templateStatusTool := mcp.NewTool(
		ToolTemplateStatus,
		mcp.WithDescription(descriptions.TemplateStatusDescription),
	)
	s.mcpServer.AddTool(templateStatusTool, s.handleTemplateStatus)
}

// Handler functions
func (s *Server) handleFillForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outputDir := ""
	if dir, ok := request.GetArguments()["output_dir"].(string); ok {
		outputDir = dir
	}
	dir, err := s.outRoot.Resolve(outputDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := s.forms.Generate([]byte(raw), dir)
	if err != nil {
		return mcp.NewToolResultError(fillErrorText(err)), nil
	}

	responseText := fmt.Sprintf("PDF created: %s\n", path)
	responseText += fmt.Sprintf("Filename: %s\n", filepath.Base(path))
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExample(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(string(trip.ExampleJSON())), nil
}

func (s *Server) handleTemplateFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fields, err := s.forms.TemplateFields()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Template: %s\n", s.forms.TemplatePath())
	text += fmt.Sprintf("Fields: %d\n\n", len(fields))
	for i, f := range fields {
		text += fmt.Sprintf("%d. %s (%s, page %d)", i+1, f.Name, f.Type, f.Page)
		if f.Value != "" {
			text += fmt.Sprintf(" = %q", f.Value)
		}
		if f.ReadOnly {
			text += " [read-only]"
		}
		text += "\n"
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleTemplateStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.forms.TemplateStatus()

	text := fmt.Sprintf("Template: %s\n", status.Path)
	text += fmt.Sprintf("Exists: %t\n", status.Exists)
	text += fmt.Sprintf("Readable: %t\n", status.Readable)
	if status.Readable {
		text += fmt.Sprintf("Pages: %d\n", status.Pages)
	}
	if status.Message != "" {
		text += fmt.Sprintf("Problem: %s\n", status.Message)
	}
	return mcp.NewToolResultText(text), nil
}

// fillErrorText words a fill failure for the calling model.
func fillErrorText(err error) string {
	var verr *trip.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Validierungsfehler: " + verr.Summary()
	case errors.Is(err, trip.ErrMalformedJSON):
		return "Invalid JSON format: " + err.Error()
	}

	switch form.KindOf(err) {
	case form.KindValidationFailed:
		return "Validierungsfehler: " + err.Error()
	case form.KindTemplateNotFound:
		return "PDF-Vorlage nicht gefunden: " + err.Error()
	default:
		return "PDF-Generierung fehlgeschlagen: " + err.Error()
	}
}

// Run serves the tools over standard I/O until stdin closes.
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		s.logger.Debug("starting MCP server in stdio mode",
			"template", s.forms.TemplatePath(),
			"outdir", s.outRoot.Dir(),
		)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

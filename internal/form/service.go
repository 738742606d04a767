package form

import (
	"fmt"

	"github.com/a3tai/dr-antrag/internal/pdf"
	"github.com/a3tai/dr-antrag/internal/trip"
)

// MinTemplatePages is the page count a usable template needs; the
// signature goes on page 2.
const MinTemplatePages = SignaturePage

// Service turns raw submissions into filled forms against one template.
type Service struct {
	templatePath string
	filler       *Filler
	validator    *pdf.Validator
}

// NewService creates a service for the template at templatePath.
func NewService(templatePath string, maxFileSize int64, opts ...Option) *Service {
	return &Service{
		templatePath: templatePath,
		filler:       NewFiller(opts...),
		validator:    pdf.NewValidator(maxFileSize, MinTemplatePages),
	}
}

// TemplatePath returns the configured template location.
func (s *Service) TemplatePath() string {
	return s.templatePath
}

// Generate parses and validates raw JSON, then fills the template into
// outDir. Parse failures are returned as produced by the trip package;
// KindOf classifies them as KindValidationFailed.
func (s *Service) Generate(raw []byte, outDir string) (string, error) {
	req, err := trip.Parse(raw)
	if err != nil {
		return "", err
	}
	return s.Fill(req, outDir)
}

// Fill fills the template with an already validated request.
func (s *Service) Fill(req *trip.Request, outDir string) (string, error) {
	return s.filler.Fill(req, s.templatePath, outDir)
}

// Preview returns the field values a request would write, without touching
// the template.
func (s *Service) Preview(raw []byte) (FieldValueSet, error) {
	req, err := trip.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.filler.Values(req)
}

// TemplateStatus reports whether the template exists and is readable.
func (s *Service) TemplateStatus() pdf.TemplateStatus {
	return s.validator.CheckTemplate(s.templatePath)
}

// TemplateFields lists the form fields of the template.
func (s *Service) TemplateFields() ([]pdf.Field, error) {
	fields, err := pdf.ReadFields(s.templatePath)
	if err != nil {
		return nil, fmt.Errorf("reading template fields: %w", err)
	}
	return fields, nil
}

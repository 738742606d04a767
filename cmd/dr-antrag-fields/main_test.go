package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/dr-antrag/internal/pdf/pdftest"
)

func TestRun_Text(t *testing.T) {
	path := pdftest.WriteTemplate(t, t.TempDir())
	var stdout, stderr bytes.Buffer

	code := run([]string{path}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "42 form fields")
	assert.Contains(t, out, "] Person.Name1\n    Type: text\n    Page: 1\n")
	assert.Contains(t, out, "Value: "+pdftest.StaleAddress)
	assert.Contains(t, out, "] Obj39\n    Type: checkbox\n    Page: 2\n")
}

func TestRun_JSON(t *testing.T) {
	path := pdftest.WriteTemplate(t, t.TempDir())
	var stdout, stderr bytes.Buffer

	code := run([]string{"--format", "json", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var result FieldsResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, path, result.FilePath)
	assert.Equal(t, len(pdftest.DRFields), result.FieldCount)
	assert.Len(t, result.Fields, result.FieldCount)
	assert.Empty(t, result.Unmapped)
}

func TestRun_PageText(t *testing.T) {
	path := pdftest.WriteTemplate(t, t.TempDir())
	var stdout, stderr bytes.Buffer

	code := run([]string{"--text", path}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "--- Page 1 ---\n")
	assert.Contains(t, stdout.String(), "--- Page 2 ---\n")
	assert.Contains(t, stdout.String(), "Dienstreise")
}

func TestRun_Check(t *testing.T) {
	fields := make([]pdftest.Field, 0, len(pdftest.DRFields))
	for _, f := range pdftest.DRFields {
		if f.Name != "Obj12" && f.Name != "Reiseweg" {
			fields = append(fields, f)
		}
	}

	tests := []struct {
		name     string
		fields   []pdftest.Field
		wantCode int
		wantOut  string
	}{
		{name: "complete template", fields: pdftest.DRFields, wantCode: 0},
		{name: "missing fields", fields: fields, wantCode: 3, wantOut: "Missing from template:\n  Reiseweg\n  Obj12\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := pdftest.WriteTemplateWith(t, t.TempDir(), tt.fields)
			var stdout, stderr bytes.Buffer

			code := run([]string{"--check", path}, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, stderr.String())
			if tt.wantOut != "" {
				assert.Contains(t, stdout.String(), tt.wantOut)
			} else {
				assert.NotContains(t, stdout.String(), "Missing from template")
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no argument", args: nil, wantCode: 2, wantErr: "PDF file path required"},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.pdf")}, wantCode: 1, wantErr: "Error:"},
		{name: "unknown format", args: []string{"-f", "xml", "x.pdf"}, wantCode: 1, wantErr: "Error:"},
		{name: "unknown flag", args: []string{"--bogus"}, wantCode: 2, wantErr: "Error: unknown flag: --bogus"},
		{name: "flag without value", args: []string{"--format"}, wantCode: 2, wantErr: "Error: flag needs an argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.True(t, strings.Contains(stderr.String(), tt.wantErr), stderr.String())
			if tt.wantCode == 2 {
				assert.Contains(t, stderr.String(), "Usage: dr-antrag-fields")
			}
		})
	}
}

func TestPartialName(t *testing.T) {
	assert.Equal(t, "Name1", partialName("Person.Name1"))
	assert.Equal(t, "Obj39", partialName("Obj39"))
}

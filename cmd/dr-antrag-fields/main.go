// Command dr-antrag-fields lists the form fields of a template PDF. It is
// the tool for checking a new form revision against the field mapping, and
// with --text for reading back the page text of a generated form.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/a3tai/dr-antrag/internal/form"
	"github.com/a3tai/dr-antrag/internal/pdf"
)

// FieldsResult is the complete result of a field listing.
type FieldsResult struct {
	FilePath   string      `json:"file_path"`
	FieldCount int         `json:"field_count"`
	Fields     []pdf.Field `json:"fields"`
	// Unmapped lists mapping targets the template does not contain.
	Unmapped []string `json:"unmapped,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("dr-antrag-fields", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	format := flags.StringP("format", "f", "text", "Output format: text, json")
	check := flags.Bool("check", false, "Report mapping targets missing from the template")
	text := flags.Bool("text", false, "Print the page text instead of the fields")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: dr-antrag-fields [OPTIONS] <pdf_file>\n\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		flags.Usage()
		return 2
	}

	if flags.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: PDF file path required\n\n")
		flags.Usage()
		return 2
	}

	if *text {
		return printText(flags.Arg(0), stdout, stderr)
	}

	result, err := listFields(flags.Arg(0), *check)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch *format {
	case "json":
		err = outputJSON(stdout, result)
	case "text":
		outputText(stdout, result)
	default:
		err = fmt.Errorf("unsupported output format: %s", *format)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *check && len(result.Unmapped) > 0 {
		return 3
	}
	return 0
}

func listFields(path string, check bool) (*FieldsResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	fields, err := pdf.ReadFields(absPath)
	if err != nil {
		return nil, err
	}

	result := &FieldsResult{
		FilePath:   absPath,
		FieldCount: len(fields),
		Fields:     fields,
	}
	if check {
		result.Unmapped = unmapped(fields)
	}
	return result, nil
}

// unmapped returns the mapping and checkbox targets that match no field by
// qualified or partial name.
func unmapped(fields []pdf.Field) []string {
	present := make(map[string]bool, 2*len(fields))
	for _, f := range fields {
		present[f.Name] = true
		present[partialName(f.Name)] = true
	}

	var missing []string
	for _, name := range form.TargetFields() {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

func printText(path string, stdout, stderr io.Writer) int {
	pages, err := pdf.ReadText(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for i, content := range pages {
		fmt.Fprintf(stdout, "--- Page %d ---\n%s\n", i+1, content)
	}
	return 0
}

// partialName strips the parent path from a qualified field name.
func partialName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func outputJSON(w io.Writer, result *FieldsResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(w io.Writer, result *FieldsResult) {
	fmt.Fprintf(w, "%s\n", result.FilePath)
	fmt.Fprintf(w, "%d form fields\n\n", result.FieldCount)

	for i, field := range result.Fields {
		fmt.Fprintf(w, "[%d] %s\n", i+1, field.Name)
		fmt.Fprintf(w, "    Type: %s\n", field.Type)
		fmt.Fprintf(w, "    Page: %d\n", field.Page)
		if field.Value != "" {
			fmt.Fprintf(w, "    Value: %s\n", field.Value)
		}
		if field.ReadOnly {
			fmt.Fprintf(w, "    Properties: [ReadOnly]\n")
		}
		if field.Widgets > 1 {
			fmt.Fprintf(w, "    Widgets: %d\n", field.Widgets)
		}
	}

	if len(result.Unmapped) > 0 {
		fmt.Fprintf(w, "\nMissing from template:\n")
		for _, name := range result.Unmapped {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}

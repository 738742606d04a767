package form

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/a3tai/dr-antrag/internal/pdf"
	"github.com/a3tai/dr-antrag/internal/trip"
)

// Filler fills the business trip form template from a validated request.
// A Filler holds no per-request state and is safe for concurrent use.
type Filler struct {
	table  []Entry
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Filler.
type Option func(*Filler)

// WithLogger sets the logger used for generation events.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithClock replaces the wall clock used for the file name fallback and the
// signature date.
func WithClock(now func() time.Time) Option {
	return func(f *Filler) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFiller creates a Filler using the shared mapping table.
func NewFiller(opts ...Option) *Filler {
	f := &Filler{
		table:  MappingTable(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FillForm fills the template at templatePath with req and writes the result
// into outDir, returning the path of the written file.
func FillForm(req *trip.Request, templatePath, outDir string) (string, error) {
	return NewFiller().Fill(req, templatePath, outDir)
}

// Values builds the field value set of req: mapped text values first, then
// checkbox activations, which win on collision.
func (f *Filler) Values(req *trip.Request) (FieldValueSet, error) {
	values := Resolve(req, f.table)

	boxes, err := Checkboxes(req)
	if err != nil {
		return nil, err
	}
	values.Merge(boxes)
	return values, nil
}

// Fill runs the fill pipeline once. It creates outDir if needed but never
// removes anything from it; a failed run may leave partial files behind for
// the caller to clean up.
func (f *Filler) Fill(req *trip.Request, templatePath, outDir string) (string, error) {
	now := f.now()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", f.fail(renderFailed("create output directory", outDir, err))
	}

	outPath := filepath.Join(outDir, Filename(req, now))

	doc, err := pdf.Open(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Error("template not found", "path", templatePath)
			return "", templateNotFound(templatePath, err)
		}
		return "", f.fail(renderFailed("read template", templatePath, err))
	}

	values, err := f.Values(req)
	if err != nil {
		return "", f.fail(&Error{Kind: KindValidationFailed, Op: "derive checkboxes", Err: err})
	}

	if err := f.apply(doc, values); err != nil {
		return "", f.fail(renderFailed("apply fields", templatePath, err))
	}

	if err := doc.SetNeedAppearances(); err != nil {
		return "", f.fail(renderFailed("set NeedAppearances", templatePath, err))
	}

	width, height, err := doc.PageSize(SignaturePage)
	if err != nil {
		return "", f.fail(renderFailed("measure signature page", templatePath, err))
	}

	filledPath, err := f.writeFilled(outDir, doc)
	if err != nil {
		return "", f.fail(renderFailed("write filled form", outDir, err))
	}
	defer os.Remove(filledPath)

	signature := SignatureText(req.ApplicantName(), now)
	overlayPath, err := f.writeOverlay(outDir, signature, width, height)
	if err != nil {
		return "", f.fail(renderFailed("render signature", outDir, err))
	}
	defer os.Remove(overlayPath)

	if err := f.stamp(filledPath, outPath, overlayPath); err != nil {
		return "", f.fail(renderFailed("stamp signature", outPath, err))
	}

	f.logger.Info("PDF created", "path", outPath)
	f.logger.Debug("signature placed",
		"text", signature,
		"page", SignaturePage,
		"x", SignatureX,
		"y", SignatureY,
	)

	return outPath, nil
}

// apply writes values to the widgets of every page. Widgets are matched by
// their fully qualified name, then by their own partial name.
func (f *Filler) apply(doc *pdf.Document, values FieldValueSet) error {
	widgets, err := doc.Widgets()
	if err != nil {
		return err
	}

	used := make(map[string]bool, len(values))
	for _, w := range widgets {
		name := w.Name
		v, ok := values[name]
		if !ok {
			name = w.Partial
			v, ok = values[name]
		}
		if !ok {
			continue
		}
		used[name] = true

		switch v.Kind {
		case TextValue:
			if err := w.SetText(v.Text); err != nil {
				return err
			}
		case FlagValue:
			w.SetChecked(v.Flag)
		}
	}

	for _, name := range values.Names() {
		if !used[name] {
			f.logger.Debug("field not present in template", "field", name)
		}
	}
	return nil
}

// writeFilled writes doc to a uniquely named file in dir, so concurrent fills
// of the same request never share intermediate files.
func (f *Filler) writeFilled(dir string, doc *pdf.Document) (string, error) {
	file, err := os.CreateTemp(dir, "filled-*.pdf")
	if err != nil {
		return "", err
	}

	if err := doc.Write(file); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

// stamp composites the overlay onto the signature page into a temporary file
// and renames it to outPath, so readers never see a partly written output.
func (f *Filler) stamp(filledPath, outPath, overlayPath string) error {
	file, err := os.CreateTemp(filepath.Dir(outPath), "stamped-*.pdf")
	if err != nil {
		return err
	}
	tmpPath := file.Name()
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := pdf.StampFile(filledPath, tmpPath, overlayPath, SignaturePage); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (f *Filler) writeOverlay(dir, text string, width, height float64) (string, error) {
	file, err := os.CreateTemp(dir, "signature-*.pdf")
	if err != nil {
		return "", err
	}

	if err := RenderOverlay(file, text, width, height); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

func (f *Filler) fail(err *Error) *Error {
	f.logger.Error("form generation failed", "op", err.Op, "path", err.Path, "error", err.Err)
	return err
}

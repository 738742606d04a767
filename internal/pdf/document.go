package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrNoPage is returned when a page number is out of range.
var ErrNoPage = errors.New("page out of range")

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Document is an in-memory, writable PDF read through pdfcpu.
type Document struct {
	ctx   *model.Context
	pages []types.Dict
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Open reads the PDF at path. A missing file yields an error matching
// fs.ErrNotExist.
func Open(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// Read parses a PDF from rs. Every call returns an independent document, so
// the template itself is never modified.
func Read(rs io.ReadSeeker) (*Document, error) {
	ctx, err := api.ReadContext(rs, newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	doc := &Document{ctx: ctx}
	if err := doc.collectPages(); err != nil {
		return nil, err
	}
	return doc, nil
}

// collectPages flattens the page tree into document order.
func (d *Document) collectPages() error {
	root, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}

	pagesObj, found := root.Find("Pages")
	if !found {
		return fmt.Errorf("catalog has no page tree")
	}

	return d.walkPages(pagesObj, 0)
}

func (d *Document) walkPages(obj types.Object, depth int) error {
	if depth > 32 {
		return fmt.Errorf("page tree too deep")
	}

	node, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("failed to dereference page tree node: %w", err)
	}
	if node == nil {
		return nil
	}

	kidsObj, found := node.Find("Kids")
	if !found {
		d.pages = append(d.pages, node)
		return nil
	}

	kids, err := d.ctx.DereferenceArray(kidsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference Kids: %w", err)
	}
	for _, kid := range kids {
		if err := d.walkPages(kid, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// PageSize returns the width and height in points of the 1-based page,
// honouring a MediaBox inherited from the page tree.
func (d *Document) PageSize(page int) (width, height float64, err error) {
	if page < 1 || page > len(d.pages) {
		return 0, 0, fmt.Errorf("%w: %d of %d", ErrNoPage, page, len(d.pages))
	}

	dict := d.pages[page-1]
	for depth := 0; dict != nil && depth < 32; depth++ {
		if boxObj, found := dict.Find("MediaBox"); found {
			box, err := d.ctx.DereferenceArray(boxObj)
			if err != nil || len(box) != 4 {
				return 0, 0, fmt.Errorf("invalid MediaBox on page %d", page)
			}
			coords := make([]float64, 4)
			for i, c := range box {
				if coords[i], err = d.ctx.DereferenceNumber(c); err != nil {
					return 0, 0, fmt.Errorf("invalid MediaBox on page %d: %w", page, err)
				}
			}
			return coords[2] - coords[0], coords[3] - coords[1], nil
		}

		parentObj, found := dict.Find("Parent")
		if !found {
			break
		}
		if dict, err = d.ctx.DereferenceDict(parentObj); err != nil {
			return 0, 0, fmt.Errorf("failed to dereference page parent: %w", err)
		}
	}

	return A4Width, A4Height, nil
}

// XObjectNames returns the sorted names of the XObject resources declared
// directly on the 1-based page. A stamped overlay shows up here.
func (d *Document) XObjectNames(page int) ([]string, error) {
	if page < 1 || page > len(d.pages) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoPage, page, len(d.pages))
	}

	resObj, found := d.pages[page-1].Find("Resources")
	if !found {
		return nil, nil
	}
	res, err := d.ctx.DereferenceDict(resObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference page resources: %w", err)
	}

	xObj, found := res.Find("XObject")
	if !found {
		return nil, nil
	}
	xobjects, err := d.ctx.DereferenceDict(xObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference XObject resources: %w", err)
	}

	names := make([]string, 0, len(xobjects))
	for name := range xobjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SetNeedAppearances forces viewers to rebuild field appearances. An
// AcroForm dictionary is created when the document has none.
func (d *Document) SetNeedAppearances() error {
	root, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := root.Find("AcroForm")
	if !found {
		root["AcroForm"] = types.Dict{
			"Fields":          types.Array{},
			"NeedAppearances": types.Boolean(true),
		}
		return nil
	}

	acroForm, err := d.ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroForm == nil {
		root["AcroForm"] = types.Dict{"NeedAppearances": types.Boolean(true)}
		return nil
	}

	acroForm["NeedAppearances"] = types.Boolean(true)
	return nil
}

// NeedAppearances reports whether the AcroForm NeedAppearances flag is set.
func (d *Document) NeedAppearances() bool {
	root, err := d.ctx.Catalog()
	if err != nil {
		return false
	}
	acroFormObj, found := root.Find("AcroForm")
	if !found {
		return false
	}
	acroForm, err := d.ctx.DereferenceDict(acroFormObj)
	if err != nil || acroForm == nil {
		return false
	}
	flagObj, found := acroForm.Find("NeedAppearances")
	if !found {
		return false
	}
	flag, err := d.ctx.Dereference(flagObj)
	if err != nil {
		return false
	}
	b, ok := flag.(types.Boolean)
	return ok && bool(b)
}

// Write serializes the document to w.
func (d *Document) Write(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// WriteFile serializes the document to path, replacing any existing file.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// StampFile composites page 1 of the PDF at overlayPath onto the 1-based
// page of the PDF at inPath, above existing content, and writes the result
// to outPath. The overlay is placed unscaled at the lower left corner, so an
// overlay of the same page size lands on the coordinates it was drawn at.
func StampFile(inPath, outPath, overlayPath string, page int) error {
	const desc = "scalefactor:1 abs, position:bl, offset:0 0, rotation:0, opacity:1"

	wm, err := pdfcpu.ParsePDFWatermarkDetails(overlayPath, desc, true, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to parse overlay: %w", err)
	}

	pages := []string{fmt.Sprintf("%d", page)}
	if err := api.AddWatermarksFile(inPath, outPath, pages, wm, newConfiguration()); err != nil {
		return fmt.Errorf("failed to stamp overlay onto page %d: %w", page, err)
	}
	return nil
}

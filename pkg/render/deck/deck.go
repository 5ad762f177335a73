// Package deck collects the diagram pages of one run and writes them out.
//
// A [Deck] is owned by a single pipeline run: pages are appended in policy
// order and never modified. [Deck.Write] stores the finished deck as
// combined documents next to the input table:
//
//	<base>_combined.pdf     all pages, one per PDF page
//	<base>_combined.json    all page descriptors
//	<base>_combined_<n>.svg one file per page
//	<base>_combined_<n>.png one file per page
package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/procdeck/pkg/diagram"
	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/render/sink"
)

// Output formats understood by [Deck.Write].
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Deck is an ordered list of pages.
type Deck struct {
	pages []diagram.Page
}

// New returns an empty deck.
func New() *Deck {
	return &Deck{}
}

// AddPage appends a page. It fails with RENDER_FAILURE when the canvas is
// unusable or the diagram holds non-finite or negative-size geometry.
func (d *Deck) AddPage(c diagram.Canvas, dg diagram.Diagram) error {
	if err := c.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeRenderFailure, err, "page %d (policy %s)", len(d.pages)+1, dg.Policy)
	}
	for i, s := range dg.Shapes {
		if err := checkRect(s.Rect); err != nil {
			return errs.Wrap(errs.ErrCodeRenderFailure, err, "policy %s shape %d", dg.Policy, i)
		}
	}
	for i, a := range dg.Annotations {
		if err := checkRect(a.Rect); err != nil {
			return errs.Wrap(errs.ErrCodeRenderFailure, err, "policy %s annotation %d", dg.Policy, i)
		}
	}
	d.pages = append(d.pages, diagram.Page{Canvas: c, Diagram: dg})
	return nil
}

func checkRect(r diagram.Rect) error {
	if !r.Finite() {
		return fmt.Errorf("non-finite geometry %+v", r)
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("negative size %+v", r)
	}
	return nil
}

// Pages returns a copy of the pages in insertion order.
func (d *Deck) Pages() []diagram.Page {
	out := make([]diagram.Page, len(d.pages))
	copy(out, d.pages)
	return out
}

// Len returns the number of pages.
func (d *Deck) Len() int { return len(d.pages) }

// CombinedName returns the file name of a combined output, e.g.
// "report_combined.pdf". A page number above zero selects the per-page
// form used by SVG and PNG output.
func CombinedName(base, format string, page int) string {
	if page > 0 {
		return fmt.Sprintf("%s_combined_%d.%s", base, page, format)
	}
	return fmt.Sprintf("%s_combined.%s", base, format)
}

// Write renders the deck in each format and stores the files in dir.
// It returns the written paths in format order.
func (d *Deck) Write(dir, base string, formats []string) ([]string, error) {
	if len(d.pages) == 0 {
		return nil, errs.New(errs.ErrCodeRenderFailure, "deck has no pages")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	put := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, f := range formats {
		switch strings.ToLower(f) {
		case FormatPDF:
			data, err := sink.RenderPDF(d.pages)
			if err != nil {
				return written, errs.Wrap(errs.ErrCodeRenderFailure, err, "render pdf")
			}
			if err := put(CombinedName(base, FormatPDF, 0), data); err != nil {
				return written, err
			}
		case FormatJSON:
			data, err := sink.RenderJSON(d.pages)
			if err != nil {
				return written, errs.Wrap(errs.ErrCodeRenderFailure, err, "render json")
			}
			if err := put(CombinedName(base, FormatJSON, 0), data); err != nil {
				return written, err
			}
		case FormatSVG:
			for i, p := range d.pages {
				if err := put(CombinedName(base, FormatSVG, i+1), sink.RenderSVG(p)); err != nil {
					return written, err
				}
			}
		case FormatPNG:
			for i, p := range d.pages {
				data, err := sink.RenderPNG(p)
				if err != nil {
					return written, errs.Wrap(errs.ErrCodeRenderFailure, err, "render png page %d", i+1)
				}
				if err := put(CombinedName(base, FormatPNG, i+1), data); err != nil {
					return written, err
				}
			}
		default:
			return written, errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q", f)
		}
	}
	return written, nil
}

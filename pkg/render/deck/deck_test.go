package deck

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/procdeck/pkg/diagram"
	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/render"
	"github.com/matzehuels/procdeck/pkg/render/sink"
)

func page(policy string) diagram.Diagram {
	return diagram.Diagram{
		Policy: policy,
		Title:  "Test " + policy,
		Shapes: []diagram.Shape{{
			Kind:     diagram.Oval,
			Rect:     diagram.Rect{Left: 36, Top: 72, Width: 144, Height: 57.6},
			Fill:     diagram.Positive,
			Label:    "Clerk",
			FontSize: 18,
		}},
	}
}

func TestAddPage(t *testing.T) {
	d := New()
	c := diagram.DefaultCanvas()

	if err := d.AddPage(c, page("A")); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	if err := d.AddPage(c, page("B")); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if got := d.Pages()[1].Diagram.Policy; got != "B" {
		t.Errorf("second page policy = %s, want B", got)
	}

	pages := d.Pages()
	pages[0].Diagram.Policy = "changed"
	if d.Pages()[0].Diagram.Policy != "A" {
		t.Error("Pages() should return a copy")
	}
}

func TestAddPageRejects(t *testing.T) {
	nan := page("C")
	nan.Shapes[0].Rect.Left = math.NaN()

	negative := page("C")
	negative.Annotations = []diagram.AnnotationBox{{Rect: diagram.Rect{Width: -1, Height: 1}}}

	tests := []struct {
		name   string
		canvas diagram.Canvas
		dg     diagram.Diagram
	}{
		{"empty canvas", diagram.Canvas{}, page("A")},
		{"infinite canvas", diagram.Canvas{Width: math.Inf(1), Height: 10}, page("A")},
		{"NaN shape", diagram.DefaultCanvas(), nan},
		{"negative annotation", diagram.DefaultCanvas(), negative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			err := d.AddPage(tt.canvas, tt.dg)
			if !errs.Is(err, errs.ErrCodeRenderFailure) {
				t.Errorf("AddPage error = %v, want RENDER_FAILURE", err)
			}
			if d.Len() != 0 {
				t.Error("rejected page should not be added")
			}
		})
	}
}

func TestCombinedName(t *testing.T) {
	if got := CombinedName("report_1a2b3c4d", FormatPDF, 0); got != "report_1a2b3c4d_combined.pdf" {
		t.Errorf("CombinedName(pdf) = %s", got)
	}
	if got := CombinedName("report", FormatSVG, 3); got != "report_combined_3.svg" {
		t.Errorf("CombinedName(svg, 3) = %s", got)
	}
}

func TestWrite(t *testing.T) {
	d := New()
	for _, p := range []string{"A", "B"} {
		if err := d.AddPage(diagram.DefaultCanvas(), page(p)); err != nil {
			t.Fatal(err)
		}
	}

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := d.Write(dir, "table", []string{"json", "SVG", "png"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := []string{
		"table_combined.json",
		"table_combined_1.svg",
		"table_combined_2.svg",
		"table_combined_1.png",
		"table_combined_2.png",
	}
	if len(paths) != len(want) {
		t.Fatalf("wrote %v, want %v", paths, want)
	}
	for i, name := range want {
		if paths[i] != filepath.Join(dir, name) {
			t.Errorf("path %d = %s, want %s", i, paths[i], name)
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	pages, err := sink.ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[1].Diagram.Policy != "B" {
		t.Errorf("JSON pages = %+v", pages)
	}
}

func TestWritePDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	d := New()
	if err := d.AddPage(diagram.DefaultCanvas(), page("A")); err != nil {
		t.Fatal(err)
	}
	paths, err := d.Write(t.TempDir(), "t", []string{FormatPDF})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(paths[0]) != "t_combined.pdf" {
		t.Errorf("pdf path = %s", paths[0])
	}
}

func TestWriteErrors(t *testing.T) {
	if _, err := New().Write(t.TempDir(), "t", []string{FormatJSON}); !errs.Is(err, errs.ErrCodeRenderFailure) {
		t.Errorf("empty deck error = %v, want RENDER_FAILURE", err)
	}

	d := New()
	if err := d.AddPage(diagram.DefaultCanvas(), page("A")); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Write(t.TempDir(), "t", []string{"pptx"}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v, want INVALID_FORMAT", err)
	}
}

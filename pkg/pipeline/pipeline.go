// Package pipeline runs the diagram policies over a process table.
//
// This package implements the table → diagrams → deck flow shared by the
// CLI and the HTTP server. A [Runner] builds one page per policy, in the
// order A, B, C, D, and hands each page to a [Deck]. A policy that fails
// (malformed rows, tagger errors, a rejected page) is logged, recorded in
// the [Report] and skipped; the remaining policies still run.
//
// # Usage
//
//	opts := pipeline.Options{Formats: []string{"pdf"}}
//	runner := pipeline.NewRunner(opts, tagger.NewProse(), logger)
//	d := deck.New()
//	report, err := runner.Run(ctx, tbl, d)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range report.Failures {
//	    fmt.Println(f.Policy, f.Err)
//	}
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procdeck/pkg/diagram"
	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/render/deck"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width (10in in points).
	DefaultWidth = 720.0

	// DefaultHeight is the default canvas height (7.5in in points).
	DefaultHeight = 540.0

	// DefaultUnitsPerInch is the default canvas unit (points).
	DefaultUnitsPerInch = diagram.PointsPerInch
)

// Format constants for output formats.
const (
	FormatSVG  = deck.FormatSVG
	FormatPNG  = deck.FormatPNG
	FormatPDF  = deck.FormatPDF
	FormatJSON = deck.FormatJSON
)

// DefaultFormats is the output of a run when no format is requested.
var DefaultFormats = []string{FormatPDF, FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration of a run.
type Options struct {
	// Canvas size in canvas units.
	Width  float64 `json:"width,omitempty" toml:"width"`
	Height float64 `json:"height,omitempty" toml:"height"`

	// UnitsPerInch scales the fixed layout lengths to canvas units.
	UnitsPerInch float64 `json:"units_per_inch,omitempty" toml:"units_per_inch"`

	// Formats lists the output formats written after the run.
	Formats []string `json:"formats,omitempty" toml:"formats"`

	// Policies restricts the run to the given policy IDs. Empty runs all.
	Policies []string `json:"policies,omitempty" toml:"policies"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, lower-cases and
// de-duplicates it, and validates each entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.UnitsPerInch == 0 {
		o.UnitsPerInch = DefaultUnitsPerInch
	}
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}

	if err := errs.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}
	if o.UnitsPerInch < 0 {
		return errs.New(errs.ErrCodeInvalidCanvas, "units per inch must be positive, got %v", o.UnitsPerInch)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := o.SelectedPolicies(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Canvas returns the page canvas.
func (o *Options) Canvas() diagram.Canvas {
	return diagram.Canvas{Width: o.Width, Height: o.Height}
}

// Metrics returns the layout lengths in canvas units.
func (o *Options) Metrics() diagram.Metrics {
	return diagram.NewMetrics(o.UnitsPerInch)
}

// SelectedPolicies returns the policies to run in page order.
func (o *Options) SelectedPolicies() ([]diagram.Policy, error) {
	if len(o.Policies) == 0 {
		return diagram.Policies(), nil
	}
	var out []diagram.Policy
	for _, p := range diagram.Policies() {
		if slices.ContainsFunc(o.Policies, func(id string) bool { return strings.EqualFold(id, p.ID) }) {
			out = append(out, p)
		}
	}
	for _, id := range o.Policies {
		if _, ok := diagram.Lookup(id); !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "unknown policy %q (must be one of: A, B, C, D)", id)
		}
	}
	return out, nil
}

// =============================================================================
// Report - Run Outcome
// =============================================================================

// Report describes the outcome of a run.
type Report struct {
	// Pages lists the policies whose page was added, in page order.
	Pages []PageStats

	// Failures lists the policies that produced no page.
	Failures []Failure

	Duration time.Duration
}

// PageStats summarizes one successful page.
type PageStats struct {
	Policy   string
	Title    string
	Shapes   int
	Verbs    int
	Duration time.Duration
}

// Failure records why a policy produced no page.
type Failure struct {
	Policy string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("policy %s: %v", f.Policy, f.Err)
}

// OK reports whether every policy produced a page.
func (r Report) OK() bool { return len(r.Failures) == 0 }

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/procdeck/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"pptx", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" PDF, svg,,pdf ,json")
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	if diff := cmp.Diff([]string{"pdf", "svg", "json"}, got); diff != "" {
		t.Errorf("ParseFormats (-want +got):\n%s", diff)
	}

	if _, err := ParseFormats("pdf,pptx"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormats(pptx) error = %v, want INVALID_FORMAT", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("canvas = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.UnitsPerInch != DefaultUnitsPerInch {
		t.Errorf("UnitsPerInch = %v", opts.UnitsPerInch)
	}
	if diff := cmp.Diff(DefaultFormats, opts.Formats); diff != "" {
		t.Errorf("Formats (-want +got):\n%s", diff)
	}
	if m := opts.Metrics(); m.NodeWidth != 144 {
		t.Errorf("NodeWidth = %v, want 144", m.NodeWidth)
	}

	opts.Formats[0] = "svg"
	if DefaultFormats[0] != FormatPDF {
		t.Error("defaults must not alias DefaultFormats")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"negative width", Options{Width: -1}, errs.ErrCodeInvalidCanvas},
		{"negative units", Options{UnitsPerInch: -72}, errs.ErrCodeInvalidCanvas},
		{"bad format", Options{Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"unknown policy", Options{Policies: []string{"A", "Z"}}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSelectedPolicies(t *testing.T) {
	opts := Options{Policies: []string{"d", "B"}}
	got, err := opts.SelectedPolicies()
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"B", "D"}, ids); diff != "" {
		t.Errorf("policies keep page order (-want +got):\n%s", diff)
	}
}

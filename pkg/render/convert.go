package render

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPDFPages converts each SVG to one page of a single PDF document.
func ToPDFPages(svgs [][]byte) ([]byte, error) {
	switch len(svgs) {
	case 0:
		return nil, fmt.Errorf("no pages to convert")
	case 1:
		return ToPDF(svgs[0])
	}

	dir, err := os.MkdirTemp("", "procdeck-pdf-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	files := make([]string, len(svgs))
	for i, svg := range svgs {
		files[i] = filepath.Join(dir, fmt.Sprintf("page-%03d.svg", i+1))
		if err := os.WriteFile(files[i], svg, 0o600); err != nil {
			return nil, err
		}
	}
	return rsvgConvert(nil, "pdf", files...)
}

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// rsvgConvert shells out to rsvg-convert for format conversion. When svg is
// nil the input files are expected among extraArgs.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	if svg != nil {
		cmd.Stdin = bytes.NewReader(svg)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}

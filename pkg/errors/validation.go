package errors

import (
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// UploadExtensions lists the table formats accepted from uploads and the CLI.
var UploadExtensions = []string{".xlsx", ".xlsm", ".csv"}

// ValidateUploadFilename validates a user-supplied table filename.
// It must be a simple basename with one of [UploadExtensions]. Legacy .xls
// workbooks are rejected with a dedicated message since no reader supports them.
func ValidateUploadFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "no file selected")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "filename too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") || strings.HasPrefix(name, "..") {
		return New(ErrCodeInvalidPath, "filename cannot contain path components")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".xls" {
		return New(ErrCodeInvalidFormat, "legacy .xls workbooks are not supported, save as .xlsx")
	}
	for _, ok := range UploadExtensions {
		if ext == ok {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "file must be a spreadsheet (.xlsx) or CSV table, got %q", ext)
}

// identifierRegex matches upload identifiers: 8 lowercase hex characters.
var identifierRegex = regexp.MustCompile(`^[0-9a-f]{8}$`)

// ValidateIdentifier validates an upload identifier taken from a cookie or URL.
// Identifiers end up in file paths, so anything but 8 hex characters is rejected.
func ValidateIdentifier(id string) error {
	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid upload identifier: %q", id)
	}
	return nil
}

// ValidateCanvas checks that canvas dimensions are finite and positive.
func ValidateCanvas(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return New(ErrCodeInvalidCanvas, "canvas dimensions must be positive, got %gx%g", width, height)
		}
	}
	return nil
}

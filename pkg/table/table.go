// Package table reads process tables from CSV files and Excel workbooks.
//
// A [Table] is an ordered list of rows, each an ordered list of text cells.
// Columns are positional: the diagram policies address cells by index, so
// the loaders never reorder, drop or name columns. Rows are padded with
// empty cells to the width of the widest row, matching the rectangular
// output of a spreadsheet-to-CSV export.
package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/procdeck/pkg/errors"
)

// Table is an immutable snapshot of rows of text cells.
type Table [][]string

// Len returns the number of rows.
func (t Table) Len() int { return len(t) }

// Width returns the cell count of the widest row.
func (t Table) Width() int {
	w := 0
	for _, r := range t {
		w = max(w, len(r))
	}
	return w
}

// Row returns row i and whether it exists.
func (t Table) Row(i int) ([]string, bool) {
	if i < 0 || i >= len(t) {
		return nil, false
	}
	return t[i], true
}

// Slice returns the rows from index from onwards. An out-of-range from
// yields an empty table.
func (t Table) Slice(from int) Table {
	if from < 0 {
		from = 0
	}
	if from >= len(t) {
		return Table{}
	}
	return t[from:]
}

// Cell returns the cell at (row, col), or "" when either index is out of range.
func (t Table) Cell(row, col int) string {
	r, ok := t.Row(row)
	if !ok || col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// normalize pads rows to a common width and strips line-break residue
// from cells. Trailing fully-empty rows are dropped.
func normalize(rows [][]string) Table {
	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	t := Table(rows)
	w := t.Width()
	out := make(Table, len(rows))
	for i, r := range rows {
		row := make([]string, w)
		for j, c := range r {
			row[j] = strings.Trim(c, "\r\n")
		}
		out[i] = row
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Load reads a table from path, choosing the reader by file extension.
// sheet selects a worksheet of a workbook and is ignored for CSV files.
func Load(path, sheet string) (Table, error) {
	if err := errs.ValidateUploadFilename(filepath.Base(path)); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "table %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	default:
		return ReadXLSX(f, sheet)
	}
}

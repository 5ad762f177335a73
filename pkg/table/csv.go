package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"

	errs "github.com/matzehuels/procdeck/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses CSV data into a Table. Rows may have differing field
// counts; they are padded to the widest row. A leading UTF-8 byte order
// mark, as written by spreadsheet exports, is ignored.
func ReadCSV(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse csv")
	}
	return normalize(rows), nil
}

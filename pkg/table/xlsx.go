package table

import (
	"io"

	"github.com/xuri/excelize/v2"

	errs "github.com/matzehuels/procdeck/pkg/errors"
)

// ReadXLSX reads the rows of one worksheet. An empty sheet name selects the
// first sheet of the workbook. Cell values are read as displayed text.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read sheet %q", sheet)
	}
	return normalize(rows), nil
}

package diagram

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/table"
)

// Role is what a column contributes to a diagram.
type Role int

const (
	// Skip columns never produce a shape.
	Skip Role = iota
	// Primary columns produce a green oval.
	Primary
	// Secondary columns produce a red oval.
	Secondary
	// Label columns produce a white rounded rectangle holding the cell and
	// a red companion oval holding the cell's first word.
	Label
)

func (r Role) String() string {
	switch r {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Label:
		return "label"
	default:
		return "skip"
	}
}

// LayoutKind selects the geometry of a policy.
type LayoutKind int

const (
	LayoutDiagonal LayoutKind = iota
	LayoutGrid
)

func (k LayoutKind) String() string {
	if k == LayoutDiagonal {
		return "diagonal"
	}
	return "grid"
}

// Policy maps table columns to roles and selects the rows a page reads.
type Policy struct {
	ID     string
	Title  string
	Layout LayoutKind

	// FirstRow is the index of the first processed row. With SingleRow only
	// that row is processed, otherwise every row from FirstRow onwards.
	FirstRow  int
	SingleRow bool

	Roles [Columns]Role

	// SkipVerbColumns lists columns whose text is not searched for verbs.
	SkipVerbColumns []int
}

var (
	PolicyA = Policy{
		ID:              "A",
		Title:           "Core Process Statement",
		Layout:          LayoutDiagonal,
		FirstRow:        1,
		SingleRow:       true,
		Roles:           [Columns]Role{Label, Primary, Secondary, Skip, Primary, Label},
		SkipVerbColumns: []int{3},
	}
	PolicyB = Policy{
		ID:       "B",
		Title:    "Non-Core Process Statement",
		Layout:   LayoutGrid,
		FirstRow: 2,
		Roles:    [Columns]Role{Skip, Primary, Secondary, Skip, Primary, Skip},
	}
	PolicyC = Policy{
		ID:       "C",
		Title:    "Corporate Policy",
		Layout:   LayoutGrid,
		FirstRow: 1,
		Roles:    [Columns]Role{Skip, Skip, Primary, Secondary, Primary, Skip},
	}
	PolicyD = Policy{
		ID:       "D",
		Title:    "Business Unit Policy",
		Layout:   LayoutGrid,
		FirstRow: 1,
		Roles:    [Columns]Role{Skip, Primary, Skip, Skip, Secondary, Secondary},
	}
)

// Policies returns the built-in policies in page order.
func Policies() []Policy {
	return []Policy{PolicyA, PolicyB, PolicyC, PolicyD}
}

// Lookup returns the built-in policy with the given ID (case-insensitive).
func Lookup(id string) (Policy, bool) {
	for _, p := range Policies() {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return Policy{}, false
}

// Role returns the role of column col. Columns outside the role table are skipped.
func (p Policy) Role(col int) Role {
	if col < 0 || col >= Columns {
		return Skip
	}
	return p.Roles[col]
}

// ScansVerbs reports whether column col is searched for verbs.
func (p Policy) ScansVerbs(col int) bool {
	return !slices.Contains(p.SkipVerbColumns, col)
}

// Rows returns the rows p processes. It fails with MALFORMED_TABLE when
// the selection is empty.
func (p Policy) Rows(t table.Table) (table.Table, error) {
	if p.SingleRow {
		row, ok := t.Row(p.FirstRow)
		if !ok {
			return nil, errs.New(errs.ErrCodeMalformedTable,
				"policy %s needs row %d, table has %d rows", p.ID, p.FirstRow, t.Len())
		}
		return table.Table{row}, nil
	}
	rows := t.Slice(p.FirstRow)
	if rows.Len() == 0 {
		return nil, errs.New(errs.ErrCodeMalformedTable,
			"policy %s reads rows from %d, table has %d rows", p.ID, p.FirstRow, t.Len())
	}
	return rows, nil
}

// Drawable reports whether a cell may produce a shape.
func Drawable(cell string) bool {
	return strings.TrimSpace(cell) != "" && !strings.Contains(cell, "(")
}

package diagram

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/procdeck/pkg/table"
)

// Builder turns tables into diagrams under a policy.
type Builder struct {
	metrics   Metrics
	annotator *TextAnnotator
}

// NewBuilder returns a builder using m for every length. The annotator may
// be nil, in which case diagrams carry no annotation strip.
func NewBuilder(m Metrics, a *TextAnnotator) *Builder {
	return &Builder{metrics: m, annotator: a}
}

// Metrics returns the builder's layout lengths.
func (b *Builder) Metrics() Metrics { return b.metrics }

// Build returns the shapes and annotations of policy p for t.
func (b *Builder) Build(ctx context.Context, p Policy, t table.Table, c Canvas) (Diagram, error) {
	shapes, err := b.Shapes(p, t, c)
	if err != nil {
		return Diagram{}, err
	}
	boxes, err := b.Annotations(ctx, p, t, c)
	if err != nil {
		return Diagram{}, err
	}
	return Diagram{
		Policy:      p.ID,
		Title:       p.Title,
		Shapes:      shapes,
		Annotations: boxes,
	}, nil
}

// Shapes lays out the drawable cells of the rows p selects. Rows are
// processed in order and cells left to right.
func (b *Builder) Shapes(p Policy, t table.Table, c Canvas) ([]Shape, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rows, err := p.Rows(t)
	if err != nil {
		return nil, err
	}

	switch p.Layout {
	case LayoutDiagonal:
		return b.diagonal(p, rows[0], c), nil
	case LayoutGrid:
		return b.grid(p, rows), nil
	default:
		return nil, fmt.Errorf("policy %s: unknown layout %d", p.ID, p.Layout)
	}
}

func (b *Builder) diagonal(p Policy, row []string, c Canvas) []Shape {
	d := Diagonal{Canvas: c, Metrics: b.metrics}
	slots := diagonalSlots(p.Roles)

	shapes := []Shape{}
	for col, cell := range row {
		role := p.Role(col)
		if role == Skip || !Drawable(cell) {
			continue
		}
		for _, e := range slots[col] {
			shapes = append(shapes, b.shape(role, e.companion, cell, d.Slot(e.slot)))
		}
	}
	return shapes
}

func (b *Builder) grid(p Policy, rows table.Table) []Shape {
	g := NewGrid(b.metrics)

	shapes := []Shape{}
	for _, row := range rows {
		for col, cell := range row {
			role := p.Role(col)
			if role == Skip || !Drawable(cell) {
				continue
			}
			shapes = append(shapes, b.shape(role, false, cell, g.Next()))
		}
	}
	return shapes
}

func (b *Builder) shape(role Role, companion bool, cell string, r Rect) Shape {
	s := Shape{Kind: Oval, Rect: r, Label: cell, FontSize: b.metrics.FontSize}
	switch {
	case role == Label && companion:
		s.Fill = Attention
		s.Label = strings.Fields(cell)[0]
	case role == Label:
		s.Kind = RoundedRectangle
		s.Fill = White
	case role == Secondary:
		s.Fill = Attention
	default:
		s.Fill = Positive
	}
	return s
}

// Verbs collects the verbs of the rows p selects, row by row and left to
// right, skipping the columns p excludes from the verb scan. Every cell is
// scanned, including cells that produce no shape.
func (b *Builder) Verbs(ctx context.Context, p Policy, t table.Table) ([]string, error) {
	rows, err := p.Rows(t)
	if err != nil {
		return nil, err
	}
	verbs := []string{}
	if b.annotator == nil {
		return verbs, nil
	}
	for _, row := range rows {
		for col, cell := range row {
			if !p.ScansVerbs(col) {
				continue
			}
			vs, err := b.annotator.Verbs(ctx, cell)
			if err != nil {
				return nil, fmt.Errorf("policy %s column %d: %w", p.ID, col, err)
			}
			verbs = append(verbs, vs...)
		}
	}
	return verbs, nil
}

// Annotations lays out the verbs of p's rows in groups of AnnotationGroup
// boxes. Group k sits k box heights above the bottom row.
func (b *Builder) Annotations(ctx context.Context, p Policy, t table.Table, c Canvas) ([]AnnotationBox, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	verbs, err := b.Verbs(ctx, p, t)
	if err != nil {
		return nil, err
	}
	return b.strip(verbs, c), nil
}

func (b *Builder) strip(verbs []string, c Canvas) []AnnotationBox {
	m := b.metrics
	boxes := make([]AnnotationBox, 0, len(verbs))
	for i, v := range verbs {
		group, pos := i/AnnotationGroup, i%AnnotationGroup
		boxes = append(boxes, AnnotationBox{
			Rect: Rect{
				Left:   m.LeftMargin + float64(pos)*m.BoxWidth,
				Top:    c.Height - m.BottomMargin - float64(group)*m.BoxHeight,
				Width:  m.BoxWidth,
				Height: m.BoxHeight,
			},
			Label:    v,
			FontSize: m.FontSize,
		})
	}
	return boxes
}

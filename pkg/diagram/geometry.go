package diagram

// Diagonal positions shapes on DiagonalSlots slots running from the
// top-left corner of the canvas towards the bottom-right.
type Diagonal struct {
	Canvas  Canvas
	Metrics Metrics
}

// Slot returns the rectangle of slot k.
func (d Diagonal) Slot(k int) Rect {
	return Rect{
		Left:   float64(k) * d.Canvas.Width / DiagonalSlots,
		Top:    float64(k) * d.Canvas.Height / DiagonalSlots,
		Width:  d.Metrics.NodeWidth,
		Height: d.Metrics.NodeHeight,
	}
}

// emission is one shape a column produces on the diagonal.
type emission struct {
	slot      int
	companion bool
}

// diagonalSlots assigns slots to columns in column order. A label column
// owns two adjacent slots with the rectangle on the outer one: label then
// companion in the left half of the table, companion then label in the
// right half.
func diagonalSlots(roles [Columns]Role) [Columns][]emission {
	var out [Columns][]emission
	next := 0
	for col, r := range roles {
		switch r {
		case Skip:
		case Label:
			label, companion := emission{slot: next}, emission{slot: next + 1, companion: true}
			if col >= Columns/2 {
				companion.slot, label.slot = next, next+1
				out[col] = []emission{companion, label}
			} else {
				out[col] = []emission{label, companion}
			}
			next += 2
		default:
			out[col] = []emission{{slot: next}}
			next++
		}
	}
	return out
}

// Grid is a wrapping cursor. The zero value is not usable; use NewGrid.
type Grid struct {
	m         Metrics
	left, top float64
}

// NewGrid returns a cursor at the top-left page margins.
func NewGrid(m Metrics) *Grid {
	return &Grid{m: m, left: m.LeftMargin, top: m.TopMargin}
}

// Next returns the rectangle at the cursor and advances it. When the
// following node would cross the right boundary the cursor wraps to the
// left margin one node height lower.
func (g *Grid) Next() Rect {
	r := Rect{Left: g.left, Top: g.top, Width: g.m.NodeWidth, Height: g.m.NodeHeight}
	g.left += g.m.NodeWidth
	if g.left+g.m.NodeWidth > g.m.RightBoundary {
		g.left = g.m.LeftMargin
		g.top += g.m.NodeHeight
	}
	return r
}

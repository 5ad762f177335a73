package diagram

// PointsPerInch is the unit scale of the default canvas.
const PointsPerInch = 72.0

const (
	// Columns is the number of table columns any policy reads.
	Columns = 6
	// DiagonalSlots is the number of positions on the diagonal layout.
	DiagonalSlots = 7
	// AnnotationGroup is the number of verb boxes per strip row.
	AnnotationGroup = 5
)

// Metrics holds the fixed layout lengths in canvas units.
type Metrics struct {
	NodeWidth     float64
	NodeHeight    float64
	FontSize      float64
	LeftMargin    float64
	TopMargin     float64
	RightBoundary float64

	BoxWidth     float64
	BoxHeight    float64
	BottomMargin float64
}

// NewMetrics expresses the layout lengths in a unit with unitsPerInch
// units to the inch. A non-positive value selects points.
func NewMetrics(unitsPerInch float64) Metrics {
	if unitsPerInch <= 0 {
		unitsPerInch = PointsPerInch
	}
	in := func(v float64) float64 { return v * unitsPerInch }
	return Metrics{
		NodeWidth:     in(2),
		NodeHeight:    in(0.8),
		FontSize:      in(18.0 / 72),
		LeftMargin:    in(0.5),
		TopMargin:     in(1),
		RightBoundary: in(10),
		BoxWidth:      in(1),
		BoxHeight:     in(0.5),
		BottomMargin:  in(0.5),
	}
}

package diagram

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	errs "github.com/matzehuels/procdeck/pkg/errors"
)

// Kind is the outline of a shape.
type Kind string

const (
	Oval             Kind = "oval"
	RoundedRectangle Kind = "rounded_rectangle"
)

// Rect is an axis-aligned rectangle. Top grows downwards.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Finite reports whether every field of r is a finite number.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Color is an opaque RGB color. It marshals as "#RRGGBB".
type Color struct {
	R, G, B uint8
}

var (
	// Positive fills primary nodes.
	Positive = Color{0x00, 0xFF, 0x00}
	// Attention fills secondary nodes and label companions.
	Attention = Color{0xFF, 0x00, 0x00}
	// White is the background of label rectangles.
	White = Color{0xFF, 0xFF, 0xFF}
	// Black is the text color of every label.
	Black = Color{0x00, 0x00, 0x00}
)

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	s := strings.TrimPrefix(string(b), "#")
	if len(s) != 6 {
		return fmt.Errorf("invalid color %q", b)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", b, err)
	}
	c.R, c.G, c.B = uint8(v>>16), uint8(v>>8), uint8(v)
	return nil
}

// Shape is one filled, labeled node of a diagram.
type Shape struct {
	Kind     Kind    `json:"kind"`
	Rect     Rect    `json:"rect"`
	Fill     Color   `json:"fill"`
	Label    string  `json:"label"`
	FontSize float64 `json:"font_size"`
}

// AnnotationBox is an unfilled text box of the annotation strip.
type AnnotationBox struct {
	Rect     Rect    `json:"rect"`
	Label    string  `json:"label"`
	FontSize float64 `json:"font_size"`
}

// Diagram is the complete content of one page.
type Diagram struct {
	Policy      string          `json:"policy"`
	Title       string          `json:"title"`
	Shapes      []Shape         `json:"shapes"`
	Annotations []AnnotationBox `json:"annotations"`
}

// Canvas is the drawable page area in renderer units.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvas returns a 10in x 7.5in page in points.
func DefaultCanvas() Canvas {
	return Canvas{Width: 10 * PointsPerInch, Height: 7.5 * PointsPerInch}
}

// Validate reports an INVALID_CANVAS error for non-positive or non-finite sizes.
func (c Canvas) Validate() error {
	return errs.ValidateCanvas(c.Width, c.Height)
}

// Page is a diagram together with the canvas it was laid out on.
type Page struct {
	Canvas  Canvas  `json:"canvas"`
	Diagram Diagram `json:"diagram"`
}

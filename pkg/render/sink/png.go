package sink

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/procdeck/pkg/diagram"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
	title bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGTitle controls whether the policy title is drawn.
func WithPNGTitle(show bool) PNGOption {
	return func(r *pngRenderer) { r.title = show }
}

var (
	regularOnce sync.Once
	regularFont *truetype.Font
	regularErr  error
)

func loadFont() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = truetype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// RenderPNG rasterizes one page.
func RenderPNG(p diagram.Page, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, title: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, fmt.Errorf("invalid png scale %v", r.scale)
	}

	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	faces := map[float64]font.Face{}
	face := func(size float64) font.Face {
		px := math.Max(1, size*r.scale)
		if fc, ok := faces[px]; ok {
			return fc
		}
		fc := truetype.NewFace(f, &truetype.Options{Size: px})
		faces[px] = fc
		return fc
	}

	s := func(v float64) float64 { return v * r.scale }
	w := int(math.Ceil(s(p.Canvas.Width)))
	h := int(math.Ceil(s(p.Canvas.Height)))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas %vx%v", p.Canvas.Width, p.Canvas.Height)
	}

	dc := gg.NewContext(w, h)
	setColor(dc, diagram.White)
	dc.Clear()
	dc.SetLineWidth(s(1))

	if r.title && p.Diagram.Title != "" {
		size := p.Canvas.Height * titleRatio
		dc.SetFontFace(face(size))
		setColor(dc, diagram.Black)
		dc.DrawStringAnchored(p.Diagram.Title, s(p.Canvas.Width/2), s(size*1.5), 0.5, 0.5)
	}

	for _, sh := range p.Diagram.Shapes {
		rc := sh.Rect
		switch sh.Kind {
		case diagram.RoundedRectangle:
			dc.DrawRoundedRectangle(s(rc.Left), s(rc.Top), s(rc.Width), s(rc.Height), s(math.Min(rc.Width, rc.Height)/6))
		default:
			dc.DrawEllipse(s(rc.Left+rc.Width/2), s(rc.Top+rc.Height/2), s(rc.Width/2), s(rc.Height/2))
		}
		setColor(dc, sh.Fill)
		dc.FillPreserve()
		setColor(dc, diagram.Black)
		dc.Stroke()

		dc.SetFontFace(face(sh.FontSize))
		drawLabel(dc, sh.Label, rc, r.scale)
	}

	for _, a := range p.Diagram.Annotations {
		dc.SetFontFace(face(a.FontSize))
		setColor(dc, diagram.Black)
		drawLabel(dc, a.Label, a.Rect, r.scale)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setColor(dc *gg.Context, c diagram.Color) {
	dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}

func drawLabel(dc *gg.Context, label string, rc diagram.Rect, scale float64) {
	if label == "" {
		return
	}
	setColor(dc, diagram.Black)
	cx := (rc.Left + rc.Width/2) * scale
	cy := (rc.Top + rc.Height/2) * scale
	dc.DrawStringWrapped(label, cx, cy, 0.5, 0.5, rc.Width*scale*textPadding, lineHeight, gg.AlignCenter)
}

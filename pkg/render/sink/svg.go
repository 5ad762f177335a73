package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/procdeck/pkg/diagram"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      bool
	background diagram.Color
}

// WithTitle controls whether the policy title is drawn at the top of the page.
func WithTitle(show bool) SVGOption { return func(r *svgRenderer) { r.title = show } }

// WithBackground sets the page background color (default white).
func WithBackground(c diagram.Color) SVGOption {
	return func(r *svgRenderer) { r.background = c }
}

// RenderSVG renders one page as a standalone SVG document.
func RenderSVG(p diagram.Page, opts ...SVGOption) []byte {
	r := svgRenderer{title: true, background: diagram.White}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := p.Canvas.Width, p.Canvas.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background.Hex())

	if r.title && p.Diagram.Title != "" {
		size := h * titleRatio
		fmt.Fprintf(&buf, `  <text class="title" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.2f" font-weight="bold" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
			w/2, size*1.5, size, diagram.Black.Hex(), escapeXML(p.Diagram.Title))
	}

	for i, s := range p.Diagram.Shapes {
		renderShape(&buf, i, s)
	}
	for _, a := range p.Diagram.Annotations {
		renderAnnotation(&buf, a)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderShape(buf *bytes.Buffer, i int, s diagram.Shape) {
	rc := s.Rect
	switch s.Kind {
	case diagram.RoundedRectangle:
		radius := math.Min(rc.Width, rc.Height) / 6
		fmt.Fprintf(buf, `  <rect id="shape-%d" class="shape label" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" ry="%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			i, rc.Left, rc.Top, rc.Width, rc.Height, radius, radius, s.Fill.Hex(), diagram.Black.Hex())
	default:
		fmt.Fprintf(buf, `  <ellipse id="shape-%d" class="shape node" cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			i, rc.Left+rc.Width/2, rc.Top+rc.Height/2, rc.Width/2, rc.Height/2, s.Fill.Hex(), diagram.Black.Hex())
	}
	renderText(buf, "shape-text", rc, s.Label, s.FontSize)
}

func renderAnnotation(buf *bytes.Buffer, a diagram.AnnotationBox) {
	rc := a.Rect
	fmt.Fprintf(buf, `  <rect class="annotation" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none"/>`+"\n",
		rc.Left, rc.Top, rc.Width, rc.Height)
	renderText(buf, "annotation-text", rc, a.Label, a.FontSize)
}

func renderText(buf *bytes.Buffer, class string, rc diagram.Rect, label string, size float64) {
	lines := wrapLines(label, rc.Width, size)
	if len(lines) == 0 {
		return
	}
	cx := rc.Left + rc.Width/2
	cy := rc.Top + rc.Height/2
	firstDY := -float64(len(lines)-1) / 2 * lineHeight

	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.2f" text-anchor="middle" dominant-baseline="central" fill="%s">`,
		class, cx, cy, size, diagram.Black.Hex())
	for i, line := range lines {
		dy := lineHeight
		if i == 0 {
			dy = firstDY
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.2fem">%s</tspan>`, cx, dy, escapeXML(line))
	}
	buf.WriteString("</text>\n")
}

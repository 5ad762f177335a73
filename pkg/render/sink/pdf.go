package sink

import (
	"github.com/matzehuels/procdeck/pkg/diagram"
	"github.com/matzehuels/procdeck/pkg/render"
)

// RenderPDF renders the pages as one PDF document via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(pages []diagram.Page) ([]byte, error) {
	svgs := make([][]byte, len(pages))
	for i, p := range pages {
		svgs[i] = RenderSVG(p)
	}
	return render.ToPDFPages(svgs)
}

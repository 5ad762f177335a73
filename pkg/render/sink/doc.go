// Package sink encodes diagram pages into output formats.
//
// # Overview
//
// A "sink" transforms [diagram.Page] values into bytes:
//
//   - SVG: one standalone vector document per page
//   - PNG: one raster image per page, drawn with gg
//   - PDF: one multi-page document (requires rsvg-convert)
//   - JSON: the page descriptors of a whole deck
//
// # SVG Output
//
// [RenderSVG] draws ovals as ellipses and label columns as rounded
// rectangles, each with a thin black outline and centered black text that
// wraps to the shape width. Annotation boxes are drawn without fill.
//
//	svg := sink.RenderSVG(page, sink.WithTitle(true))
//
// # PNG Output
//
// [RenderPNG] rasterizes a page with github.com/fogleman/gg using the Go
// regular font, so it needs no external tools:
//
//	png, err := sink.RenderPNG(page, sink.WithScale(2))
//
// # PDF Output
//
// [RenderPDF] renders every page to SVG and joins them with rsvg-convert.
// This requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package sink

// Package render converts diagram pages into documents.
//
// # Overview
//
// The diagram engine produces abstract pages: shapes with rectangles, fill
// colors and labels. Rendering happens in two subpackages:
//
//   - [sink]: per-format encoders (SVG, PNG, PDF, JSON)
//   - [deck]: the ordered page collection a pipeline run fills, and the
//     writer that stores it on disk
//
// # Format Conversion
//
// PDF output is produced from SVG with the external rsvg-convert tool
// (from librsvg). [ToPDF] converts one page, [ToPDFPages] joins several SVG
// pages into one multi-page document:
//
//	pdf, err := render.ToPDFPages([][]byte{svgA, svgB})
//
// [sink]: github.com/matzehuels/procdeck/pkg/render/sink
// [deck]: github.com/matzehuels/procdeck/pkg/render/deck
package render

// Package diagram lays out process tables as pages of positioned shapes.
//
// # Overview
//
// A process table is a list of rows of short text cells. Each column has a
// fixed meaning within a process description (actor, action, outcome and
// so on), so the layout is driven by column position rather than by any
// graph structure. This package turns one [table.Table] into one [Diagram]
// per [Policy]: a list of [Shape] values (ovals and rounded rectangles with
// a fill color and a label) and a strip of [AnnotationBox] values listing
// the action verbs found in the processed cells.
//
// # Policies
//
// A [Policy] assigns a [Role] to each of the first six columns and names
// the rows it reads. The four built-in policies are:
//
//   - [PolicyA] "Core Process Statement": row 1 only, diagonal layout,
//     label columns 0 and 5 with a red companion oval each
//   - [PolicyB] "Non-Core Process Statement": rows 2 onwards, grid layout
//   - [PolicyC] "Corporate Policy": rows 1 onwards, grid layout
//   - [PolicyD] "Business Unit Policy": rows 1 onwards, grid layout
//
// Cells that are empty after trimming whitespace, or that contain "(",
// never produce a shape whatever their column's role.
//
// # Geometry
//
// [Diagonal] places shapes on seven slots running from the top-left corner
// of the canvas towards the bottom-right: slot k sits at (k*W/7, k*H/7).
// Each column of the diagonal policy owns fixed slots, so a fully
// populated row fills every slot exactly once.
//
// [Grid] is a wrapping cursor. Shapes are placed left to right starting at
// the page margins; when the next shape would cross the right boundary the
// cursor returns to the left margin one node height lower. The cursor is
// shared by every row of a page.
//
// All lengths come from [Metrics], which expresses the fixed physical
// sizes (2in x 0.8in nodes, 18pt text, 1in x 0.5in annotation boxes) in
// the caller's canvas units:
//
//	m := diagram.NewMetrics(diagram.PointsPerInch)
//
// # Annotations
//
// A [TextAnnotator] asks a part-of-speech tagger for the verbs of each
// processed cell. The verbs are collected row-major, chunked into groups of
// five and placed in rows of boxes anchored at the bottom of the canvas.
// The first group sits on the bottom row and every further group one box
// height higher.
//
// # Building
//
//	b := diagram.NewBuilder(diagram.NewMetrics(diagram.PointsPerInch),
//	    diagram.NewTextAnnotator(tagger.NewProse()))
//	d, err := b.Build(ctx, diagram.PolicyA, tbl, diagram.DefaultCanvas())
//
// Building is deterministic: the same table, canvas and tagger output
// always produce identical diagrams.
package diagram

// Package pkg provides the core libraries for procdeck process diagrams.
//
// # Overview
//
// Procdeck turns a six-column process table into a deck of diagram pages,
// one per policy. Each page places the table cells as colored ovals and
// labelled boxes and lists the verbs found in the cells along the bottom
// edge. The pkg directory is organized into these areas:
//
//  1. [table] - Reading process tables from CSV and Excel workbooks
//  2. [diagram] - Policies, geometry and the diagram builder
//  3. [tagger] - Part-of-speech tagging for the verb strip
//  4. [render] - The page deck and its SVG, PNG, PDF and JSON sinks
//  5. [pipeline] - Orchestration (table → diagrams → deck)
//
// # Architecture
//
// The typical data flow:
//
//	.csv / .xlsx table
//	         ↓
//	    [table] package (rectangular rows of trimmed cells)
//	         ↓
//	    [diagram] package (one Diagram per policy, verbs via [tagger])
//	         ↓
//	    [render/deck] package (ordered pages)
//	         ↓
//	    <base>_combined.pdf / .json, per-page SVG and PNG
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/procdeck/pkg/pipeline"
//	    "github.com/matzehuels/procdeck/pkg/render/deck"
//	    "github.com/matzehuels/procdeck/pkg/table"
//	    "github.com/matzehuels/procdeck/pkg/tagger"
//	)
//
//	// 1. Load the table
//	tbl, _ := table.Load("process.xlsx", "")
//
//	// 2. Build every policy page
//	d := deck.New()
//	runner := pipeline.NewRunner(pipeline.Options{}, tagger.NewProse(), nil)
//	report, _ := runner.Run(ctx, tbl, d)
//
//	// 3. Write the combined outputs
//	paths, _ := d.Write("out", "process", []string{"pdf", "json"})
//
// # Main Packages
//
// [diagram] - The four built-in policies, each a role table over the six
// columns plus a layout (diagonal or grid). [diagram.Builder] places the
// shapes of a policy and collects its annotation strip.
//
// [tagger] - A prose-backed tagger and a caching decorator. Tagged tokens are
// stored in any [cache] backend keyed by the hash of the text.
//
// [cache] - File, redis and no-op caches behind one interface.
//
// [render/sink] - Stateless renderers from pages to bytes. PDF output shells
// out to rsvg-convert through [render].
//
// [errors] - Coded errors shared by the CLI and the HTTP server.
//
// [observability] - Hooks for policy runs, tagger calls and cache events.
//
// [table]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/table
// [diagram]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/diagram
// [diagram.Builder]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/diagram#Builder
// [tagger]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/tagger
// [cache]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/render
// [render/deck]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/render/deck
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/procdeck/pkg/observability
package pkg

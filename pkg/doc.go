// Package pkg provides the core libraries for Labelpress sheet rendering.
//
// # Overview
//
// Labelpress turns tabular data into printable label sheets. Each record
// becomes one label block; each field is fitted into its column by picking
// the largest font size whose wrapped text still fits the cell. The pkg
// directory is organized into five main areas:
//
//  1. Text fitting ([text], [fonts]) - measurement, wrapping, binary-search fitting
//  2. Geometry ([geom], [layout]) - page partitioning into blocks, columns, grids
//  3. Planning ([render], [template]) - sheet plans, builtin and TOML templates
//  4. Storage ([library], [cache]) - symbol persistence and content-addressed caching
//  5. Orchestration ([pipeline], [dataset]) - ingest → plan → render
//
// # Architecture
//
// The typical data flow through Labelpress:
//
//	CSV/XLSX dataset
//	         ↓
//	    [dataset] package (read, normalize, select rows)
//	         ↓
//	    [render] package (tile records into pages, fit every cell)
//	         ↓
//	    [render/sink] package (PDF, PNG, JSON bytes)
//
// # Quick Start
//
// Plan and render a label sheet:
//
//	import (
//	    "github.com/labelpress/labelpress/pkg/dataset"
//	    "github.com/labelpress/labelpress/pkg/fonts"
//	    "github.com/labelpress/labelpress/pkg/render"
//	    "github.com/labelpress/labelpress/pkg/render/sink"
//	    "github.com/labelpress/labelpress/pkg/template"
//	)
//
//	// 1. Read the dataset
//	ds, _ := dataset.Read("racks.csv")
//
//	// 2. Plan the sheet with the builtin template
//	table := fonts.NewTable()
//	records := make([]render.Record, len(ds.Records))
//	for i, r := range ds.Records {
//	    records[i] = render.Record(r)
//	}
//	sheet, _ := render.BuildLabels(template.Labels(), records, table)
//
//	// 3. Render to PDF
//	pdf, _ := sink.RenderPDF(sheet, sink.WithPDFFonts(table))
//
// # Main Packages
//
// [text] - Font-size fitting. A Policy is either a fixed size or a bounded
// range; Fitter binary-searches the range for the largest size whose
// wrapped lines fit the height budget. Fits that overflow at the minimum
// size are marked degraded, never rejected.
//
// [fonts] - Font metrics and registration. Builtin Helvetica and Courier
// width tables plus TTF path registration for custom faces; surfaces load
// the files when drawing.
//
// [geom] - Points, rects, affine transforms, and physical length parsing
// ("12mm", "0.5in" → points).
//
// [layout] - Closed-form page geometry: label blocks per page, weighted
// column widths, fixed symbol grids.
//
// [render] - Sheet planning and drawing. BuildLabels tiles records into
// label pages; BuildSymbols tiles one symbol into every cell of a grid.
// The planned Sheet is pure data; Draw replays it onto a Surface.
//
// [render/pdf], [render/raster] - Surfaces backed by go-pdf/fpdf and
// fogleman/gg.
//
// [render/sink] - Byte-level output: RenderPDF, RenderPNG, RenderJSON.
//
// [template] - Builtin label and symbol sheet definitions plus TOML
// overlays for custom page sizes, grids, and columns.
//
// [dataset] - CSV and XLSX ingestion with header normalization and 1-based
// row selection.
//
// [library] - Persistent symbol library with file, memory, Redis, and
// MongoDB backends.
//
// [cache] - Content-addressed cache for planned sheets and rendered
// artifacts, with file and null backends.
//
// [pipeline] - Complete rendering pipeline (ingest → plan → render) used
// by CLI and server. Ensures consistent behavior across all entry points.
//
// [observability] - Process-wide hooks for pipeline stages, cache traffic,
// and degraded fits.
//
// [errors] - Coded errors shared by every package; codes map to CLI exit
// messages and HTTP statuses.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/text/...       # Specific package
//	go test -run Example         # Examples only
//
// [text]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/text
// [fonts]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/fonts
// [geom]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/geom
// [layout]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/layout
// [render]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/render
// [render/pdf]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/render/pdf
// [render/raster]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/render/raster
// [render/sink]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/render/sink
// [template]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/template
// [dataset]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/dataset
// [library]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/library
// [cache]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/observability
// [errors]: https://pkg.go.dev/github.com/labelpress/labelpress/pkg/errors
package pkg

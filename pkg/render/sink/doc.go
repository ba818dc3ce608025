// Package sink provides output format renderers for planned sheets.
//
// # Overview
//
// A "sink" turns a planned [render.Sheet] into final output bytes. This
// package provides renderers for:
//
//   - PDF: print-ready paginated output at the sheet's physical page size
//   - PNG: raster preview of a single page
//   - JSON: the full plan as data, for inspection and caching
//
// # PDF Output
//
// [RenderPDF] replays the whole sheet onto a [pdf.Surface]:
//
//	data, err := sink.RenderPDF(sheet, sink.WithPDFFonts(table))
//
// Pass the font table the sheet was built with so registered TTF files are
// embedded and centering matches the planned widths.
//
// # PNG Output
//
// [RenderPNG] rasterizes one page, by default the first, at a scale factor:
//
//	img, err := sink.RenderPNG(sheet, sink.WithPage(1), sink.WithScale(3))
//
// Requesting a page the sheet does not have is an input error.
//
// # JSON Output
//
// [RenderJSON] exports the plan as a pretty-printed JSON document,
// enabling:
//
//   - Inspecting fit decisions (chosen sizes, wrapped lines, degraded flags)
//   - Caching computed plans for fast re-rendering
//   - Driving external tooling from the planned geometry
//
// The output carries the page geometry, a per-sheet degraded-cell count,
// and every page's drawing operations.
//
// # Adding New Formats
//
// To add a new output format:
//
//  1. Create a renderer function: func RenderFoo(sheet *render.Sheet, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Either replay the sheet onto a [render.Surface] implementation or
//     walk the pages directly, as json.go does
//
// [render.Sheet]: github.com/labelpress/labelpress/pkg/render.Sheet
// [render.Surface]: github.com/labelpress/labelpress/pkg/render.Surface
// [pdf.Surface]: github.com/labelpress/labelpress/pkg/render/pdf.Surface
package sink

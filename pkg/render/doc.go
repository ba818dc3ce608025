// Package render turns label data into finished sheets of drawing
// operations.
//
// # Overview
//
// Rendering is split into two phases so that every fit decision is
// inspectable and cacheable before a single byte of PDF exists:
//
//  1. Build: [BuildLabels] and [BuildSymbols] run the text-fitting engine
//     over a sheet description and produce a [Sheet], a pure data plan of
//     pages, boxes, rules, and fitted text cells.
//  2. Draw: [Draw] replays a [Sheet] onto any [Surface], computing the
//     final centring coordinates per line.
//
// A [Sheet] is JSON-serializable, which makes the plan itself an output
// format and lets tests assert on geometry without decoding a document.
//
// # Rendering Pipeline
//
//	tpl := template.Labels()
//	table := fonts.NewTable()
//
//	sheet, err := render.BuildLabels(tpl, records, table)
//	if err != nil { ... }
//
//	pdf, err := sink.RenderPDF(sheet, sink.WithPDFFonts(table))
//
// # Subpackages
//
//   - [sink]: Final output generators (PDF, PNG, JSON).
//   - [pdf]: A go-pdf/fpdf backed [Surface].
//   - [raster]: A fogleman/gg backed [Surface] for PNG previews.
//
// [sink]: github.com/labelpress/labelpress/pkg/render/sink
// [pdf]: github.com/labelpress/labelpress/pkg/render/pdf
// [raster]: github.com/labelpress/labelpress/pkg/render/raster
package render

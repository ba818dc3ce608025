package pipeline

import (
	"github.com/labelpress/labelpress/pkg/render"
	"github.com/labelpress/labelpress/pkg/render/sink"
)

// Render produces the requested artifacts from a planned sheet. Formats
// must have passed ValidateFormats.
func Render(sheet *render.Sheet, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(sheet, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(sheet *render.Sheet, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPDF:
		return sink.RenderPDF(sheet, sink.WithPDFFonts(opts.Fonts))
	case FormatPNG:
		return sink.RenderPNG(sheet,
			sink.WithPNGFonts(opts.Fonts),
			sink.WithScale(opts.Scale),
			sink.WithPage(opts.Page),
		)
	case FormatJSON:
		return sink.RenderJSON(sheet,
			sink.WithJSONTemplate(opts.TemplateName()),
			sink.WithJSONSource(opts.Source()),
		)
	default:
		return nil, ValidateFormat(format)
	}
}

package sink

import (
	"encoding/json"

	"github.com/labelpress/labelpress/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	template string
	source   string
	compact  bool
}

// WithJSONTemplate records the template name the sheet was planned from,
// for traceability when plans are cached or shipped to other tools.
func WithJSONTemplate(name string) JSONOption {
	return func(r *jsonRenderer) { r.template = name }
}

// WithJSONSource records the dataset path or item the sheet was planned
// from.
func WithJSONSource(src string) JSONOption {
	return func(r *jsonRenderer) { r.source = src }
}

// WithJSONCompact emits single-line JSON instead of the indented default.
func WithJSONCompact() JSONOption {
	return func(r *jsonRenderer) { r.compact = true }
}

type jsonOutput struct {
	Title     string        `json:"title,omitempty"`
	Template  string        `json:"template,omitempty"`
	Source    string        `json:"source,omitempty"`
	PageW     float64       `json:"page_width"`
	PageH     float64       `json:"page_height"`
	PageCount int           `json:"page_count"`
	Degraded  int           `json:"degraded_cells,omitempty"`
	Pages     []render.Page `json:"pages"`
}

// RenderJSON exports the planned sheet as a JSON document: page geometry,
// a degraded-cell count, and every page's drawing operations with the fit
// decisions (chosen sizes, wrapped lines) visible.
//
// RenderJSON returns an error only if marshaling fails. It does not
// modify the sheet and is safe to call concurrently.
func RenderJSON(sheet *render.Sheet, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Title:     sheet.Title,
		Template:  r.template,
		Source:    r.source,
		PageW:     sheet.PageW,
		PageH:     sheet.PageH,
		PageCount: sheet.PageCount(),
		Degraded:  sheet.DegradedCells(),
		Pages:     sheet.Pages,
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

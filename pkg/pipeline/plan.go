package pipeline

import (
	"encoding/json"
	"os"

	"github.com/labelpress/labelpress/pkg/dataset"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/render"
	"github.com/labelpress/labelpress/pkg/template"
)

// Plan builds the label sheet for the ingested records: load the template
// (file or builtin), then lay out every block and fit every cell.
func Plan(ds *dataset.Dataset, opts Options) (*render.Sheet, error) {
	spec, err := labelTemplate(opts)
	if err != nil {
		return nil, err
	}

	records := make([]render.Record, len(ds.Records))
	for i, r := range ds.Records {
		records[i] = r
	}
	return render.BuildLabels(spec, records, opts.Fonts)
}

// PlanSymbols builds the symbol sheet for the options' text or image item.
func PlanSymbols(opts Options) (*render.Sheet, error) {
	spec, err := symbolTemplate(opts)
	if err != nil {
		return nil, err
	}

	var item render.Item
	if opts.Text != "" {
		item = render.TextItem(opts.Text)
	} else {
		item = render.ImageItem(opts.ImagePath)
	}
	return render.BuildSymbols(spec, item,
		render.WithPages(opts.Pages),
		render.WithRepeat(opts.Repeat),
	)
}

func labelTemplate(opts Options) (render.LabelSheet, error) {
	if opts.Template == "" {
		return template.Labels(), nil
	}
	return template.LoadLabels(opts.Template)
}

func symbolTemplate(opts Options) (render.SymbolSheet, error) {
	if opts.Template == "" {
		return template.Symbols(), nil
	}
	return template.LoadSymbols(opts.Template)
}

// templateHash is the template's contribution to the plan cache key: the
// file bytes for a custom template, a constant for the builtin. Hashing
// the content means editing a template file in place invalidates the
// cached plan.
func templateHash(opts Options) ([]byte, error) {
	if opts.Template == "" {
		return []byte("builtin"), nil
	}
	data, err := os.ReadFile(opts.Template)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "template %q", opts.Template)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "reading template %q", opts.Template)
	}
	return data, nil
}

// marshalSheet and unmarshalSheet are the plan cache codec. The sheet is
// plain data, so JSON round-trips it exactly.
func marshalSheet(sheet *render.Sheet) ([]byte, error) {
	return json.Marshal(sheet)
}

func unmarshalSheet(data []byte) (*render.Sheet, error) {
	var sheet render.Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

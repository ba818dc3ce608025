// Package template loads sheet descriptions from TOML files and provides
// the built-in defaults.
//
// A template file is the configuration surface for a sheet: page size and
// margins, the grid or block arrangement, and the per-column fitting
// policies. Dimensions are written with units ("4in", "95mm", "6.5cm");
// bare numbers are printer points. Loading validates everything up front
// and returns coded errors, so a bad template never reaches the renderer.
package template

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/geom"
	"github.com/labelpress/labelpress/pkg/layout"
	"github.com/labelpress/labelpress/pkg/render"
	"github.com/labelpress/labelpress/pkg/text"
)

// Template kinds accepted in the `kind` field.
const (
	KindLabels  = "labels"
	KindSymbols = "symbols"
)

// labelFile is the TOML shape of a label (table-variant) template.
type labelFile struct {
	Kind string   `toml:"kind"`
	Page pageSpec `toml:"page"`

	Blocks      int     `toml:"blocks"`
	BlockGap    float64 `toml:"block_gap"`
	HeaderRatio float64 `toml:"header_ratio"`
	ThinStroke  float64 `toml:"thin_stroke"`
	ThickStroke float64 `toml:"thick_stroke"`
	Padding     float64 `toml:"padding"`
	LineGap     float64 `toml:"line_gap"`
	MaxLines    int     `toml:"max_lines"`

	Font           string    `toml:"font"`
	HeaderSize     int       `toml:"header_size"`
	HeaderMaxLines int       `toml:"header_max_lines"`
	Columns        []colSpec `toml:"columns"`
}

// symbolFile is the TOML shape of a symbol (grid-variant) template.
type symbolFile struct {
	Kind string   `toml:"kind"`
	Page pageSpec `toml:"page"`
	Grid gridSpec `toml:"grid"`

	Stroke     float64 `toml:"stroke"`
	Boxes      *bool   `toml:"boxes"`
	BaseSize   int     `toml:"base_size"`
	MultiScale float64 `toml:"multi_scale"`
}

type pageSpec struct {
	Width  string `toml:"width"`
	Height string `toml:"height"`
	Margin string `toml:"margin"`
}

type gridSpec struct {
	Cols       int    `toml:"cols"`
	Rows       int    `toml:"rows"`
	CellWidth  string `toml:"cell_width"`
	CellHeight string `toml:"cell_height"`
	ColGap     string `toml:"col_gap"`
	RowGap     string `toml:"row_gap"`
	MarginLeft string `toml:"margin_left"`
	MarginTop  string `toml:"margin_top"`
}

type colSpec struct {
	Name   string  `toml:"name"`
	Weight float64 `toml:"weight"`
	Fixed  int     `toml:"fixed"`
	Min    int     `toml:"min"`
	Max    int     `toml:"max"`
}

// Labels returns the built-in 4×6" nine-column label template.
func Labels() render.LabelSheet {
	cols := []render.Column{
		{Name: "IP", Weight: 1.25, Policy: text.Bounded(6, 11)},
		{Name: "Host", Weight: 1.65, Policy: text.Fixed(8)},
		{Name: "New IP", Weight: 1.35, Policy: text.Bounded(6, 11)},
		{Name: "SFP", Weight: 1.10, Policy: text.Bounded(6, 11)},
		{Name: "Cat-6", Weight: 1.10, Policy: text.Bounded(6, 11)},
		{Name: "LAN", Weight: 1.05, Policy: text.Bounded(6, 11)},
		{Name: "At/Pr", Weight: 1.05, Policy: text.Bounded(6, 11)},
		{Name: "AP", Weight: 1.05, Policy: text.Bounded(6, 13)},
		{Name: "IP/P", Weight: 1.15, Policy: text.Bounded(6, 11)},
	}
	return render.LabelSheet{
		PageW:          4 * geom.In,
		PageH:          6 * geom.In,
		Margin:         0.10 * geom.In,
		Blocks:         3,
		BlockGap:       6,
		HeaderRatio:    0.22,
		ThinStroke:     0.8,
		ThickStroke:    1.6,
		Padding:        3.5,
		LineGap:        1.5,
		MaxLines:       3,
		Font:           string(fontsDefault),
		HeaderPolicy:   text.Fixed(10),
		HeaderMaxLines: 1,
		Columns:        cols,
	}
}

// Symbols returns the built-in 95×150 mm symbol-sheet template: a 9×3 grid
// of 10×50 mm cells.
func Symbols() render.SymbolSheet {
	return render.SymbolSheet{
		PageW: 95 * geom.Mm,
		PageH: 150 * geom.Mm,
		Grid: layout.Grid{
			Cols:       9,
			Rows:       3,
			CellW:      10 * geom.Mm,
			CellH:      50 * geom.Mm,
			MarginLeft: 2.5 * geom.Mm,
		},
		Stroke:     0.7,
		Boxes:      true,
		BaseSize:   18,
		MultiScale: 0.75,
	}
}

const fontsDefault = "Helvetica-Bold"

// LoadLabels reads a label template file, fills unset fields from the
// built-in default, and validates the result.
func LoadLabels(path string) (render.LabelSheet, error) {
	var file labelFile
	if err := load(path, KindLabels, &file); err != nil {
		return render.LabelSheet{}, err
	}

	sheet := Labels()
	if err := applyPage(&sheet.PageW, &sheet.PageH, &sheet.Margin, file.Page); err != nil {
		return render.LabelSheet{}, invalid(path, err)
	}
	if file.Blocks != 0 {
		sheet.Blocks = file.Blocks
	}
	if file.BlockGap != 0 {
		sheet.BlockGap = file.BlockGap
	}
	if file.HeaderRatio != 0 {
		sheet.HeaderRatio = file.HeaderRatio
	}
	if file.ThinStroke != 0 {
		sheet.ThinStroke = file.ThinStroke
	}
	if file.ThickStroke != 0 {
		sheet.ThickStroke = file.ThickStroke
	}
	if file.Padding != 0 {
		sheet.Padding = file.Padding
	}
	if file.LineGap != 0 {
		sheet.LineGap = file.LineGap
	}
	if file.MaxLines != 0 {
		sheet.MaxLines = file.MaxLines
	}
	if file.Font != "" {
		sheet.Font = file.Font
	}
	if file.HeaderSize != 0 {
		sheet.HeaderPolicy = text.Fixed(file.HeaderSize)
	}
	if file.HeaderMaxLines != 0 {
		sheet.HeaderMaxLines = file.HeaderMaxLines
	}
	if len(file.Columns) > 0 {
		cols, err := buildColumns(file.Columns)
		if err != nil {
			return render.LabelSheet{}, invalid(path, err)
		}
		sheet.Columns = cols
	}

	if err := sheet.Validate(); err != nil {
		return render.LabelSheet{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q", path)
	}
	return sheet, nil
}

// LoadSymbols reads a symbol template file, fills unset fields from the
// built-in default, and validates the result.
func LoadSymbols(path string) (render.SymbolSheet, error) {
	var file symbolFile
	if err := load(path, KindSymbols, &file); err != nil {
		return render.SymbolSheet{}, err
	}

	sheet := Symbols()
	var margin float64
	if err := applyPage(&sheet.PageW, &sheet.PageH, &margin, file.Page); err != nil {
		return render.SymbolSheet{}, invalid(path, err)
	}
	if err := applyGrid(&sheet.Grid, file.Grid); err != nil {
		return render.SymbolSheet{}, invalid(path, err)
	}
	if file.Stroke != 0 {
		sheet.Stroke = file.Stroke
	}
	if file.Boxes != nil {
		sheet.Boxes = *file.Boxes
	}
	if file.BaseSize != 0 {
		sheet.BaseSize = file.BaseSize
	}
	if file.MultiScale != 0 {
		sheet.MultiScale = file.MultiScale
	}

	if err := sheet.Validate(); err != nil {
		return render.SymbolSheet{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q", path)
	}
	return sheet, nil
}

func load(path, wantKind string, v interface{ kind() string }) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "template %q", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "reading template %q", path)
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parsing template %q", path)
	}
	if k := v.kind(); k != "" && k != wantKind {
		return errors.New(errors.ErrCodeInvalidTemplate,
			"template %q has kind %q, want %q", path, k, wantKind)
	}
	return nil
}

func (f *labelFile) kind() string  { return f.Kind }
func (f *symbolFile) kind() string { return f.Kind }

func invalid(path string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q", path)
}

func applyPage(w, h, margin *float64, p pageSpec) error {
	if err := applyLength(w, p.Width, "page width"); err != nil {
		return err
	}
	if err := applyLength(h, p.Height, "page height"); err != nil {
		return err
	}
	return applyLength(margin, p.Margin, "margin")
}

func applyGrid(g *layout.Grid, spec gridSpec) error {
	if spec.Cols != 0 {
		g.Cols = spec.Cols
	}
	if spec.Rows != 0 {
		g.Rows = spec.Rows
	}
	fields := []struct {
		dst  *float64
		src  string
		name string
	}{
		{&g.CellW, spec.CellWidth, "cell width"},
		{&g.CellH, spec.CellHeight, "cell height"},
		{&g.ColGap, spec.ColGap, "column gap"},
		{&g.RowGap, spec.RowGap, "row gap"},
		{&g.MarginLeft, spec.MarginLeft, "left margin"},
		{&g.MarginTop, spec.MarginTop, "top margin"},
	}
	for _, f := range fields {
		if err := applyLength(f.dst, f.src, f.name); err != nil {
			return err
		}
	}
	return nil
}

func applyLength(dst *float64, src, name string) error {
	if src == "" {
		return nil
	}
	v, err := geom.ParseLength(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = v
	return nil
}

// buildColumns converts column specs into render columns. A column with a
// fixed size bypasses the fitter; otherwise min/max bound the search, with
// the builtin default range filling unset bounds.
func buildColumns(specs []colSpec) ([]render.Column, error) {
	cols := make([]render.Column, len(specs))
	for i, c := range specs {
		if c.Fixed != 0 && (c.Min != 0 || c.Max != 0) {
			return nil, fmt.Errorf("column %q sets both fixed and min/max", c.Name)
		}
		pol := text.Bounded(6, 11)
		switch {
		case c.Fixed != 0:
			pol = text.Fixed(c.Fixed)
		case c.Min != 0 || c.Max != 0:
			minSize, maxSize := c.Min, c.Max
			if minSize == 0 {
				minSize = 6
			}
			if maxSize == 0 {
				maxSize = 11
			}
			pol = text.Bounded(minSize, maxSize)
		}
		weight := c.Weight
		if weight == 0 {
			weight = 1
		}
		cols[i] = render.Column{Name: c.Name, Weight: weight, Policy: pol}
	}
	return cols, nil
}

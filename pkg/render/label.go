package render

import (
	"strings"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/geom"
	"github.com/labelpress/labelpress/pkg/layout"
	"github.com/labelpress/labelpress/pkg/text"
)

// Record supplies field values for one label. Absent fields resolve to the
// empty string and render as a blank cell region, never an error.
// dataset.Record satisfies this.
type Record interface {
	Field(name string) string
}

// Column describes one field column of a label block: its header text,
// relative width, and font-size policy for values.
type Column struct {
	Name   string
	Weight float64
	Policy text.Policy
}

// LabelSheet describes the table-variant sheet: a fixed physical page
// carrying a stack of label blocks, each a bordered header band over a
// value row, split into weighted columns. All dimensions are points.
type LabelSheet struct {
	PageW, PageH float64
	Margin       float64
	Blocks       int     // label blocks per page
	BlockGap     float64 // vertical gap between blocks
	HeaderRatio  float64 // header band share of block height
	ThinStroke   float64 // outer border and column rules
	ThickStroke  float64 // header divider
	Padding      float64 // cell inset for text
	LineGap      float64 // extra points between lines
	MaxLines     int     // value wrap limit

	Font           string // face key for all block text
	HeaderPolicy   text.Policy
	HeaderMaxLines int
	Columns        []Column
}

// Validate rejects a sheet description that cannot be drawn. It runs
// before any page is planned, so a rejected sheet produces no output at
// all.
func (s LabelSheet) Validate() error {
	if err := errors.ValidateDimension("page width", s.PageW); err != nil {
		return err
	}
	if err := errors.ValidateDimension("page height", s.PageH); err != nil {
		return err
	}
	if s.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative, got %v", s.Margin)
	}
	if s.Blocks < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "blocks per page must be at least 1, got %d", s.Blocks)
	}
	if s.HeaderRatio <= 0 || s.HeaderRatio >= 1 {
		return errors.New(errors.ErrCodeInvalidInput, "header ratio must be between 0 and 1, got %v", s.HeaderRatio)
	}
	if s.MaxLines < 1 || s.HeaderMaxLines < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "line limits must be at least 1")
	}
	if len(s.Columns) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one column is required")
	}
	if err := errors.ValidateWeights(s.weights()); err != nil {
		return err
	}
	for _, c := range s.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "column names must not be empty")
		}
		minSize, maxSize := c.Policy.Bounds()
		if err := errors.ValidateSizeRange(minSize, maxSize); err != nil {
			return err
		}
	}

	content := geom.Uniform(s.Margin).Content(s.PageW, s.PageH)
	if content.W <= 0 {
		return errors.New(errors.ErrCodeGridBounds, "margins leave no horizontal room on the page")
	}
	if content.H-float64(s.Blocks-1)*s.BlockGap <= 0 {
		return errors.New(errors.ErrCodeGridBounds, "blocks and gaps exceed the page height; reduce the block count or gap")
	}
	return nil
}

func (s LabelSheet) weights() []float64 {
	w := make([]float64, len(s.Columns))
	for i, c := range s.Columns {
		w[i] = c.Weight
	}
	return w
}

// BuildLabels plans a label sheet: records are grouped per page, each
// group's blocks are laid out top to bottom, and every header and value
// cell gets a fitted font size. Records beyond the template's columns keep
// their extra fields; they are simply never read.
//
// Zero records produce a sheet with zero pages. Callers that consider an
// empty dataset an error must reject it themselves before building.
func BuildLabels(spec LabelSheet, records []Record, m text.Measurer) (*Sheet, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	content := geom.Uniform(spec.Margin).Content(spec.PageW, spec.PageH)
	blocks := layout.Stack(content, spec.Blocks, spec.BlockGap)
	widths := layout.Columns(content.W, spec.weights())
	fitter := text.Fitter{Measurer: m, Padding: spec.Padding, LineGap: spec.LineGap}

	sheet := &Sheet{PageW: spec.PageW, PageH: spec.PageH}
	for start := 0; start < len(records); start += spec.Blocks {
		var page Page
		for k, rect := range blocks {
			if idx := start + k; idx < len(records) {
				buildBlock(&page, rect, widths, records[idx], spec, fitter, m)
			} else {
				page.Boxes = append(page.Boxes, Box{Rect: rect, Stroke: spec.ThinStroke})
			}
		}
		sheet.Pages = append(sheet.Pages, page)
	}
	return sheet, nil
}

// buildBlock plans one label block: outer border, thick header divider,
// thin column rules spanning the full block height, then a rotated text
// cell per column for the header band and the value row.
func buildBlock(p *Page, r geom.Rect, widths []float64, rec Record, spec LabelSheet, fitter text.Fitter, m text.Measurer) {
	p.Boxes = append(p.Boxes, Box{Rect: r, Stroke: spec.ThinStroke})

	headerH := r.H * spec.HeaderRatio
	valueH := r.H - headerH
	yHeader := r.Y + valueH

	p.Rules = append(p.Rules, Rule{
		From:   geom.Point{X: r.X, Y: yHeader},
		To:     geom.Point{X: r.Right(), Y: yHeader},
		Stroke: spec.ThickStroke,
	})

	x := r.X
	for _, w := range widths[:len(widths)-1] {
		x += w
		p.Rules = append(p.Rules, Rule{
			From:   geom.Point{X: x, Y: r.Y},
			To:     geom.Point{X: x, Y: r.Top()},
			Stroke: spec.ThinStroke,
		})
	}

	headerBand := geom.Rect{X: r.X, Y: yHeader, W: r.W, H: headerH}
	for i, cell := range layout.ColumnRects(headerBand, widths) {
		name := spec.Columns[i].Name
		fit := fitter.Fit(name, spec.Font, spec.HeaderPolicy, cell.W, cell.H, spec.HeaderMaxLines)
		p.Cells = append(p.Cells, newBlockCell(cell, name, spec, fit, spec.HeaderMaxLines, m))
	}

	valueBand := geom.Rect{X: r.X, Y: r.Y, W: r.W, H: valueH}
	for i, cell := range layout.ColumnRects(valueBand, widths) {
		col := spec.Columns[i]
		val := strings.TrimSpace(rec.Field(col.Name))
		fit := fitter.Fit(val, spec.Font, col.Policy, cell.W, cell.H, spec.MaxLines)
		p.Cells = append(p.Cells, newBlockCell(cell, val, spec, fit, spec.MaxLines, m))
	}
}

// newBlockCell records a rotated, clipped cell. The fitter ran against the
// unrotated cell dimensions; the lines stored here are re-wrapped at the
// rotated frame's width (the cell height), which is what drawing uses, so
// the plan shows exactly what prints.
func newBlockCell(r geom.Rect, s string, spec LabelSheet, fit text.FitResult, maxLines int, m text.Measurer) Cell {
	lines := text.Wrap(m, s, spec.Font, float64(fit.Size), r.H-2*spec.Padding)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return Cell{
		Rect:     r,
		Text:     s,
		Face:     spec.Font,
		Size:     fit.Size,
		Lines:    lines,
		Padding:  spec.Padding,
		LineGap:  spec.LineGap,
		Center:   true,
		Rotated:  true,
		Clipped:  true,
		Degraded: fit.Degraded,
	}
}

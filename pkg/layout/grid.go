package layout

import (
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/geom"
)

// Grid is a fixed-size cell grid anchored at the page's top-left corner,
// the symbol-sheet arrangement. Dimensions are points; gaps sit between
// cells only.
type Grid struct {
	Cols, Rows     int
	CellW, CellH   float64
	ColGap, RowGap float64
	MarginLeft     float64
	MarginTop      float64
}

// TotalW returns the grid's full width including inter-column gaps.
func (g Grid) TotalW() float64 {
	return float64(g.Cols)*g.CellW + float64(g.Cols-1)*g.ColGap
}

// TotalH returns the grid's full height including inter-row gaps.
func (g Grid) TotalH() float64 {
	return float64(g.Rows)*g.CellH + float64(g.Rows-1)*g.RowGap
}

// Validate rejects a grid that does not fit the page. An oversized grid
// would make the printer driver rescale the page, defeating the fixed
// physical cell size, so this is a hard error before any drawing.
func (g Grid) Validate(pageW, pageH float64) error {
	if g.Cols < 1 || g.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "grid needs at least one row and one column")
	}
	if g.CellW <= 0 || g.CellH <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid cell dimensions must be positive")
	}
	if g.MarginLeft+g.TotalW() > pageW+boundsTolerance {
		return errors.New(errors.ErrCodeGridBounds, "grid width exceeds the page; reduce the left margin or column gap")
	}
	if g.MarginTop+g.TotalH() > pageH+boundsTolerance {
		return errors.New(errors.ErrCodeGridBounds, "grid height exceeds the page; reduce the top margin or row gap")
	}
	return nil
}

// Cell returns the rectangle of the cell at row r, column c. Rows count
// from the top of the page, columns from the left, matching reading order
// on the printed sheet.
func (g Grid) Cell(pageH float64, r, c int) geom.Rect {
	x := g.MarginLeft + float64(c)*(g.CellW+g.ColGap)
	yTop := pageH - g.MarginTop
	y := yTop - float64(r+1)*g.CellH - float64(r)*g.RowGap
	return geom.Rect{X: x, Y: y, W: g.CellW, H: g.CellH}
}

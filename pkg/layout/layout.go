// Package layout computes the page geometry for label sheets: how a page
// partitions into label blocks, how a block's width distributes across
// weighted columns, and how a fixed grid of symbol cells sits on a page.
//
// Everything is closed-form arithmetic over [geom.Rect] values in points.
// The package never draws and never looks at record contents; rendering
// combines these rectangles with fitted text.
package layout

import "github.com/labelpress/labelpress/pkg/geom"

// boundsTolerance absorbs floating-point residue when checking whether a
// grid fits its page, so an exactly full-bleed grid is not rejected.
const boundsTolerance = 0.001

// Stack partitions a content rectangle into count equal-height blocks
// separated by gap, ordered top to bottom. This is the per-page split of a
// label sheet: block 0 is the topmost label.
func Stack(content geom.Rect, count int, gap float64) []geom.Rect {
	if count <= 0 {
		return nil
	}

	blockH := (content.H - float64(count-1)*gap) / float64(count)
	blocks := make([]geom.Rect, count)
	for k := 0; k < count; k++ {
		blocks[k] = geom.Rect{
			X: content.X,
			Y: content.Y + float64(count-1-k)*(blockH+gap),
			W: content.W,
			H: blockH,
		}
	}
	return blocks
}

// Columns distributes total width across weighted columns. Each width is
// weight/sum × total, so the widths partition the total exactly up to
// floating-point residue. Weights must be positive; ValidateWeights guards
// that at the template boundary.
func Columns(total float64, weights []float64) []float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return nil
	}

	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = w / sum * total
	}
	return widths
}

// ColumnRects converts a block rectangle and per-column widths into the
// column cell rectangles, left to right, each spanning the block's full
// height.
func ColumnRects(block geom.Rect, widths []float64) []geom.Rect {
	rects := make([]geom.Rect, len(widths))
	x := block.X
	for i, w := range widths {
		rects[i] = geom.Rect{X: x, Y: block.Y, W: w, H: block.H}
		x += w
	}
	return rects
}

// PageCount returns ceil(records / perPage): the number of pages needed to
// tile records at perPage cells per page. Zero records need zero pages.
func PageCount(records, perPage int) int {
	if records <= 0 || perPage <= 0 {
		return 0
	}
	return (records + perPage - 1) / perPage
}

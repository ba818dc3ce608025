package layout

import (
	"math"
	"testing"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/geom"
)

func TestStack(t *testing.T) {
	// The 4x6 inch sheet: 0.10in margins, three blocks, 6pt gaps.
	content := geom.Uniform(0.10 * geom.In).Content(4*geom.In, 6*geom.In)
	blocks := Stack(content, 3, 6)

	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3", len(blocks))
	}

	const wantH = (417.6 - 12) / 3 // 135.2
	wantY := []float64{289.6, 148.4, 7.2}
	for k, b := range blocks {
		if math.Abs(b.H-wantH) > 1e-9 {
			t.Errorf("block %d height = %v, want %v", k, b.H, wantH)
		}
		if math.Abs(b.Y-wantY[k]) > 1e-9 {
			t.Errorf("block %d y = %v, want %v", k, b.Y, wantY[k])
		}
		if b.X != content.X || b.W != content.W {
			t.Errorf("block %d spans x=%v w=%v, want x=%v w=%v", k, b.X, b.W, content.X, content.W)
		}
	}

	// Blocks are ordered top to bottom.
	for k := 1; k < len(blocks); k++ {
		if blocks[k].Y >= blocks[k-1].Y {
			t.Errorf("block %d y=%v is not below block %d y=%v", k, blocks[k].Y, k-1, blocks[k-1].Y)
		}
	}
}

func TestStackSingleBlock(t *testing.T) {
	content := geom.Rect{X: 10, Y: 10, W: 100, H: 200}
	blocks := Stack(content, 1, 6)
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	if blocks[0] != content {
		t.Errorf("single block = %v, want the full content rect %v", blocks[0], content)
	}
}

func TestStackInvalidCount(t *testing.T) {
	if got := Stack(geom.Rect{W: 10, H: 10}, 0, 1); got != nil {
		t.Errorf("Stack(count=0) = %v, want nil", got)
	}
}

// Column widths must partition the total exactly, for any weight vector.
func TestColumnsPartitionExactness(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		total   float64
	}{
		{
			name:    "nine label columns",
			weights: []float64{1.25, 1.65, 1.35, 1.10, 1.10, 1.05, 1.05, 1.05, 1.15},
			total:   273.6,
		},
		{
			name:    "single column",
			weights: []float64{3.7},
			total:   100,
		},
		{
			name:    "uniform",
			weights: []float64{1, 1, 1, 1},
			total:   288,
		},
		{
			name:    "extreme ratios",
			weights: []float64{0.01, 10, 0.01},
			total:   500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widths := Columns(tt.total, tt.weights)
			if len(widths) != len(tt.weights) {
				t.Fatalf("len(widths) = %d, want %d", len(widths), len(tt.weights))
			}
			var sum float64
			for _, w := range widths {
				if w <= 0 {
					t.Errorf("width %v is not positive", w)
				}
				sum += w
			}
			if math.Abs(sum-tt.total) > 1e-9 {
				t.Errorf("sum(widths) = %v, want %v", sum, tt.total)
			}
		})
	}
}

func TestColumnsProportions(t *testing.T) {
	widths := Columns(100, []float64{1, 3})
	if math.Abs(widths[0]-25) > 1e-9 || math.Abs(widths[1]-75) > 1e-9 {
		t.Errorf("Columns(100, [1 3]) = %v, want [25 75]", widths)
	}
}

func TestColumnRects(t *testing.T) {
	block := geom.Rect{X: 10, Y: 20, W: 100, H: 30}
	rects := ColumnRects(block, []float64{40, 60})

	want := []geom.Rect{
		{X: 10, Y: 20, W: 40, H: 30},
		{X: 50, Y: 20, W: 60, H: 30},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rect %d = %v, want %v", i, rects[i], want[i])
		}
	}

	// Adjacent columns share an edge: no gap, no overlap.
	if rects[1].X != rects[0].Right() {
		t.Errorf("column 1 starts at %v, want %v", rects[1].X, rects[0].Right())
	}
	if rects[len(rects)-1].Right() != block.Right() {
		t.Errorf("last column ends at %v, want block right %v", rects[len(rects)-1].Right(), block.Right())
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name             string
		records, perPage int
		want             int
	}{
		{name: "seven records three per page", records: 7, perPage: 3, want: 3},
		{name: "exact multiple", records: 6, perPage: 3, want: 2},
		{name: "single record", records: 1, perPage: 3, want: 1},
		{name: "zero records", records: 0, perPage: 3, want: 0},
		{name: "full grid", records: 27, perPage: 27, want: 1},
		{name: "invalid per page", records: 5, perPage: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageCount(tt.records, tt.perPage); got != tt.want {
				t.Errorf("PageCount(%d, %d) = %d, want %d", tt.records, tt.perPage, got, tt.want)
			}
		})
	}
}

func symbolGrid() Grid {
	return Grid{
		Cols:       9,
		Rows:       3,
		CellW:      10 * geom.Mm,
		CellH:      50 * geom.Mm,
		MarginLeft: 2.5 * geom.Mm,
	}
}

func TestGridValidate(t *testing.T) {
	pageW, pageH := 95*geom.Mm, 150*geom.Mm

	// The stock 9x3 grid fills the page height exactly; the tolerance must
	// let it through.
	if err := symbolGrid().Validate(pageW, pageH); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	wide := symbolGrid()
	wide.ColGap = 2 * geom.Mm
	err := wide.Validate(pageW, pageH)
	if err == nil {
		t.Fatal("Validate() with wide gaps = nil, want error")
	}
	if errors.GetCode(err) != errors.ErrCodeGridBounds {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeGridBounds)
	}

	tall := symbolGrid()
	tall.MarginTop = 1 * geom.Mm
	if err := tall.Validate(pageW, pageH); err == nil {
		t.Error("Validate() with top margin pushing grid off page = nil, want error")
	}

	degenerate := symbolGrid()
	degenerate.Rows = 0
	if err := degenerate.Validate(pageW, pageH); err == nil {
		t.Error("Validate() with zero rows = nil, want error")
	}
}

func TestGridCell(t *testing.T) {
	g := symbolGrid()
	pageH := 150 * geom.Mm

	first := g.Cell(pageH, 0, 0)
	if math.Abs(first.X-2.5*geom.Mm) > 1e-9 {
		t.Errorf("cell(0,0).X = %v, want %v", first.X, 2.5*geom.Mm)
	}
	if math.Abs(first.Top()-pageH) > 1e-9 {
		t.Errorf("cell(0,0) top = %v, want page top %v", first.Top(), pageH)
	}

	// Columns advance left to right, rows top to bottom.
	right := g.Cell(pageH, 0, 1)
	if math.Abs(right.X-first.Right()) > 1e-9 {
		t.Errorf("cell(0,1).X = %v, want %v", right.X, first.Right())
	}
	below := g.Cell(pageH, 1, 0)
	if math.Abs(below.Top()-first.Y) > 1e-9 {
		t.Errorf("cell(1,0) top = %v, want %v", below.Top(), first.Y)
	}

	last := g.Cell(pageH, 2, 8)
	if math.Abs(last.Y-0) > 1e-9 {
		t.Errorf("cell(2,8).Y = %v, want 0 (grid fills the page height)", last.Y)
	}
	if math.Abs(last.Right()-(2.5*geom.Mm+g.TotalW())) > 1e-9 {
		t.Errorf("cell(2,8) right = %v, want %v", last.Right(), 2.5*geom.Mm+g.TotalW())
	}
}

func TestGridTotals(t *testing.T) {
	g := Grid{Cols: 3, Rows: 2, CellW: 10, CellH: 20, ColGap: 1, RowGap: 2}
	if got := g.TotalW(); got != 32 {
		t.Errorf("TotalW() = %v, want 32", got)
	}
	if got := g.TotalH(); got != 42 {
		t.Errorf("TotalH() = %v, want 42", got)
	}
}

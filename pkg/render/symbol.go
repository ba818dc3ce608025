package render

import (
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/geom"
	"github.com/labelpress/labelpress/pkg/layout"
)

// Default tiling counts for symbol sheets, matching the stock template.
const (
	DefaultRepeat = 4
	DefaultPages  = 1
)

// minSymbolSize is the floor applied when scaling multi-character symbols
// down; below this the stacked repeats stop being legible.
const minSymbolSize = 6

// Item is the content tiled into every cell of a symbol sheet. It is a
// closed variant: either a [TextItem] or an [ImageItem]. The builder
// dispatches on the concrete type, so there is no string sniffing of
// paths versus symbols.
type Item interface {
	item()
}

// TextItem is a symbol drawn as text, repeated down each cell.
type TextItem string

// ImageItem is the path of an image file drawn once per cell, scaled to
// fit inside the cell padding with its aspect ratio preserved.
type ImageItem string

func (TextItem) item()  {}
func (ImageItem) item() {}

// FontResolver picks the face key for a symbol's text. The default is
// [fonts.Resolve], which detects Bengali script and otherwise uses the
// symbol face.
type FontResolver func(text string) string

// SymbolSheet describes the grid-variant sheet: one item tiled into every
// cell of a fixed grid, the same layout repeated across pages. Dimensions
// are points.
type SymbolSheet struct {
	PageW, PageH float64
	Grid         layout.Grid
	Stroke       float64 // cell border width
	Boxes        bool    // draw cell borders
	BaseSize     int     // font size for single-rune symbols
	MultiScale   float64 // size factor for longer text
}

// Validate rejects a sheet description that cannot be drawn.
func (s SymbolSheet) Validate() error {
	if err := errors.ValidateDimension("page width", s.PageW); err != nil {
		return err
	}
	if err := errors.ValidateDimension("page height", s.PageH); err != nil {
		return err
	}
	if s.BaseSize < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "base font size must be at least 1, got %d", s.BaseSize)
	}
	if s.MultiScale <= 0 || s.MultiScale > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "multi-character scale must be in (0, 1], got %v", s.MultiScale)
	}
	if s.Boxes && s.Stroke <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stroke width must be positive, got %v", s.Stroke)
	}
	return s.Grid.Validate(s.PageW, s.PageH)
}

// Title is the document title stamped into sheet metadata, for example
// "95x150mm - 9x3 - multipage".
func (s SymbolSheet) Title() string {
	return fmt.Sprintf("%.0fx%.0fmm - %dx%d - multipage",
		s.PageW/geom.Mm, s.PageH/geom.Mm, s.Grid.Cols, s.Grid.Rows)
}

// symbolSize picks the font size for a symbol. Single runes print at the
// base size; anything longer is scaled down and floored so the stacked
// repeats still fit their cells.
func (s SymbolSheet) symbolSize(text string) int {
	if utf8.RuneCountInString(strings.TrimSpace(text)) <= 1 {
		return s.BaseSize
	}
	size := int(math.Round(float64(s.BaseSize) * s.MultiScale))
	if size < minSymbolSize {
		return minSymbolSize
	}
	return size
}

type symbolBuilder struct {
	pages   int
	repeat  int
	resolve FontResolver
}

// SymbolOption adjusts how BuildSymbols tiles an item.
type SymbolOption func(*symbolBuilder)

// WithPages sets how many identical pages the sheet carries. Default 1.
func WithPages(n int) SymbolOption {
	return func(b *symbolBuilder) { b.pages = n }
}

// WithRepeat sets how many times a text symbol repeats down each cell,
// spread evenly over the cell height. Default 4. Image items ignore it.
func WithRepeat(n int) SymbolOption {
	return func(b *symbolBuilder) { b.repeat = n }
}

// WithResolver overrides the face resolver for text symbols.
func WithResolver(r FontResolver) SymbolOption {
	return func(b *symbolBuilder) {
		if r != nil {
			b.resolve = r
		}
	}
}

// BuildSymbols plans a symbol sheet: the item is tiled into every cell of
// the grid on every page. All input checking happens up front, so an
// error means nothing was planned at all.
//
// Text symbols repeat down the cell at evenly spaced baselines; a repeat
// of one centers the single mark. Images are planned once per cell; a
// missing or unreadable image file rejects the whole sheet.
func BuildSymbols(spec SymbolSheet, it Item, opts ...SymbolOption) (*Sheet, error) {
	b := symbolBuilder{pages: DefaultPages, repeat: DefaultRepeat, resolve: fonts.Resolve}
	for _, opt := range opts {
		opt(&b)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePageCount(b.pages); err != nil {
		return nil, err
	}
	if err := errors.ValidateRepeatCount(b.repeat); err != nil {
		return nil, err
	}

	var page Page
	switch v := it.(type) {
	case TextItem:
		if err := errors.ValidateText(string(v)); err != nil {
			return nil, err
		}
		page = spec.textPage(strings.TrimSpace(string(v)), b.repeat, b.resolve)
	case ImageItem:
		if _, err := os.Stat(string(v)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeResourceMissing, err, "image %q is not readable", string(v))
		}
		page = spec.imagePage(string(v))
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported sheet item %T", it)
	}

	sheet := &Sheet{Title: spec.Title(), PageW: spec.PageW, PageH: spec.PageH}
	for i := 0; i < b.pages; i++ {
		sheet.Pages = append(sheet.Pages, page)
	}
	return sheet, nil
}

// textPage plans one page of repeated text marks. Baselines are anchored a
// fixed fraction of the font size below each repeat position, which sits
// the glyphs optically centered on the position rather than on the
// baseline itself.
func (s SymbolSheet) textPage(text string, repeat int, resolve FontResolver) Page {
	face := resolve(text)
	size := s.symbolSize(text)

	var page Page
	for r := 0; r < s.Grid.Rows; r++ {
		for c := 0; c < s.Grid.Cols; c++ {
			cell := s.Grid.Cell(s.PageH, r, c)
			if s.Boxes {
				page.Boxes = append(page.Boxes, Box{Rect: cell, Stroke: s.Stroke})
			}
			padY := cellPadY(cell)
			usable := math.Max(1, cell.H-2*padY)
			for i := 0; i < repeat; i++ {
				frac := 0.5
				if repeat > 1 {
					frac = float64(i) / float64(repeat-1)
				}
				ty := cell.Top() - padY - usable*frac
				page.Marks = append(page.Marks, Mark{
					X:    cell.CenterX(),
					Y:    ty - 0.35*float64(size),
					Text: text,
					Face: face,
					Size: size,
				})
			}
		}
	}
	return page
}

// imagePage plans one page of per-cell images. Each image rect is the cell
// inset by the same vertical padding the text layout uses; the surface
// scales the image into the rect preserving aspect ratio.
func (s SymbolSheet) imagePage(path string) Page {
	var page Page
	for r := 0; r < s.Grid.Rows; r++ {
		for c := 0; c < s.Grid.Cols; c++ {
			cell := s.Grid.Cell(s.PageH, r, c)
			if s.Boxes {
				page.Boxes = append(page.Boxes, Box{Rect: cell, Stroke: s.Stroke})
			}
			padY := cellPadY(cell)
			padX := math.Max(1, 0.08*cell.W)
			page.Images = append(page.Images, Image{
				Rect: geom.Rect{
					X: cell.X + padX,
					Y: cell.Y + padY,
					W: cell.W - 2*padX,
					H: cell.H - 2*padY,
				},
				Path: path,
			})
		}
	}
	return page
}

// cellPadY is the vertical inset of a symbol cell: 8% of the cell height,
// but never less than 2mm so marks clear the borders on short cells.
func cellPadY(cell geom.Rect) float64 {
	return math.Max(2*geom.Mm, 0.08*cell.H)
}

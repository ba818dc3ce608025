package render

import (
	"strings"

	"github.com/labelpress/labelpress/pkg/geom"
	"github.com/labelpress/labelpress/pkg/text"
)

// Sheet is a fully planned document: every page enumerated, every font
// size decided, every line wrapped. It contains no drawing state and can
// be marshaled to JSON for inspection, caching, or re-rendering.
type Sheet struct {
	Title string  `json:"title,omitempty"`
	PageW float64 `json:"page_width"`
	PageH float64 `json:"page_height"`
	Pages []Page  `json:"pages"`
}

// Page holds one page's drawing operations, grouped by primitive. Within a
// group, operations appear in draw order.
type Page struct {
	Boxes  []Box   `json:"boxes,omitempty"`
	Rules  []Rule  `json:"rules,omitempty"`
	Cells  []Cell  `json:"cells,omitempty"`
	Marks  []Mark  `json:"marks,omitempty"`
	Images []Image `json:"images,omitempty"`
}

// Box is a stroked rectangle outline: cell borders and empty label blocks.
type Box struct {
	Rect   geom.Rect `json:"rect"`
	Stroke float64   `json:"stroke"`
}

// Rule is a stroked line segment: header dividers and column separators.
type Rule struct {
	From   geom.Point `json:"from"`
	To     geom.Point `json:"to"`
	Stroke float64    `json:"stroke"`
}

// Cell is one fitted text cell. Lines hold the wrap decision at the chosen
// size; drawing centers them in the cell, rotating the frame a quarter
// turn first when Rotated is set.
type Cell struct {
	Rect     geom.Rect `json:"rect"`
	Text     string    `json:"text"`
	Face     string    `json:"face"`
	Size     int       `json:"size"`
	Lines    []string  `json:"lines"`
	Padding  float64   `json:"padding"`
	LineGap  float64   `json:"line_gap"`
	Center   bool      `json:"center"`
	Rotated  bool      `json:"rotated,omitempty"`
	Clipped  bool      `json:"clipped,omitempty"`
	Degraded bool      `json:"degraded,omitempty"`
}

// Mark is a single centred string at a fixed baseline, the symbol-sheet
// text primitive. X is the center of the string, Y the baseline.
type Mark struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
	Face string  `json:"face"`
	Size int     `json:"size"`
}

// Image places the image file at Path into Rect, scaled to fit and
// centered.
type Image struct {
	Rect geom.Rect `json:"rect"`
	Path string    `json:"path"`
}

// PageCount returns the number of planned pages.
func (s *Sheet) PageCount() int {
	return len(s.Pages)
}

// DegradedCells returns how many cells overflowed even at their minimum
// font size. Degraded fits are accepted, not errors; callers surface the
// count as a diagnostic.
func (s *Sheet) DegradedCells() int {
	n := 0
	for _, p := range s.Pages {
		for _, c := range p.Cells {
			if c.Degraded {
				n++
			}
		}
	}
	return n
}

// =============================================================================
// Drawing
// =============================================================================

// Draw replays sheet onto s. The measurer supplies string widths for
// horizontal centering and must be the one the sheet was built with, or
// centering will drift.
//
// Draw issues calls for one page at a time and leaves the surface's
// transform state balanced; it never fails, deferring I/O errors to the
// surface's own finalizer.
func Draw(s Surface, sheet *Sheet, m text.Measurer) {
	d := drawer{surface: s, measurer: m}
	for i := range sheet.Pages {
		d.page(&sheet.Pages[i])
	}
}

// drawer tracks the font last set on the surface so repeated marks don't
// re-select it.
type drawer struct {
	surface  Surface
	measurer text.Measurer

	face string
	size float64
}

func (d *drawer) setFont(face string, size float64) {
	if d.face == face && d.size == size {
		return
	}
	d.surface.SetFont(face, size)
	d.face, d.size = face, size
}

func (d *drawer) page(p *Page) {
	d.surface.NewPage()

	for _, b := range p.Boxes {
		d.surface.SetLineWidth(b.Stroke)
		d.surface.Rect(b.Rect)
	}
	for _, r := range p.Rules {
		d.surface.SetLineWidth(r.Stroke)
		d.surface.Line(r.From.X, r.From.Y, r.To.X, r.To.Y)
	}
	for i := range p.Cells {
		d.cell(&p.Cells[i])
	}
	for _, mk := range p.Marks {
		d.setFont(mk.Face, float64(mk.Size))
		tw := d.measurer.Measure(mk.Text, mk.Face, float64(mk.Size))
		d.surface.Text(mk.X-tw/2, mk.Y, mk.Text)
	}
	for _, im := range p.Images {
		d.surface.Image(im.Path, im.Rect)
	}
}

// cell draws one fitted text cell. The font is selected before the state
// save so the surface's font state survives the restore. In rotated mode
// the clip is applied first, in page coordinates, then the frame moves to
// the cell center and turns a quarter turn, and the lines are laid out in
// a rect of swapped dimensions. Text then reads bottom-to-top on the page.
func (d *drawer) cell(c *Cell) {
	d.setFont(c.Face, float64(c.Size))

	saved := c.Clipped || c.Rotated
	if saved {
		d.surface.Save()
	}
	if c.Clipped {
		d.surface.Clip(c.Rect)
	}

	r := c.Rect
	if c.Rotated {
		d.surface.Translate(r.CenterX(), r.CenterY())
		d.surface.Rotate(90)
		r = geom.Rect{X: -r.H / 2, Y: -r.W / 2, W: r.H, H: r.W}
	}

	lineH := float64(c.Size) + c.LineGap
	totalH := float64(len(c.Lines)) * lineH
	startY := r.Y + (r.H+totalH)/2 - lineH

	for i, line := range c.Lines {
		line = strings.TrimSpace(line)
		tx := r.X + c.Padding
		if c.Center {
			tw := d.measurer.Measure(line, c.Face, float64(c.Size))
			tx = r.X + (r.W-tw)/2
		}
		d.surface.Text(tx, startY-float64(i)*lineH, line)
	}

	if saved {
		d.surface.Restore()
	}
}

// Package pdf implements a render.Surface backed by go-pdf/fpdf,
// producing print-ready PDF bytes at the sheet's physical page size.
//
// The surface keeps its own transform matrix in bottom-left y-up page
// coordinates and converts each primitive to fpdf's top-left y-down frame
// on the way out. fpdf's graphics-state stack is only used for clipping;
// rectangles and lines stay axis-aligned under the quarter-turn rotations
// the planner emits, so they are transformed point-wise instead.
package pdf

import (
	"bytes"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/geom"
)

// Surface writes drawing operations into an in-memory PDF document.
// Create one per render; it is not safe for concurrent use.
type Surface struct {
	doc   *fpdf.Fpdf
	table *fonts.Table
	pageH float64

	ctm   geom.Affine
	stack []savedState
	clips int // clips opened since the last Save
}

type savedState struct {
	ctm   geom.Affine
	clips int
}

// NewSurface returns a PDF surface for pageW×pageH point pages. Faces with
// registered TTF files are embedded under their table keys; everything
// else maps onto the built-in standard fonts.
func NewSurface(pageW, pageH float64, table *fonts.Table) *Surface {
	if table == nil {
		table = fonts.NewTable()
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCellMargin(0)
	for _, key := range table.Registered() {
		doc.AddUTF8Font(key, "", table.Face(key).Path)
	}

	return &Surface{doc: doc, table: table, pageH: pageH, ctm: geom.Identity()}
}

// SetTitle stamps the document title into the PDF metadata.
func (s *Surface) SetTitle(title string) {
	s.doc.SetTitle(title, true)
}

// NewPage starts the next page.
func (s *Surface) NewPage() {
	s.doc.AddPage()
}

// SetFont selects the face registered under key in the font table. Keys
// without an embedded file fall back to the standard font matching their
// family.
func (s *Surface) SetFont(key string, size float64) {
	family, style := s.fontFor(key)
	s.doc.SetFont(family, style, size)
}

func (s *Surface) fontFor(key string) (family, style string) {
	f := s.table.Face(key)
	if f.Path != "" {
		return key, ""
	}
	switch f.Family {
	case fonts.HelveticaBold:
		return "Helvetica", "B"
	case fonts.Courier:
		return "Courier", ""
	default:
		return "Helvetica", ""
	}
}

// SetLineWidth sets the stroke width in points.
func (s *Surface) SetLineWidth(w float64) {
	s.doc.SetLineWidth(w)
}

// Text draws s with its baseline starting at (x, y). When the current
// transform carries a rotation, the string is drawn inside an fpdf
// transform block rotated about the anchor point.
func (s *Surface) Text(x, y float64, str string) {
	px, py := s.ctm.Apply(x, y)
	fx, fy := px, s.pageH-py

	deg := s.ctm.Rotation()
	if math.Abs(deg) < 1e-9 {
		s.doc.Text(fx, fy, str)
		return
	}
	s.doc.TransformBegin()
	s.doc.TransformRotate(deg, fx, fy)
	s.doc.Text(fx, fy, str)
	s.doc.TransformEnd()
}

// Rect strokes the outline of r.
func (s *Surface) Rect(r geom.Rect) {
	left, bottom, w, h := s.pageRect(r)
	s.doc.Rect(left, s.pageH-(bottom+h), w, h, "D")
}

// Line strokes a segment between two points.
func (s *Surface) Line(x1, y1, x2, y2 float64) {
	px1, py1 := s.ctm.Apply(x1, y1)
	px2, py2 := s.ctm.Apply(x2, y2)
	s.doc.Line(px1, s.pageH-py1, px2, s.pageH-py2)
}

// Image draws the file at path into r, scaled to fit and centered. The
// file must be readable; a broken file surfaces through Bytes.
func (s *Surface) Image(path string, r geom.Rect) {
	opts := fpdf.ImageOptions{ReadDpi: true}
	info := s.doc.RegisterImageOptions(path, opts)
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		return
	}

	left, bottom, w, h := s.pageRect(r)
	scale := math.Min(w/info.Width(), h/info.Height())
	iw, ih := info.Width()*scale, info.Height()*scale
	ix := left + (w-iw)/2
	iy := bottom + (h-ih)/2
	s.doc.ImageOptions(path, ix, s.pageH-(iy+ih), iw, ih, false, opts, 0, "")
}

// Save pushes the transform and clip state.
func (s *Surface) Save() {
	s.stack = append(s.stack, savedState{ctm: s.ctm, clips: s.clips})
	s.clips = 0
}

// Restore closes the clips opened since the matching Save and restores the
// transform.
func (s *Surface) Restore() {
	for i := 0; i < s.clips; i++ {
		s.doc.ClipEnd()
	}
	top := s.stack[len(s.stack)-1]
	s.ctm, s.clips = top.ctm, top.clips
	s.stack = s.stack[:len(s.stack)-1]
}

// Translate moves the origin by (dx, dy).
func (s *Surface) Translate(dx, dy float64) {
	s.ctm = s.ctm.Mul(geom.Translated(dx, dy))
}

// Rotate turns the frame deg degrees counter-clockwise.
func (s *Surface) Rotate(deg float64) {
	s.ctm = s.ctm.Mul(geom.Rotated(deg))
}

// Clip restricts drawing to r until the enclosing Restore.
func (s *Surface) Clip(r geom.Rect) {
	left, bottom, w, h := s.pageRect(r)
	s.doc.ClipRect(left, s.pageH-(bottom+h), w, h, false)
	s.clips++
}

// pageRect transforms r into untransformed page coordinates. Rotations
// come in quarter turns, so opposite corners still span the rectangle.
func (s *Surface) pageRect(r geom.Rect) (left, bottom, w, h float64) {
	x1, y1 := s.ctm.Apply(r.X, r.Y)
	x2, y2 := s.ctm.Apply(r.Right(), r.Top())
	left = math.Min(x1, x2)
	bottom = math.Min(y1, y2)
	return left, bottom, math.Abs(x2 - x1), math.Abs(y2 - y1)
}

// Bytes finalizes the document and returns it. Errors collected by fpdf
// during drawing, such as an unreadable image or font file, surface here.
func (s *Surface) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.doc.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "assembling pdf")
	}
	return buf.Bytes(), nil
}

// Package raster implements a render.Surface backed by fogleman/gg,
// producing PNG bytes for previews and thumbnails.
//
// The context carries a base transform that scales points to pixels and
// flips the page so user coordinates stay bottom-left y-up. Glyphs would
// be mirrored by that flip, so text draws through a local counter-flip
// with faces loaded at device resolution, which keeps strokes crisp at
// any scale factor.
package raster

import (
	"bytes"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/geom"
)

// Surface rasterizes drawing operations into a single page image. It
// holds one page at a time; a second NewPage clears the canvas, so
// callers render multi-page sheets one page per surface.
type Surface struct {
	dc    *gg.Context
	table *fonts.Table
	pageH float64
	scale float64

	faces  map[faceKey]font.Face
	parsed map[string]*truetype.Font
	err    error
}

type faceKey struct {
	key  string
	size float64
}

// NewSurface returns a raster surface for pageW×pageH point pages at
// scale pixels per point.
func NewSurface(pageW, pageH, scale float64, table *fonts.Table) *Surface {
	if scale <= 0 {
		scale = 1
	}
	if table == nil {
		table = fonts.NewTable()
	}

	w := int(math.Ceil(pageW * scale))
	h := int(math.Ceil(pageH * scale))
	return &Surface{
		dc:     gg.NewContext(w, h),
		table:  table,
		pageH:  pageH,
		scale:  scale,
		faces:  make(map[faceKey]font.Face),
		parsed: make(map[string]*truetype.Font),
	}
}

// NewPage clears the canvas to white and resets the transform to the
// point-to-pixel base.
func (s *Surface) NewPage() {
	s.dc.Identity()
	s.dc.ResetClip()
	s.dc.SetRGB(1, 1, 1)
	s.dc.Clear()
	s.dc.SetRGB(0, 0, 0)

	s.dc.Scale(s.scale, s.scale)
	s.dc.Translate(0, s.pageH)
	s.dc.Scale(1, -1)
}

// SetFont selects the face registered under key, loading it at device
// resolution for the current scale.
func (s *Surface) SetFont(key string, size float64) {
	s.dc.SetFontFace(s.faceFor(key, size))
}

func (s *Surface) faceFor(key string, size float64) font.Face {
	fk := faceKey{key: key, size: size}
	if f, ok := s.faces[fk]; ok {
		return f
	}
	f := truetype.NewFace(s.fontFor(key), &truetype.Options{Size: size * s.scale})
	s.faces[fk] = f
	return f
}

func (s *Surface) fontFor(key string) *truetype.Font {
	if f, ok := s.parsed[key]; ok {
		return f
	}
	f := parseFont(s.table.Face(key))
	s.parsed[key] = f
	return f
}

// parseFont loads the face's TTF file, or the bundled Go font matching its
// family. A face that fails to load falls back to the regular Go font
// rather than failing the render.
func parseFont(face fonts.Face) *truetype.Font {
	if face.Path != "" {
		if data, err := os.ReadFile(face.Path); err == nil {
			if f, err := truetype.Parse(data); err == nil {
				return f
			}
		}
	}

	var data []byte
	switch face.Family {
	case fonts.HelveticaBold:
		data = gobold.TTF
	case fonts.Courier:
		data = gomono.TTF
	default:
		data = goregular.TTF
	}
	f, _ := truetype.Parse(data) // the bundled Go fonts always parse
	return f
}

// SetLineWidth sets the stroke width in points.
func (s *Surface) SetLineWidth(w float64) {
	s.dc.SetLineWidth(w * s.scale)
}

// Text draws str with its baseline starting at (x, y). The local
// counter-flip cancels the page flip for the glyph images and converts
// the device-resolution face back to point sizing.
func (s *Surface) Text(x, y float64, str string) {
	s.dc.Push()
	s.dc.Translate(x, y)
	s.dc.Scale(1/s.scale, -1/s.scale)
	s.dc.DrawString(str, 0, 0)
	s.dc.Pop()
}

// Rect strokes the outline of r.
func (s *Surface) Rect(r geom.Rect) {
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Stroke()
}

// Line strokes a segment between two points.
func (s *Surface) Line(x1, y1, x2, y2 float64) {
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

// Image draws the file at path into r, scaled to fit and centered. A file
// that fails to load skips the cell and surfaces the error at Bytes.
func (s *Surface) Image(path string, r geom.Rect) {
	im, err := gg.LoadImage(path)
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return
	}

	b := im.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw <= 0 || ih <= 0 {
		return
	}
	fit := math.Min(r.W/iw, r.H/ih)
	w, h := iw*fit, ih*fit

	s.dc.Push()
	s.dc.Translate(r.X+(r.W-w)/2, r.Y+(r.H-h)/2+h)
	s.dc.Scale(fit, -fit)
	s.dc.DrawImage(im, 0, 0)
	s.dc.Pop()
}

// Save pushes the transform and clip state.
func (s *Surface) Save() {
	s.dc.Push()
}

// Restore pops to the matching Save.
func (s *Surface) Restore() {
	s.dc.Pop()
}

// Translate moves the origin by (dx, dy).
func (s *Surface) Translate(dx, dy float64) {
	s.dc.Translate(dx, dy)
}

// Rotate turns the frame deg degrees counter-clockwise.
func (s *Surface) Rotate(deg float64) {
	s.dc.Rotate(gg.Radians(deg))
}

// Clip restricts drawing to r until the enclosing Restore.
func (s *Surface) Clip(r geom.Rect) {
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Clip()
}

// Bytes encodes the current page as PNG.
func (s *Surface) Bytes() ([]byte, error) {
	if s.err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, s.err, "rendering png")
	}
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding png")
	}
	return buf.Bytes(), nil
}

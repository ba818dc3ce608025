package sink

import (
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/render"
	"github.com/labelpress/labelpress/pkg/render/raster"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	fonts *fonts.Table
	scale float64
	page  int
}

// WithPNGFonts sets the font table used for glyphs and centering. Pass
// the table the sheet was built with.
func WithPNGFonts(t *fonts.Table) PNGOption {
	return func(r *pngRenderer) { r.fonts = t }
}

// WithScale sets the PNG scale factor in pixels per point (default 2.0
// for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPage selects the 1-based page to rasterize (default the first).
func WithPage(n int) PNGOption {
	return func(r *pngRenderer) { r.page = n }
}

// RenderPNG renders one page of the planned sheet as a PNG image.
func RenderPNG(sheet *render.Sheet, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{fonts: fonts.NewTable(), scale: 2.0, page: 1}
	for _, opt := range opts {
		opt(&r)
	}

	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", r.scale)
	}
	if r.page < 1 || r.page > sheet.PageCount() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"page %d is out of range, the sheet has %d", r.page, sheet.PageCount())
	}

	single := &render.Sheet{
		Title: sheet.Title,
		PageW: sheet.PageW,
		PageH: sheet.PageH,
		Pages: sheet.Pages[r.page-1 : r.page],
	}

	s := raster.NewSurface(sheet.PageW, sheet.PageH, r.scale, r.fonts)
	render.Draw(s, single, r.fonts)
	return s.Bytes()
}

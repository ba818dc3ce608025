package sink

import (
	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/render"
	"github.com/labelpress/labelpress/pkg/render/pdf"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	fonts *fonts.Table
}

// WithPDFFonts sets the font table used for embedding and centering. Pass
// the table the sheet was built with; the default table has no registered
// TTF files.
func WithPDFFonts(t *fonts.Table) PDFOption {
	return func(r *pdfRenderer) { r.fonts = t }
}

// RenderPDF renders the planned sheet as a PDF document.
func RenderPDF(sheet *render.Sheet, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{fonts: fonts.NewTable()}
	for _, opt := range opts {
		opt(&r)
	}

	s := pdf.NewSurface(sheet.PageW, sheet.PageH, r.fonts)
	if sheet.Title != "" {
		s.SetTitle(sheet.Title)
	}
	render.Draw(s, sheet, r.fonts)
	return s.Bytes()
}

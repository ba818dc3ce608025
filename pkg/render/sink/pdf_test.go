package sink

import (
	"bytes"
	"testing"
)

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(testSheet())
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output starts with %q, want a PDF header", data[:min(8, len(data))])
	}
}

func TestRenderPDFEmptySheet(t *testing.T) {
	sheet := testSheet()
	sheet.Pages = nil

	// A zero-page document still assembles; callers decide whether an
	// empty dataset is an error before rendering.
	if _, err := RenderPDF(sheet); err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
}

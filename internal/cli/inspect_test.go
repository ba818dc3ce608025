package cli

import (
	"testing"

	"github.com/labelpress/labelpress/pkg/render"
)

func TestBuildInspection(t *testing.T) {
	sheet := &render.Sheet{
		Pages: []render.Page{
			{Cells: []render.Cell{
				{Text: "sw-01", Size: 11},
				{Text: "a-very-long-hostname", Size: 6, Degraded: true},
			}},
			{Cells: []render.Cell{
				{Text: "sw-02", Size: 9},
			}},
		},
	}

	report := buildInspection(sheet, "builtin", 3)

	if report.Records != 3 {
		t.Errorf("Records = %d, want 3", report.Records)
	}
	if report.Pages != 2 {
		t.Errorf("Pages = %d, want 2", report.Pages)
	}
	if report.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", report.Degraded)
	}
	if report.MinSize != 6 || report.MaxSize != 11 {
		t.Errorf("font size range = %d–%d, want 6–11", report.MinSize, report.MaxSize)
	}

	if len(report.Overflow) != 1 {
		t.Fatalf("Overflow = %v, want one entry", report.Overflow)
	}
	if report.Overflow[0].Page != 1 || report.Overflow[0].Text != "a-very-long-hostname" {
		t.Errorf("Overflow[0] = %+v, want page 1 / long hostname", report.Overflow[0])
	}
}

func TestBuildInspectionEmptySheet(t *testing.T) {
	report := buildInspection(&render.Sheet{}, "builtin", 0)

	if report.Pages != 0 || report.Degraded != 0 {
		t.Errorf("empty sheet report = %+v, want zero pages and degraded", report)
	}
	if report.MinSize != 0 || report.MaxSize != 0 {
		t.Errorf("empty sheet should have no font size range, got %d–%d", report.MinSize, report.MaxSize)
	}
	if len(report.Overflow) != 0 {
		t.Errorf("empty sheet should have no overflow entries")
	}
}

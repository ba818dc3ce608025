package cli

import (
	"io"
	"testing"
)

func TestSheetBaseName(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		image string
		want  string
	}{
		{"plain text", "230V", "", "230V_sheet"},
		{"text with spaces", "Main Feed", "", "Main_Feed_sheet"},
		{"symbol-only text falls back", "Ω", "", "symbol_sheet"},
		{"image name wins", "ignored", "warn.png", "warn_sheet"},
		{"image path stripped", "", "/tmp/icons/earth.png", "earth_sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sheetBaseName(tt.text, tt.image); got != tt.want {
				t.Errorf("sheetBaseName(%q, %q) = %q, want %q", tt.text, tt.image, got, tt.want)
			}
		})
	}
}

func TestSheetBaseNameTruncates(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	got := sheetBaseName(long, "")
	if len(got) > len("_sheet")+24 {
		t.Errorf("sheetBaseName(long) = %q, base should be capped at 24 chars", got)
	}
}

func TestSheetCommandRequiresSymbol(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"sheet", "--no-cache"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err == nil {
		t.Error("sheet without text, --image, or --pick should fail")
	}
}

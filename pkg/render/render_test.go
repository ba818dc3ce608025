package render

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/geom"
	"github.com/labelpress/labelpress/pkg/layout"
	"github.com/labelpress/labelpress/pkg/text"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ruleMeasurer gives every rune a width of half the font size, so expected
// coordinates stay hand-computable.
type ruleMeasurer struct{}

func (ruleMeasurer) Measure(s, face string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size / 2
}

type surfaceText struct {
	X, Y  float64
	S     string
	Face  string
	Size  float64
	Angle float64
}

type surfaceClip struct {
	Rect geom.Rect
	CTM  geom.Affine
}

type surfaceImage struct {
	Path string
	Rect geom.Rect
}

// recordingSurface resolves every draw call through its current transform
// and records the result, standing in for a real page so tests can assert
// final coordinates and call order.
type recordingSurface struct {
	ctm   geom.Affine
	stack []geom.Affine

	face  string
	size  float64
	width float64

	pages  int
	ops    []string
	texts  []surfaceText
	rects  []geom.Rect
	lines  [][4]float64
	clips  []surfaceClip
	images []surfaceImage
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{ctm: geom.Identity()}
}

func (r *recordingSurface) NewPage() {
	r.ops = append(r.ops, "NewPage")
	r.pages++
}

func (r *recordingSurface) SetFont(face string, size float64) {
	r.ops = append(r.ops, "SetFont")
	r.face, r.size = face, size
}

func (r *recordingSurface) SetLineWidth(w float64) {
	r.ops = append(r.ops, "SetLineWidth")
	r.width = w
}

func (r *recordingSurface) Text(x, y float64, s string) {
	r.ops = append(r.ops, "Text")
	px, py := r.ctm.Apply(x, y)
	r.texts = append(r.texts, surfaceText{
		X: px, Y: py, S: s,
		Face: r.face, Size: r.size,
		Angle: r.ctm.Rotation(),
	})
}

func (r *recordingSurface) Rect(rc geom.Rect) {
	r.ops = append(r.ops, "Rect")
	r.rects = append(r.rects, rc)
}

func (r *recordingSurface) Line(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, "Line")
	r.lines = append(r.lines, [4]float64{x1, y1, x2, y2})
}

func (r *recordingSurface) Image(path string, rc geom.Rect) {
	r.ops = append(r.ops, "Image")
	r.images = append(r.images, surfaceImage{Path: path, Rect: rc})
}

func (r *recordingSurface) Save() {
	r.ops = append(r.ops, "Save")
	r.stack = append(r.stack, r.ctm)
}

func (r *recordingSurface) Restore() {
	r.ops = append(r.ops, "Restore")
	r.ctm = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *recordingSurface) Translate(dx, dy float64) {
	r.ops = append(r.ops, "Translate")
	r.ctm = r.ctm.Mul(geom.Translated(dx, dy))
}

func (r *recordingSurface) Rotate(deg float64) {
	r.ops = append(r.ops, "Rotate")
	r.ctm = r.ctm.Mul(geom.Rotated(deg))
}

func (r *recordingSurface) Clip(rc geom.Rect) {
	r.ops = append(r.ops, "Clip")
	r.clips = append(r.clips, surfaceClip{Rect: rc, CTM: r.ctm})
}

type mapRecord map[string]string

func (r mapRecord) Field(name string) string { return r[name] }

// testLabelSheet is a two-column cut of the stock 4×6" template, small
// enough that every coordinate below can be computed by hand.
func testLabelSheet() LabelSheet {
	return LabelSheet{
		PageW:          288,
		PageH:          432,
		Margin:         7.2,
		Blocks:         3,
		BlockGap:       6,
		HeaderRatio:    0.22,
		ThinStroke:     0.8,
		ThickStroke:    1.6,
		Padding:        3.5,
		LineGap:        1.5,
		MaxLines:       3,
		Font:           string(fonts.HelveticaBold),
		HeaderPolicy:   text.Fixed(10),
		HeaderMaxLines: 1,
		Columns: []Column{
			{Name: "IP", Weight: 1, Policy: text.Bounded(6, 11)},
			{Name: "Host", Weight: 1, Policy: text.Fixed(8)},
		},
	}
}

func testSymbolSheet() SymbolSheet {
	return SymbolSheet{
		PageW: 95 * geom.Mm,
		PageH: 150 * geom.Mm,
		Grid: layout.Grid{
			Cols:       9,
			Rows:       3,
			CellW:      10 * geom.Mm,
			CellH:      50 * geom.Mm,
			MarginLeft: 2.5 * geom.Mm,
		},
		Stroke:     0.7,
		Boxes:      true,
		BaseSize:   18,
		MultiScale: 0.75,
	}
}

func TestBuildLabelsGeometry(t *testing.T) {
	spec := testLabelSheet()
	records := []Record{mapRecord{"IP": "10.0.0.1", "Host": "web-01"}}

	sheet, err := BuildLabels(spec, records, ruleMeasurer{})
	if err != nil {
		t.Fatalf("BuildLabels() error = %v", err)
	}
	if sheet.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", sheet.PageCount())
	}

	contentY := 7.2
	contentW := 288 - 2*7.2
	blockH := (432 - 2*7.2 - 2*6.0) / 3
	blockY := contentY + 2*(blockH+6.0)
	headerH := blockH * 0.22
	yHeader := blockY + blockH - headerH
	colW := contentW / 2

	page := sheet.Pages[0]

	// One outer box for the occupied block, two for the empty remainder.
	if len(page.Boxes) != 3 {
		t.Fatalf("len(Boxes) = %d, want 3", len(page.Boxes))
	}
	if got := page.Boxes[0].Rect; !almostEqual(got.Y, blockY) || !almostEqual(got.H, blockH) {
		t.Errorf("block box = %+v, want Y=%v H=%v", got, blockY, blockH)
	}
	for i, b := range page.Boxes {
		if b.Stroke != 0.8 {
			t.Errorf("Boxes[%d].Stroke = %v, want 0.8", i, b.Stroke)
		}
	}

	// Thick header divider plus one thin column rule.
	if len(page.Rules) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(page.Rules))
	}
	div := page.Rules[0]
	if div.Stroke != 1.6 {
		t.Errorf("divider stroke = %v, want 1.6", div.Stroke)
	}
	if !almostEqual(div.From.Y, yHeader) || !almostEqual(div.To.Y, yHeader) {
		t.Errorf("divider at y=%v..%v, want %v", div.From.Y, div.To.Y, yHeader)
	}
	if !almostEqual(div.From.X, 7.2) || !almostEqual(div.To.X, 7.2+contentW) {
		t.Errorf("divider spans x=%v..%v, want %v..%v", div.From.X, div.To.X, 7.2, 7.2+contentW)
	}
	sep := page.Rules[1]
	if !almostEqual(sep.From.X, 7.2+colW) || !almostEqual(sep.From.Y, blockY) || !almostEqual(sep.To.Y, blockY+blockH) {
		t.Errorf("column rule = %+v, want x=%v spanning the block height", sep, 7.2+colW)
	}

	// Two header cells then two value cells.
	if len(page.Cells) != 4 {
		t.Fatalf("len(Cells) = %d, want 4", len(page.Cells))
	}
	head := page.Cells[0]
	if head.Text != "IP" || head.Size != 10 {
		t.Errorf("header cell = %q size %d, want \"IP\" size 10", head.Text, head.Size)
	}
	if !almostEqual(head.Rect.Y, yHeader) || !almostEqual(head.Rect.H, headerH) || !almostEqual(head.Rect.W, colW) {
		t.Errorf("header rect = %+v, want Y=%v H=%v W=%v", head.Rect, yHeader, headerH, colW)
	}
	val := page.Cells[2]
	if val.Text != "10.0.0.1" {
		t.Errorf("value cell text = %q, want %q", val.Text, "10.0.0.1")
	}
	if val.Size != 11 {
		t.Errorf("value size = %d, want 11 (largest bounded size that fits)", val.Size)
	}
	if !almostEqual(val.Rect.Y, blockY) || !almostEqual(val.Rect.H, blockH-headerH) {
		t.Errorf("value rect = %+v, want Y=%v H=%v", val.Rect, blockY, blockH-headerH)
	}
	if fixed := page.Cells[3]; fixed.Size != 8 {
		t.Errorf("fixed-policy value size = %d, want 8", fixed.Size)
	}
	for i, c := range page.Cells {
		if !c.Rotated || !c.Clipped || !c.Center {
			t.Errorf("Cells[%d] flags = rotated %v clipped %v center %v, want all true", i, c.Rotated, c.Clipped, c.Center)
		}
	}
}

func TestBuildLabelsPagination(t *testing.T) {
	spec := testLabelSheet()

	records := []Record{
		mapRecord{"IP": "10.0.0.1"},
		mapRecord{"IP": "10.0.0.2"},
		mapRecord{"IP": "10.0.0.3"},
		mapRecord{"IP": "10.0.0.4"},
	}
	sheet, err := BuildLabels(spec, records, ruleMeasurer{})
	if err != nil {
		t.Fatalf("BuildLabels() error = %v", err)
	}
	if sheet.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", sheet.PageCount())
	}
	if got := len(sheet.Pages[0].Cells); got != 12 {
		t.Errorf("page 1 cells = %d, want 12", got)
	}
	// Last page: one occupied block, two empty bordered rects.
	if got := len(sheet.Pages[1].Cells); got != 4 {
		t.Errorf("page 2 cells = %d, want 4", got)
	}
	if got := len(sheet.Pages[1].Boxes); got != 3 {
		t.Errorf("page 2 boxes = %d, want 3", got)
	}

	empty, err := BuildLabels(spec, nil, ruleMeasurer{})
	if err != nil {
		t.Fatalf("BuildLabels(no records) error = %v", err)
	}
	if empty.PageCount() != 0 {
		t.Errorf("PageCount() with no records = %d, want 0", empty.PageCount())
	}
}

func TestBuildLabelsAbsentField(t *testing.T) {
	sheet, err := BuildLabels(testLabelSheet(), []Record{mapRecord{"IP": "10.0.0.1"}}, ruleMeasurer{})
	if err != nil {
		t.Fatalf("BuildLabels() error = %v", err)
	}

	host := sheet.Pages[0].Cells[3]
	if host.Text != "" {
		t.Errorf("absent field text = %q, want empty", host.Text)
	}
	if len(host.Lines) != 1 || host.Lines[0] != "" {
		t.Errorf("absent field lines = %q, want one empty line", host.Lines)
	}
}

func TestBuildLabelsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LabelSheet)
		want   errors.Code
	}{
		{
			name:   "zero page width",
			mutate: func(s *LabelSheet) { s.PageW = 0 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "negative margin",
			mutate: func(s *LabelSheet) { s.Margin = -1 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "zero blocks",
			mutate: func(s *LabelSheet) { s.Blocks = 0 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "header ratio of one",
			mutate: func(s *LabelSheet) { s.HeaderRatio = 1 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "no columns",
			mutate: func(s *LabelSheet) { s.Columns = nil },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "zero weight",
			mutate: func(s *LabelSheet) { s.Columns[0].Weight = 0 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "blank column name",
			mutate: func(s *LabelSheet) { s.Columns[0].Name = "  " },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "size range below one",
			mutate: func(s *LabelSheet) { s.Columns[0].Policy = text.Bounded(0, 5) },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "inverted size range",
			mutate: func(s *LabelSheet) { s.Columns[0].Policy = text.Bounded(13, 6) },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "blocks taller than the page",
			mutate: func(s *LabelSheet) { s.BlockGap = 300 },
			want:   errors.ErrCodeGridBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testLabelSheet()
			tt.mutate(&spec)
			_, err := BuildLabels(spec, []Record{mapRecord{}}, ruleMeasurer{})
			if err == nil {
				t.Fatal("BuildLabels() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildLabelsDegradedFit(t *testing.T) {
	spec := LabelSheet{
		PageW:          20,
		PageH:          20,
		Margin:         0,
		Blocks:         1,
		HeaderRatio:    0.5,
		ThinStroke:     0.8,
		ThickStroke:    1.6,
		Padding:        3.5,
		LineGap:        1.5,
		MaxLines:       3,
		Font:           string(fonts.HelveticaBold),
		HeaderPolicy:   text.Fixed(10),
		HeaderMaxLines: 1,
		Columns: []Column{
			{Name: "A", Weight: 1, Policy: text.Bounded(6, 40)},
			{Name: "B", Weight: 1, Policy: text.Bounded(6, 40)},
		},
	}
	records := []Record{mapRecord{"A": "WWWWWWWWWW"}}

	sheet, err := BuildLabels(spec, records, fonts.NewTable())
	if err != nil {
		t.Fatalf("BuildLabels() error = %v, want degraded fit instead of failure", err)
	}

	val := sheet.Pages[0].Cells[2]
	if val.Size != 6 {
		t.Errorf("degraded size = %d, want the minimum 6", val.Size)
	}
	if !val.Degraded {
		t.Error("Degraded = false, want true")
	}
	if sheet.DegradedCells() == 0 {
		t.Error("DegradedCells() = 0, want at least the overflowing value cell")
	}
}

func TestDrawCenteringIdempotence(t *testing.T) {
	sheet, err := BuildLabels(testLabelSheet(), []Record{mapRecord{"IP": "10.0.0.1", "Host": "web-01"}}, ruleMeasurer{})
	if err != nil {
		t.Fatalf("BuildLabels() error = %v", err)
	}

	first := newRecordingSurface()
	second := newRecordingSurface()
	Draw(first, sheet, ruleMeasurer{})
	Draw(second, sheet, ruleMeasurer{})

	if len(first.texts) == 0 {
		t.Fatal("no text drawn")
	}
	if len(first.texts) != len(second.texts) {
		t.Fatalf("draw counts differ: %d vs %d", len(first.texts), len(second.texts))
	}
	for i := range first.texts {
		if first.texts[i] != second.texts[i] {
			t.Errorf("texts[%d] differs between identical draws: %+v vs %+v", i, first.texts[i], second.texts[i])
		}
	}
}

// rotationCells returns the same two-line cell twice: once rotated in
// place on the page, once unrotated with swapped dimensions centered on
// the origin. Drawing the second matches the first under the inverse of
// the rotation transform.
func rotationCells() (rotated, flat Cell) {
	rotated = Cell{
		Rect:    geom.Rect{X: 10, Y: 20, W: 40, H: 90},
		Text:    "ab cd",
		Face:    string(fonts.HelveticaBold),
		Size:    8,
		Lines:   []string{"ab", "cd"},
		Padding: 3.5,
		LineGap: 1.5,
		Center:  true,
		Rotated: true,
		Clipped: true,
	}
	flat = rotated
	flat.Rect = geom.Rect{X: -45, Y: -20, W: 90, H: 40}
	flat.Rotated = false
	flat.Clipped = false
	return rotated, flat
}

func TestDrawRotationRoundTrip(t *testing.T) {
	rotated, flat := rotationCells()
	rotSheet := &Sheet{PageW: 100, PageH: 200, Pages: []Page{{Cells: []Cell{rotated}}}}
	flatSheet := &Sheet{PageW: 100, PageH: 200, Pages: []Page{{Cells: []Cell{flat}}}}

	rs := newRecordingSurface()
	fs := newRecordingSurface()
	Draw(rs, rotSheet, ruleMeasurer{})
	Draw(fs, flatSheet, ruleMeasurer{})

	if len(rs.texts) != len(fs.texts) || len(rs.texts) != 2 {
		t.Fatalf("text counts = %d and %d, want 2 and 2", len(rs.texts), len(fs.texts))
	}

	center := rotated.Rect.Center()
	inv := geom.Translated(center.X, center.Y).Mul(geom.Rotated(90)).Invert()
	for i := range rs.texts {
		if !almostEqual(rs.texts[i].Angle, 90) {
			t.Errorf("texts[%d].Angle = %v, want 90", i, rs.texts[i].Angle)
		}
		gx, gy := inv.Apply(rs.texts[i].X, rs.texts[i].Y)
		if !almostEqual(gx, fs.texts[i].X) || !almostEqual(gy, fs.texts[i].Y) {
			t.Errorf("texts[%d] unrotates to (%v, %v), want (%v, %v)",
				i, gx, gy, fs.texts[i].X, fs.texts[i].Y)
		}
	}
}

func TestDrawRotatedCellOps(t *testing.T) {
	rotated, _ := rotationCells()
	sheet := &Sheet{PageW: 100, PageH: 200, Pages: []Page{{Cells: []Cell{rotated}}}}

	rs := newRecordingSurface()
	Draw(rs, sheet, ruleMeasurer{})

	want := "NewPage SetFont Save Clip Translate Rotate Text Text Restore"
	if got := strings.Join(rs.ops, " "); got != want {
		t.Fatalf("ops = %q, want %q", got, want)
	}

	// The clip is applied in page coordinates, before the frame moves.
	clip := rs.clips[0]
	if clip.Rect != rotated.Rect {
		t.Errorf("clip rect = %+v, want the cell rect %+v", clip.Rect, rotated.Rect)
	}
	if x, y := clip.CTM.Apply(3, 4); !almostEqual(clip.CTM.Rotation(), 0) || !almostEqual(x, 3) || !almostEqual(y, 4) {
		t.Error("clip applied under a transformed frame, want page coordinates")
	}

	// Transform state is balanced after the draw.
	if len(rs.stack) != 0 {
		t.Errorf("transform stack depth = %d after draw, want 0", len(rs.stack))
	}
	if x, y := rs.ctm.Apply(3, 4); !almostEqual(x, 3) || !almostEqual(y, 4) {
		t.Error("transform not restored to identity after draw")
	}
}

func TestDrawFontSelectedOnce(t *testing.T) {
	sheet, err := BuildSymbols(testSymbolSheet(), TextItem("♣"), WithPages(2))
	if err != nil {
		t.Fatalf("BuildSymbols() error = %v", err)
	}

	rs := newRecordingSurface()
	Draw(rs, sheet, ruleMeasurer{})

	if rs.pages != 2 {
		t.Fatalf("pages drawn = %d, want 2", rs.pages)
	}
	setFonts := 0
	for _, op := range rs.ops {
		if op == "SetFont" {
			setFonts++
		}
	}
	if setFonts != 1 {
		t.Errorf("SetFont calls = %d, want 1 for a single face and size", setFonts)
	}
	if got := len(rs.texts); got != 2*9*3*4 {
		t.Errorf("texts drawn = %d, want %d", got, 2*9*3*4)
	}
}

func TestBuildSymbols(t *testing.T) {
	spec := testSymbolSheet()
	sheet, err := BuildSymbols(spec, TextItem("♣"))
	if err != nil {
		t.Fatalf("BuildSymbols() error = %v", err)
	}

	if want := "95x150mm - 9x3 - multipage"; sheet.Title != want {
		t.Errorf("Title = %q, want %q", sheet.Title, want)
	}
	if sheet.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", sheet.PageCount())
	}

	page := sheet.Pages[0]
	if got := len(page.Boxes); got != 27 {
		t.Errorf("boxes = %d, want 27", got)
	}
	if got := len(page.Marks); got != 27*DefaultRepeat {
		t.Fatalf("marks = %d, want %d", got, 27*DefaultRepeat)
	}
	for i, b := range page.Boxes {
		if b.Stroke != 0.7 {
			t.Fatalf("Boxes[%d].Stroke = %v, want 0.7", i, b.Stroke)
		}
	}

	// First cell, first repeat: centred in the top-left 10×50mm cell.
	padY := 0.08 * 50 * geom.Mm
	usable := 50*geom.Mm - 2*padY
	top := 150 * geom.Mm
	first := page.Marks[0]
	if !almostEqual(first.X, 7.5*geom.Mm) {
		t.Errorf("Marks[0].X = %v, want %v", first.X, 7.5*geom.Mm)
	}
	if want := top - padY - 0.35*18; !almostEqual(first.Y, want) {
		t.Errorf("Marks[0].Y = %v, want %v", first.Y, want)
	}
	if first.Face != fonts.KeySymbols || first.Size != 18 {
		t.Errorf("Marks[0] = face %q size %d, want %q size 18", first.Face, first.Size, fonts.KeySymbols)
	}

	// Last repeat in the same cell sits at the bottom of the usable band.
	last := page.Marks[DefaultRepeat-1]
	if want := top - padY - usable - 0.35*18; !almostEqual(last.Y, want) {
		t.Errorf("Marks[%d].Y = %v, want %v", DefaultRepeat-1, last.Y, want)
	}
}

func TestBuildSymbolsBengali(t *testing.T) {
	sheet, err := BuildSymbols(testSymbolSheet(), TextItem("ক"))
	if err != nil {
		t.Fatalf("BuildSymbols() error = %v", err)
	}
	if got := sheet.Pages[0].Marks[0].Face; got != fonts.KeyBengali {
		t.Errorf("face = %q, want %q", got, fonts.KeyBengali)
	}
}

func TestBuildSymbolsRepeatOne(t *testing.T) {
	spec := testSymbolSheet()
	sheet, err := BuildSymbols(spec, TextItem("♣"), WithRepeat(1))
	if err != nil {
		t.Fatalf("BuildSymbols() error = %v", err)
	}

	page := sheet.Pages[0]
	if got := len(page.Marks); got != 27 {
		t.Fatalf("marks = %d, want 27", got)
	}
	padY := 0.08 * 50 * geom.Mm
	usable := 50*geom.Mm - 2*padY
	want := 150*geom.Mm - padY - usable/2 - 0.35*18
	if !almostEqual(page.Marks[0].Y, want) {
		t.Errorf("single repeat Y = %v, want the cell middle %v", page.Marks[0].Y, want)
	}
}

func TestBuildSymbolsSizing(t *testing.T) {
	tests := []struct {
		name string
		text string
		base int
		want int
	}{
		{name: "single rune keeps base", text: "♣", base: 18, want: 18},
		{name: "multi rune scales down", text: "AB", base: 18, want: 14},
		{name: "scale floors at six", text: "ABC", base: 6, want: 6},
		{name: "surrounding space ignored", text: " X ", base: 18, want: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSymbolSheet()
			spec.BaseSize = tt.base
			sheet, err := BuildSymbols(spec, TextItem(tt.text))
			if err != nil {
				t.Fatalf("BuildSymbols() error = %v", err)
			}
			if got := sheet.Pages[0].Marks[0].Size; got != tt.want {
				t.Errorf("size = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildSymbolsImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	spec := testSymbolSheet()
	sheet, err := BuildSymbols(spec, ImageItem(path), WithPages(2))
	if err != nil {
		t.Fatalf("BuildSymbols() error = %v", err)
	}
	if sheet.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", sheet.PageCount())
	}

	page := sheet.Pages[0]
	if len(page.Marks) != 0 {
		t.Errorf("marks = %d, want 0 for an image item", len(page.Marks))
	}
	if got := len(page.Images); got != 27 {
		t.Fatalf("images = %d, want 27", got)
	}

	im := page.Images[0]
	if im.Path != path {
		t.Errorf("image path = %q, want %q", im.Path, path)
	}
	padX := 0.08 * 10 * geom.Mm
	padY := 0.08 * 50 * geom.Mm
	if !almostEqual(im.Rect.X, 2.5*geom.Mm+padX) || !almostEqual(im.Rect.W, 10*geom.Mm-2*padX) {
		t.Errorf("image rect = %+v, want the cell inset by %v horizontally", im.Rect, padX)
	}
	if !almostEqual(im.Rect.H, 50*geom.Mm-2*padY) {
		t.Errorf("image rect height = %v, want %v", im.Rect.H, 50*geom.Mm-2*padY)
	}
}

func TestBuildSymbolsMissingImage(t *testing.T) {
	_, err := BuildSymbols(testSymbolSheet(), ImageItem(filepath.Join(t.TempDir(), "missing.png")))
	if err == nil {
		t.Fatal("BuildSymbols() error = nil, want missing resource error")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeResourceMissing {
		t.Errorf("GetCode() = %v, want %v", got, errors.ErrCodeResourceMissing)
	}
}

func TestBuildSymbolsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SymbolSheet)
		item   Item
		opts   []SymbolOption
		want   errors.Code
	}{
		{
			name: "empty text",
			item: TextItem("   "),
			want: errors.ErrCodeInvalidInput,
		},
		{
			name: "zero pages",
			item: TextItem("♣"),
			opts: []SymbolOption{WithPages(0)},
			want: errors.ErrCodeInvalidInput,
		},
		{
			name: "zero repeat",
			item: TextItem("♣"),
			opts: []SymbolOption{WithRepeat(0)},
			want: errors.ErrCodeInvalidInput,
		},
		{
			name:   "zero base size",
			item:   TextItem("♣"),
			mutate: func(s *SymbolSheet) { s.BaseSize = 0 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "scale above one",
			item:   TextItem("♣"),
			mutate: func(s *SymbolSheet) { s.MultiScale = 1.5 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "boxes without stroke",
			item:   TextItem("♣"),
			mutate: func(s *SymbolSheet) { s.Stroke = 0 },
			want:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "grid wider than page",
			item:   TextItem("♣"),
			mutate: func(s *SymbolSheet) { s.Grid.MarginLeft = 20 * geom.Mm },
			want:   errors.ErrCodeGridBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSymbolSheet()
			if tt.mutate != nil {
				tt.mutate(&spec)
			}
			_, err := BuildSymbols(spec, tt.item, tt.opts...)
			if err == nil {
				t.Fatal("BuildSymbols() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

package fonts

// Metrics holds the measurement data for one face. Widths are in font
// units; a face with a nil width map is monospace at DefaultWidth.
type Metrics struct {
	UnitsPerEm   float64
	Ascent       float64
	Descent      float64
	DefaultWidth float64
	Widths       map[rune]float64
}

// Measure returns the width of s at the given point size. Runes without a
// table entry use the face's default width, so measurement is total: it
// never fails on unexpected input.
func (m *Metrics) Measure(s string, size float64) float64 {
	var units float64
	for _, r := range s {
		if w, ok := m.Widths[r]; ok {
			units += w
		} else {
			units += m.DefaultWidth
		}
	}
	return units * size / m.UnitsPerEm
}

// newCourier returns metrics for the monospace Courier face. Every glyph is
// 600 units wide.
func newCourier() *Metrics {
	return &Metrics{
		UnitsPerEm:   1000,
		Ascent:       629,
		Descent:      -157,
		DefaultWidth: 600,
	}
}

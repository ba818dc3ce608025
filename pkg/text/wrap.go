// Package text implements the measuring, wrapping, and font-size fitting
// that decides how label text occupies a cell.
//
// Everything here is pure: the same inputs always produce the same lines
// and sizes, and nothing touches a drawing surface. Rendering consumes the
// results.
package text

import "strings"

// Measurer returns the rendered width of text in the face registered under
// key at the given point size. fonts.Table satisfies this.
type Measurer interface {
	Measure(text, face string, size float64) float64
}

// Wrap splits text on whitespace and greedily packs words into lines whose
// measured width stays within maxWidth. Empty or whitespace-only input
// yields a single empty line, never zero lines. A single word wider than
// maxWidth is kept on its own line unsplit: labels favor whole words over
// broken ones, accepting horizontal overflow for pathological tokens.
func Wrap(m Measurer, text, face string, size, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 1)
	cur := words[0]
	for _, w := range words[1:] {
		candidate := cur + " " + w
		if m.Measure(candidate, face, size) <= maxWidth {
			cur = candidate
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	return append(lines, cur)
}

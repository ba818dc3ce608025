package text

// minUsable is the floor for usable cell dimensions during fitting, so a
// cell smaller than its own padding still gets a sane search box.
const minUsable = 6.0

// Policy selects how a field's font size is chosen: a fixed size that
// bypasses the search, or a bounded search range. The zero value is not a
// valid policy; construct with Fixed or Bounded.
type Policy struct {
	fixed    bool
	size     int
	min, max int
}

// Fixed returns a policy that always uses the given size.
func Fixed(size int) Policy {
	return Policy{fixed: true, size: size}
}

// Bounded returns a policy that searches for the largest fitting size in
// [minSize, maxSize].
func Bounded(minSize, maxSize int) Policy {
	return Policy{min: minSize, max: maxSize}
}

// FixedSize returns the fixed size and true when the policy bypasses the
// search.
func (p Policy) FixedSize() (int, bool) {
	return p.size, p.fixed
}

// Bounds returns the search range for a bounded policy. For a fixed policy
// both bounds equal the fixed size.
func (p Policy) Bounds() (minSize, maxSize int) {
	if p.fixed {
		return p.size, p.size
	}
	return p.min, p.max
}

// FitResult is the fitter's decision for one cell.
type FitResult struct {
	Size     int      // chosen font size in points
	Lines    []string // wrapped lines, at most the requested maximum
	Degraded bool     // true when even the minimum size overflows the height budget
}

// Fitter chooses font sizes for cell text against a fixed set of cell
// typography constants.
type Fitter struct {
	Measurer Measurer
	Padding  float64 // inset applied to both cell dimensions
	LineGap  float64 // extra points between lines; line height = size + gap
}

// Fit returns the largest font size allowed by pol whose wrapped text,
// truncated to maxLines, fits the height of a w×h cell. The usable box is
// the cell inset by the padding, floored at a minimum so degenerate cells
// still search.
//
// The search is a binary search over integer sizes. When no size in range
// fits, the minimum size is returned with its truncated, overflowing lines
// and the Degraded flag set; fitting never fails.
func (f Fitter) Fit(s, face string, pol Policy, w, h float64, maxLines int) FitResult {
	usableW := max(minUsable, w-2*f.Padding)
	usableH := max(minUsable, h-2*f.Padding)

	wrapAt := func(size int) []string {
		lines := Wrap(f.Measurer, s, face, float64(size), usableW)
		if len(lines) > maxLines {
			lines = lines[:maxLines]
		}
		return lines
	}
	fits := func(size int, lines []string) bool {
		total := float64(len(lines)) * (float64(size) + f.LineGap)
		return total <= usableH
	}

	if size, ok := pol.FixedSize(); ok {
		lines := wrapAt(size)
		return FitResult{Size: size, Lines: lines, Degraded: !fits(size, lines)}
	}

	lo, hi := pol.Bounds()
	best := FitResult{}
	found := false

	for lo <= hi {
		mid := (lo + hi) / 2
		lines := wrapAt(mid)
		if fits(mid, lines) {
			best = FitResult{Size: mid, Lines: lines}
			found = true
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if !found {
		minSize, _ := pol.Bounds()
		return FitResult{Size: minSize, Lines: wrapAt(minSize), Degraded: true}
	}
	return best
}

// Package geom provides the units and primitive shapes used by the layout
// and rendering packages.
//
// All coordinates are printer points (1/72 inch) with the origin at the
// bottom-left corner of the page and y growing upward, matching the PDF
// coordinate model. Template files may express dimensions in other units;
// ParseLength converts them to points at load time so everything downstream
// stays unit-free.
package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Conversion factors to printer points.
const (
	Pt = 1.0
	In = 72.0
	Mm = In / 25.4
	Cm = Mm * 10
)

// ParseLength converts a dimension string such as "95mm", "4in", "6.5cm" or
// "12" into points. A bare number is taken as points. Whitespace around the
// number and unit is ignored.
func ParseLength(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty length")
	}

	unit := Pt
	num := trimmed
	switch {
	case strings.HasSuffix(trimmed, "pt"):
		num = trimmed[:len(trimmed)-2]
	case strings.HasSuffix(trimmed, "mm"):
		unit = Mm
		num = trimmed[:len(trimmed)-2]
	case strings.HasSuffix(trimmed, "cm"):
		unit = Cm
		num = trimmed[:len(trimmed)-2]
	case strings.HasSuffix(trimmed, "in"):
		unit = In
		num = trimmed[:len(trimmed)-2]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v * unit, nil
}

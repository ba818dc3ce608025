package render

import "github.com/labelpress/labelpress/pkg/geom"

// Surface is the drawing vocabulary the renderer speaks. Implementations
// own a document or image being assembled; the renderer issues calls in
// bottom-left-origin page coordinates (points, y up) and never sees the
// output format.
//
// Translate and Rotate compose in the current coordinate space, and Save
// and Restore bracket them the way a canvas does. Clip restricts drawing
// to a rectangle until the enclosing Save is restored; the renderer always
// clips before transforming, so implementations only need axis-aligned
// clipping. Rotations are quarter turns in practice.
type Surface interface {
	// NewPage starts the next page. It is called before any drawing,
	// including for the first page.
	NewPage()

	// SetFont selects the face (a fonts.Table key) and size for
	// subsequent Text calls.
	SetFont(face string, size float64)

	// SetLineWidth sets the stroke width for subsequent Rect and Line
	// calls, in points.
	SetLineWidth(w float64)

	// Text draws s with its baseline starting at (x, y).
	Text(x, y float64, s string)

	// Rect strokes the outline of r.
	Rect(r geom.Rect)

	// Line strokes a segment from (x1, y1) to (x2, y2).
	Line(x1, y1, x2, y2 float64)

	// Image draws the image file at path into r, scaled to fit and
	// centered, preserving aspect ratio.
	Image(path string, r geom.Rect)

	// Save pushes the current transform and clip state.
	Save()

	// Restore pops to the matching Save.
	Restore()

	// Translate moves the origin by (dx, dy) in the current space.
	Translate(dx, dy float64)

	// Rotate rotates the current space counter-clockwise by deg degrees.
	Rotate(deg float64)

	// Clip restricts drawing to r until the enclosing Save is restored.
	Clip(r geom.Rect)
}

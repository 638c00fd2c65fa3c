/*
Package geom implements the small set of geometric primitives shared by
the typesetting engine: points and axis-aligned boxes in PDF user space.

There is no fixed-point "design unit" layer here. The engine works
directly in the PDF's own coordinate system (points, origin bottom-left,
y grows upward) because the geometry it consumes and produces already
lives in that space — there is no device/print-resolution conversion
step downstream.
*/
package geom

import "math"

// Point is a location in PDF user space.
type Point struct {
	X, Y float64
}

// Origin is the zero point.
var Origin = Point{}

// Shift moves a point by a vector and returns the result.
func (p Point) Shift(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Box is an axis-aligned rectangle in PDF user space. NewBox establishes
// the invariant X <= X2 && Y <= Y2 and Translate preserves it; WithY and
// WithX2 do not check it, and callers that use them or build a Box by hand
// are responsible for it.
type Box struct {
	X, Y, X2, Y2 float64
}

// NewBox builds a Box, swapping coordinates as necessary to satisfy the
// X <= X2 && Y <= Y2 invariant.
func NewBox(x, y, x2, y2 float64) Box {
	if x2 < x {
		x, x2 = x2, x
	}
	if y2 < y {
		y, y2 = y2, y
	}
	return Box{x, y, x2, y2}
}

// Width returns x2 - x.
func (b Box) Width() float64 { return b.X2 - b.X }

// Height returns y2 - y.
func (b Box) Height() float64 { return b.Y2 - b.Y }

// IsEmpty reports whether the box has zero area.
func (b Box) IsEmpty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Contains reports whether other lies entirely within b, up to tol.
func (b Box) Contains(other Box, tol float64) bool {
	return other.X >= b.X-tol && other.X2 <= b.X2+tol &&
		other.Y >= b.Y-tol && other.Y2 <= b.Y2+tol
}

// HOverlaps reports whether b and other overlap along the x-axis.
func (b Box) HOverlaps(other Box) bool {
	return !(other.X2 < b.X || other.X > b.X2)
}

// VOverlaps reports whether b and other overlap along the y-axis.
func (b Box) VOverlaps(other Box) bool {
	return !(other.Y >= b.Y2 || other.Y2 <= b.Y)
}

// Translate returns b shifted by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{b.X + dx, b.Y + dy, b.X2 + dx, b.Y2 + dy}
}

// WithY returns a copy of b with its bottom edge moved to y (top edge fixed).
func (b Box) WithY(y float64) Box {
	return Box{b.X, y, b.X2, b.Y2}
}

// WithX2 returns a copy of b with its right edge moved to x2.
func (b Box) WithX2(x2 float64) Box {
	return Box{b.X, b.Y, x2, b.Y2}
}

// CenterY returns the vertical midpoint of b.
func (b Box) CenterY() float64 { return (b.Y + b.Y2) / 2 }

// Union returns the smallest box containing all of boxes. A zero-value
// Box is treated as "no box yet" and does not participate.
func Union(boxes ...Box) Box {
	var out Box
	first := true
	for _, b := range boxes {
		if b.IsEmpty() && b == (Box{}) {
			continue
		}
		if first {
			out = b
			first = false
			continue
		}
		out.X = math.Min(out.X, b.X)
		out.Y = math.Min(out.Y, b.Y)
		out.X2 = math.Max(out.X2, b.X2)
		out.Y2 = math.Max(out.Y2, b.Y2)
	}
	return out
}

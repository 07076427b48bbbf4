package picture

import "math"

// Point is a 2D point or vector.
type Point struct{ X, Y float64 }

// Rect is an axis aligned rectangle, defined by its edges.
type Rect struct{ Left, Top, Right, Bottom float64 }

// RectXYWH returns the rectangle with origin (x, y) and size (w, h).
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool { return !(r.Left < r.Right && r.Top < r.Bottom) }

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, s.Left),
		Top:    math.Min(r.Top, s.Top),
		Right:  math.Max(r.Right, s.Right),
		Bottom: math.Max(r.Bottom, s.Bottom),
	}
}

// Matrix is a 2D affine transform, using the
// painting library naming:
//
//	| ScaleX SkewX  TransX |
//	| SkewY  ScaleY TransY |
//	| 0      0      1      |
type Matrix struct {
	ScaleX, SkewX, TransX float64
	SkewY, ScaleY, TransY float64
}

// Identity is the identity transform.
var Identity = Matrix{ScaleX: 1, ScaleY: 1}

// IsIdentity returns true if m is exactly the identity.
func (m Matrix) IsIdentity() bool { return m == Identity }

// MapPoint applies the full transform to p.
func (m Matrix) MapPoint(p Point) Point {
	return Point{
		X: m.ScaleX*p.X + m.SkewX*p.Y + m.TransX,
		Y: m.SkewY*p.X + m.ScaleY*p.Y + m.TransY,
	}
}

// MapVector applies the transform to v, ignoring the translation.
func (m Matrix) MapVector(v Point) Point {
	return Point{
		X: m.ScaleX*v.X + m.SkewX*v.Y,
		Y: m.SkewY*v.X + m.ScaleY*v.Y,
	}
}

// Concat returns m * n, that is the transform
// applying first n, then m.
func (m Matrix) Concat(n Matrix) Matrix {
	return Matrix{
		ScaleX: m.ScaleX*n.ScaleX + m.SkewX*n.SkewY,
		SkewX:  m.ScaleX*n.SkewX + m.SkewX*n.ScaleY,
		TransX: m.ScaleX*n.TransX + m.SkewX*n.TransY + m.TransX,
		SkewY:  m.SkewY*n.ScaleX + m.ScaleY*n.SkewY,
		ScaleY: m.SkewY*n.SkewX + m.ScaleY*n.ScaleY,
		TransY: m.SkewY*n.TransX + m.ScaleY*n.TransY + m.TransY,
	}
}

// Color is a non premultiplied ARGB color.
type Color struct {
	Alpha, Red, Green, Blue uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r, g, b, a = uint32(c.Red), uint32(c.Green), uint32(c.Blue), uint32(c.Alpha)
	// premultiply, as required by color.Color
	r = r * 0x101 * a / 0xff
	g = g * 0x101 * a / 0xff
	b = b * 0x101 * a / 0xff
	a *= 0x101
	return
}

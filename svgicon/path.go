package svgicon

import (
	"fmt"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// This file defines the basic path structure

// Matrix2D is an affine transform, with the SVG matrix(a b c d e f) layout.
type Matrix2D = rasterx.Matrix2D

// Identity is the identity transform.
var Identity = rasterx.Identity

// Operation groups the different SVG commands
type Operation interface {
	// add itself on the driver `d`, after aplying the transform `M`
	drawTo(d Drawer, M Matrix2D)
}

type MoveTo fixed.Point26_6

type LineTo fixed.Point26_6

type QuadTo [2]fixed.Point26_6

type CubicTo [3]fixed.Point26_6

type Close struct{}

// starts a new path at the given point.
func (op MoveTo) drawTo(d Drawer, M Matrix2D) {
	d.Stop(false) // implicit close if currently in path.
	d.Start(M.TFixed(fixed.Point26_6(op)))
}

// draw a line
func (op LineTo) drawTo(d Drawer, M Matrix2D) {
	d.Line(M.TFixed(fixed.Point26_6(op)))
}

// draw a quadratic bezier curve
func (op QuadTo) drawTo(d Drawer, M Matrix2D) {
	d.QuadBezier(M.TFixed(op[0]), M.TFixed(op[1]))
}

// draw a cubic bezier curve
func (op CubicTo) drawTo(d Drawer, M Matrix2D) {
	d.CubeBezier(M.TFixed(op[0]), M.TFixed(op[1]), M.TFixed(op[2]))
}

func (op Close) drawTo(d Drawer, _ Matrix2D) {
	d.Stop(true)
}

// Path describes a sequence of basic SVG operations, which should not be nil
// Higher-level shapes may be reduced to a path.
// Path implements rasterx.Adder.
type Path []Operation

var _ rasterx.Adder = (*Path)(nil)

func fixedToF(v fixed.Int26_6) float64 { return float64(v) / 64 }

func fToFixed(f float64) fixed.Int26_6 { return fixed.Int26_6(f * 64) }

// toFixedP converts two floats to a fixed point.
func toFixedP(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fToFixed(x), Y: fToFixed(y)}
}

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%4.3f,%4.3f", fixedToF(op.X), fixedToF(op.Y))
		case LineTo:
			chunks[i] = fmt.Sprintf("L%4.3f,%4.3f", fixedToF(op.X), fixedToF(op.Y))
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%4.3f,%4.3f,%4.3f,%4.3f", fixedToF(op[0].X), fixedToF(op[0].Y),
				fixedToF(op[1].X), fixedToF(op[1].Y))
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f", fixedToF(op[0].X), fixedToF(op[0].Y),
				fixedToF(op[1].X), fixedToF(op[1].Y), fixedToF(op[2].X), fixedToF(op[2].Y))
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo{a.X, a.Y})
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo{b.X, b.Y})
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

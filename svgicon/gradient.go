package svgicon

import (
	"image/color"

	"github.com/srwiley/rasterx"
)

// Pattern is the paint of a fill or a stroke:
// either PlainColor or Gradient
type Pattern interface {
	isPattern()
}

func (PlainColor) isPattern() {}
func (Gradient) isPattern()   {}

// PlainColor is a uniform, non premultiplied color.
type PlainColor struct {
	color.NRGBA
}

// NewPlainColor returns the color with the given channels.
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{color.NRGBA{R: r, G: g, B: b, A: a}}
}

// GradStop represents a stop in the SVG 2.0 gradient specification
type GradStop struct {
	StopColor color.Color
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG 2.0 gradient
type Gradient struct {
	Direction gradientDirecter
	Stops     []GradStop
	Bounds    Bounds
	Matrix    Matrix2D
	Spread    rasterx.SpreadMethod
	Units     rasterx.GradientUnits
}

// radial or linear
type gradientDirecter interface {
	isRadial() bool
}

// Linear is x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial is cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// IsRadial returns true for radial gradients.
func (g Gradient) IsRadial() bool { return g.Direction != nil && g.Direction.isRadial() }

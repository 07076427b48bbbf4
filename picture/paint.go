package picture

// PaintStyle selects which parts of a geometry are painted.
type PaintStyle uint8

const (
	Fill PaintStyle = iota
	Stroke
	StrokeAndFill
)

// Fills returns true for Fill and StrokeAndFill.
func (s PaintStyle) Fills() bool { return s == Fill || s == StrokeAndFill }

// Strokes returns true for Stroke and StrokeAndFill.
func (s PaintStyle) Strokes() bool { return s == Stroke || s == StrokeAndFill }

// StrokeCap defines how to draw the ends of open contours.
type StrokeCap uint8

const (
	ButtCap StrokeCap = iota
	RoundCap
	SquareCap
)

// StrokeJoin defines how to draw the joins between segments.
type StrokeJoin uint8

const (
	MiterJoin StrokeJoin = iota
	RoundJoin
	BevelJoin
)

// TileMode is the behavior of a gradient outside of its stops range.
type TileMode uint8

const (
	Clamp TileMode = iota
	Repeat
	Mirror
	Decal
)

// Paint describes how a geometry is drawn.
type Paint struct {
	Style       PaintStyle
	Shader      Shader // nil disables painting
	StrokeWidth float64
	StrokeCap   StrokeCap
	StrokeJoin  StrokeJoin
	StrokeMiter float64
	PathEffect  PathEffect // optional
	Antialias   bool
}

// DefaultPaint returns a fill paint with the painting library defaults.
func DefaultPaint() Paint {
	return Paint{Style: Fill, StrokeWidth: 1, StrokeMiter: 4, Antialias: true}
}

// Shader is the source of color of a paint:
// ColorShader, LinearGradientShader, TwoPointConicalGradientShader or PictureShader.
type Shader interface {
	isShader()
}

type ColorShader struct {
	Color Color
}

// LinearGradientShader interpolates Colors along the segment Start-End.
// Colors and ColorPos have the same length.
type LinearGradientShader struct {
	Start, End  Point
	Colors      []Color
	ColorPos    []float64
	Mode        TileMode
	LocalMatrix *Matrix // optional
}

// TwoPointConicalGradientShader interpolates Colors between the circles
// (Start, StartRadius) and (End, EndRadius).
type TwoPointConicalGradientShader struct {
	Start       Point
	StartRadius float64
	End         Point
	EndRadius   float64
	Colors      []Color
	ColorPos    []float64
	Mode        TileMode
	LocalMatrix *Matrix // optional
}

// PictureShader uses a nested picture as a tiled paint source.
type PictureShader struct {
	Picture     *Picture
	ModeX       TileMode
	ModeY       TileMode
	LocalMatrix *Matrix // optional
	Tile        Rect
}

func (ColorShader) isShader()                   {}
func (LinearGradientShader) isShader()          {}
func (TwoPointConicalGradientShader) isShader() {}
func (PictureShader) isShader()                 {}

// PathEffect modifies the geometry of a stroke.
type PathEffect interface {
	isPathEffect()
}

// DashPathEffect is an on/off dash pattern, starting at Phase.
// Intervals alternate "on" and "off" lengths.
type DashPathEffect struct {
	Intervals []float64
	Phase     float64
}

func (DashPathEffect) isPathEffect() {}

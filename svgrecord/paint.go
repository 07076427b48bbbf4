package svgrecord

import (
	"image/color"
	"math"
	"reflect"

	"github.com/benoitkugler/svgtoxaml/picture"
	"github.com/benoitkugler/svgtoxaml/svgicon"
	"github.com/srwiley/rasterx"
)

// paintBuilder converts SVG patterns to paints
// for one path.
type paintBuilder struct {
	local         picture.Rect   // bounds of the path in its user space
	transform     picture.Matrix // user space to recorded geometry
	ignoreOpacity bool
}

func (pb paintBuilder) toColor(c color.Color, opacity float64) picture.Color {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	alpha := float64(nc.A)
	if !pb.ignoreOpacity {
		alpha *= opacity
	}
	return picture.Color{Alpha: uint8(math.Round(alpha)), Red: nc.R, Green: nc.G, Blue: nc.B}
}

// shader returns nil for a disabled paint.
func (pb paintBuilder) shader(pattern svgicon.Pattern, opacity float64) picture.Shader {
	switch pattern := pattern.(type) {
	case svgicon.PlainColor:
		return picture.ColorShader{Color: pb.toColor(pattern.NRGBA, opacity)}
	case svgicon.Gradient:
		return pb.gradient(pattern, opacity)
	}
	return nil
}

var tileModes = [...]picture.TileMode{
	rasterx.PadSpread:     picture.Clamp,
	rasterx.ReflectSpread: picture.Mirror,
	rasterx.RepeatSpread:  picture.Repeat,
}

func (pb paintBuilder) gradient(grad svgicon.Gradient, opacity float64) picture.Shader {
	if len(grad.Stops) == 0 {
		return nil
	}
	colors := make([]picture.Color, len(grad.Stops))
	pos := make([]float64, len(grad.Stops))
	last := 0.
	for i, stop := range grad.Stops {
		colors[i] = pb.toColor(stop.StopColor, stop.Opacity*opacity)
		// offsets are clamped, and never decrease
		last = math.Max(last, math.Min(1, stop.Offset))
		pos[i] = last
	}
	if len(colors) == 1 {
		return picture.ColorShader{Color: colors[0]}
	}

	m := pb.transform
	if grad.Units == rasterx.ObjectBoundingBox {
		b := pb.local
		m = m.Concat(picture.Matrix{ScaleX: b.Width(), ScaleY: b.Height(), TransX: b.Left, TransY: b.Top})
	}
	m = m.Concat(toMatrix(grad.Matrix))
	var local *picture.Matrix
	if !m.IsIdentity() {
		local = &m
	}

	mode := picture.Clamp
	if int(grad.Spread) < len(tileModes) {
		mode = tileModes[grad.Spread]
	}

	switch dir := grad.Direction.(type) {
	case svgicon.Linear:
		return picture.LinearGradientShader{
			Start:       picture.Point{X: dir[0], Y: dir[1]},
			End:         picture.Point{X: dir[2], Y: dir[3]},
			Colors:      colors,
			ColorPos:    pos,
			Mode:        mode,
			LocalMatrix: local,
		}
	case svgicon.Radial:
		return picture.TwoPointConicalGradientShader{
			Start:       picture.Point{X: dir[0], Y: dir[1]},
			End:         picture.Point{X: dir[2], Y: dir[3]},
			EndRadius:   dir[4],
			Colors:      colors,
			ColorPos:    pos,
			Mode:        mode,
			LocalMatrix: local,
		}
	}
	return nil
}

func shadersEqual(s1, s2 picture.Shader) bool { return reflect.DeepEqual(s1, s2) }

func strokeCap(c svgicon.CapMode) picture.StrokeCap {
	switch c {
	case svgicon.RoundCap, svgicon.CubicCap, svgicon.QuadraticCap:
		return picture.RoundCap
	case svgicon.SquareCap:
		return picture.SquareCap
	default:
		return picture.ButtCap
	}
}

func strokeJoin(j svgicon.JoinMode) picture.StrokeJoin {
	switch j {
	case svgicon.Round, svgicon.Arc, svgicon.ArcClip:
		return picture.RoundJoin
	case svgicon.Bevel:
		return picture.BevelJoin
	default:
		return picture.MiterJoin
	}
}

// dashEffect returns nil when the dash array
// does not describe a valid pattern.
func dashEffect(dash svgicon.DashOptions, scale float64) picture.PathEffect {
	if len(dash.Dash) == 0 {
		return nil
	}
	var sum float64
	for _, d := range dash.Dash {
		if d < 0 {
			return nil
		}
		sum += d
	}
	if sum == 0 {
		return nil
	}
	intervals := dash.Dash
	if len(intervals)%2 == 1 { // an odd list is repeated
		intervals = append(append([]float64(nil), intervals...), intervals...)
	}
	scaled := make([]float64, len(intervals))
	for i, d := range intervals {
		scaled[i] = d * scale
	}
	return picture.DashPathEffect{Intervals: scaled, Phase: dash.DashOffset * scale}
}

// strokePaint returns the paint stroking a path with the given style.
func (pb paintBuilder) strokePaint(style svgicon.PathStyle, shader picture.Shader) picture.Paint {
	scale := matrixScale(pb.transform)
	return picture.Paint{
		Style:       picture.Stroke,
		Shader:      shader,
		StrokeWidth: style.LineWidth * scale,
		StrokeCap:   strokeCap(style.Join.TrailLineCap),
		StrokeJoin:  strokeJoin(style.Join.LineJoin),
		StrokeMiter: float64(style.Join.MiterLimit) / 64,
		PathEffect:  dashEffect(style.Dash, scale),
		Antialias:   true,
	}
}

package xaml

import (
	"strings"

	"github.com/benoitkugler/svgtoxaml/picture"
	"go.uber.org/zap"
)

// defaults of the target Pen, for which no attribute is emitted
const (
	defaultThickness  = 1.0
	defaultMiterLimit = 10.0
	defaultLineCap    = picture.ButtCap
	defaultLineJoin   = picture.MiterJoin
)

func gradientSpreadMethod(mode picture.TileMode) string {
	switch mode {
	case picture.Repeat:
		return "Repeat"
	case picture.Mirror:
		return "Reflect"
	default: // Clamp
		return "Pad"
	}
}

func penLineCap(c picture.StrokeCap) string {
	switch c {
	case picture.RoundCap:
		return "Round"
	case picture.SquareCap:
		return "Square"
	default: // ButtCap
		return "Flat"
	}
}

func penLineJoin(j picture.StrokeJoin) string {
	switch j {
	case picture.RoundJoin:
		return "Round"
	case picture.BevelJoin:
		return "Bevel"
	default: // MiterJoin
		return "Miter"
	}
}

// painter builds brush and pen fragments.
type painter struct {
	log *zap.Logger
}

// brush returns the brush element for shader, or an empty string
// for unsupported shaders. bounds is the extent of the painted
// geometry, used to normalize radial gradients.
func (pt painter) brush(shader picture.Shader, bounds picture.Rect, indent string) string {
	var sb strings.Builder
	switch shader := shader.(type) {
	case picture.ColorShader:
		sb.WriteString(indent + `<SolidColorBrush Color="` + formatColor(shader.Color) + `"/>` + NewLine)
	case picture.LinearGradientShader:
		start, end := shader.Start, shader.End
		if shader.LocalMatrix != nil {
			start = shader.LocalMatrix.MapPoint(start)
			end = shader.LocalMatrix.MapPoint(end)
		}
		sb.WriteString(indent + "<LinearGradientBrush")
		sb.WriteString(` StartPoint="` + formatPoint(start) + `"`)
		sb.WriteString(` EndPoint="` + formatPoint(end) + `"`)
		sb.WriteString(` SpreadMethod="` + gradientSpreadMethod(shader.Mode) + `">` + NewLine)
		writeGradientStops(&sb, "LinearGradientBrush", shader.Colors, shader.ColorPos, indent)
		sb.WriteString(indent + "</LinearGradientBrush>" + NewLine)
	case picture.TwoPointConicalGradientShader:
		if shader.StartRadius != 0 {
			pt.log.Debug("ignoring start radius of two point conical gradient",
				zap.Float64("startRadius", shader.StartRadius))
		}
		center, origin := shader.Start, shader.End
		radius := shader.EndRadius
		if shader.LocalMatrix != nil {
			center = shader.LocalMatrix.MapPoint(center)
			origin = shader.LocalMatrix.MapPoint(origin)
			radius = shader.LocalMatrix.MapVector(picture.Point{X: radius}).X
		}
		// the target radius is relative to the painted area
		radius /= bounds.Width()

		sb.WriteString(indent + "<RadialGradientBrush")
		sb.WriteString(` Center="` + formatPoint(center) + `"`)
		sb.WriteString(` GradientOrigin="` + formatPoint(origin) + `"`)
		sb.WriteString(` Radius="` + formatFloat(radius) + `"`)
		sb.WriteString(` SpreadMethod="` + gradientSpreadMethod(shader.Mode) + `">` + NewLine)
		writeGradientStops(&sb, "RadialGradientBrush", shader.Colors, shader.ColorPos, indent)
		sb.WriteString(indent + "</RadialGradientBrush>" + NewLine)
	case picture.PictureShader:
		pt.log.Debug("unsupported picture shader")
	}
	return sb.String()
}

func writeGradientStops(sb *strings.Builder, element string, colors []picture.Color, pos []float64, indent string) {
	sb.WriteString(indent + "  <" + element + ".GradientStops>" + NewLine)
	if colors != nil && pos != nil {
		for i := range colors {
			if i >= len(pos) {
				break
			}
			sb.WriteString(indent + `    <GradientStop Offset="` + formatFloat(pos[i]) +
				`" Color="` + formatColor(colors[i]) + `"/>` + NewLine)
		}
	}
	sb.WriteString(indent + "  </" + element + ".GradientStops>" + NewLine)
}

// pen returns the pen element stroking with paint, or an empty string
// if the paint has no shader.
func (pt painter) pen(paint *picture.Paint, bounds picture.Rect, indent string) string {
	if paint.Shader == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString(indent + "<Pen")
	colorShader, isSolid := paint.Shader.(picture.ColorShader)
	if isSolid {
		sb.WriteString(` Brush="` + formatColor(colorShader.Color) + `"`)
	}
	if paint.StrokeWidth != defaultThickness {
		sb.WriteString(` Thickness="` + formatFloat(paint.StrokeWidth) + `"`)
	}
	if paint.StrokeCap != defaultLineCap {
		sb.WriteString(` LineCap="` + penLineCap(paint.StrokeCap) + `"`)
	}
	if paint.StrokeJoin != defaultLineJoin {
		sb.WriteString(` LineJoin="` + penLineJoin(paint.StrokeJoin) + `"`)
	}
	if paint.StrokeMiter != defaultMiterLimit {
		sb.WriteString(` MiterLimit="` + formatFloat(paint.StrokeMiter) + `"`)
	}

	// children must be known before closing the start tag
	var dashStyle, brush string
	if dash, ok := paint.PathEffect.(picture.DashPathEffect); ok && dash.Intervals != nil {
		// dashes are relative to the stroke width
		dashes := make([]float64, len(dash.Intervals))
		for i, interval := range dash.Intervals {
			dashes[i] = interval / paint.StrokeWidth
		}
		offset := dash.Phase / paint.StrokeWidth
		dashStyle = indent + "  <Pen.DashStyle>" + NewLine +
			indent + `    <DashStyle Dashes="` + formatFloats(dashes) + `" Offset="` + formatFloat(offset) + `"/>` + NewLine +
			indent + "  </Pen.DashStyle>" + NewLine
	}
	if !isSolid {
		brush = pt.brush(paint.Shader, bounds, indent+"    ")
	}

	if dashStyle == "" && brush == "" {
		sb.WriteString("/>" + NewLine)
		return sb.String()
	}

	sb.WriteString(">" + NewLine)
	sb.WriteString(dashStyle)
	if brush != "" {
		sb.WriteString(indent + "  <Pen.Brush>" + NewLine)
		sb.WriteString(brush)
		sb.WriteString(indent + "  </Pen.Brush>" + NewLine)
	}
	sb.WriteString(indent + "</Pen>" + NewLine)
	return sb.String()
}

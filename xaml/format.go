// Translates recorded pictures into the XAML drawing dialect
// of the Avalonia UI framework: DrawingGroup, GeometryDrawing,
// brushes and pens.
//
// The translation walks the canvas commands of a picture, tracking
// the current transform and clip, and emits one GeometryDrawing
// per DrawPath command.
package xaml

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgtoxaml/picture"
)

// NewLine is the line terminator used in the generated markup.
const NewLine = "\r\n"

// formatFloat returns the shortest decimal representation of v,
// using '.' as decimal separator and no grouping, whatever the host locale.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0" // also normalizes -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatColor returns the #AARRGGBB form of c.
func formatColor(c picture.Color) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.Alpha, c.Red, c.Green, c.Blue)
}

func formatPoint(p picture.Point) string {
	return formatFloat(p.X) + "," + formatFloat(p.Y)
}

// formatMatrix returns the six coefficients expected by MatrixTransform:
// M11, M12, M21, M22, OffsetX, OffsetY
func formatMatrix(m picture.Matrix) string {
	return strings.Join([]string{
		formatFloat(m.ScaleX),
		formatFloat(m.SkewY),
		formatFloat(m.SkewX),
		formatFloat(m.ScaleY),
		formatFloat(m.TransX),
		formatFloat(m.TransY),
	}, ",")
}

func formatFloats(vs []float64) string {
	chunks := make([]string, len(vs))
	for i, v := range vs {
		chunks[i] = formatFloat(v)
	}
	return strings.Join(chunks, ",")
}

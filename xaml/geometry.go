package xaml

import (
	"strings"

	"github.com/benoitkugler/svgtoxaml/picture"
)

// pathData returns the path mini-language representation of p,
// prefixed by its fill rule: F0 for even-odd, F1 for non zero.
func pathData(p *picture.Path) string {
	prefix := "F1 "
	if p.FillType == picture.EvenOdd {
		prefix = "F0 "
	}
	return prefix + svgPathData(p)
}

// svgPathData serializes the segments of p, such as "M0 0L10 0L10 10Z"
func svgPathData(p *picture.Path) string {
	var sb strings.Builder
	writePoints := func(cmd byte, pts ...picture.Point) {
		sb.WriteByte(cmd)
		for i, pt := range pts {
			if i != 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatFloat(pt.X))
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(pt.Y))
		}
	}
	for _, cmd := range p.Commands {
		switch cmd := cmd.(type) {
		case picture.MoveTo:
			writePoints('M', picture.Point(cmd))
		case picture.LineTo:
			writePoints('L', picture.Point(cmd))
		case picture.QuadTo:
			writePoints('Q', cmd[:]...)
		case picture.CubicTo:
			writePoints('C', cmd[:]...)
		case picture.Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

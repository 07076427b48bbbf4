package picture

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// FlattenTolerance is the maximum length of the segments
// used to approximate bezier curves when flattening.
var FlattenTolerance = 0.5

const maxFlattenSegments = 64

// Intersect returns the intersection of the areas covered by p and q,
// each filled with its own fill rule.
// Curves are flattened, so that the result is made of line segments only.
// The result uses the even-odd rule.
func (p *Path) Intersect(q *Path) *Path {
	return fromPolygon(p.filledArea().Construct(polyclip.INTERSECTION, q.filledArea()))
}

// Union returns the union of the areas covered by p and q,
// with the same conventions as Intersect.
func (p *Path) Union(q *Path) *Path {
	return fromPolygon(p.filledArea().Construct(polyclip.UNION, q.filledArea()))
}

// Flatten returns the contours of the path, with curves replaced
// by polylines. Open contours are implicitly closed.
// A segment following a Close starts at the last MoveTo point.
func (p *Path) Flatten() [][]Point {
	var (
		contours [][]Point
		current  []Point
		cursor   Point
		start    Point
	)
	flush := func() {
		if len(current) >= 3 {
			contours = append(contours, current)
		}
		current = nil
	}
	// seed starts a contour at the cursor, if needed
	seed := func() {
		if current == nil {
			start = cursor
			current = []Point{cursor}
		}
	}
	for _, cmd := range p.Commands {
		switch cmd := cmd.(type) {
		case MoveTo:
			flush()
			cursor = Point(cmd)
			seed()
		case LineTo:
			seed()
			cursor = Point(cmd)
			current = append(current, cursor)
		case QuadTo:
			seed()
			current = flattenCurve(current, quadBezier{cursor, cmd[0], cmd[1]})
			cursor = cmd[1]
		case CubicTo:
			seed()
			current = flattenCurve(current, cubicBezier{cursor, cmd[0], cmd[1], cmd[2]})
			cursor = cmd[2]
		case Close:
			flush()
			cursor = start
		}
	}
	flush()
	return contours
}

// flattenCurve appends the points approximating curve, without its start point.
func flattenCurve(dst []Point, curve bezier) []Point {
	var length float64
	var pts []Point
	switch curve := curve.(type) {
	case quadBezier:
		pts = curve[:]
	case cubicBezier:
		pts = curve[:]
	}
	for i := 1; i < len(pts); i++ {
		length += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	n := int(math.Ceil(length / FlattenTolerance))
	if n < 2 {
		n = 2
	} else if n > maxFlattenSegments {
		n = maxFlattenSegments
	}
	for i := 1; i <= n; i++ {
		dst = append(dst, curve.evaluateCurve(float64(i)/float64(n)))
	}
	return dst
}

func toContour(points []Point) polyclip.Contour {
	c := make(polyclip.Contour, len(points))
	for i, pt := range points {
		c[i] = polyclip.Point{X: pt.X, Y: pt.Y}
	}
	return c
}

// signedArea is positive for one orientation
// of the contour, negative for the other.
func signedArea(c polyclip.Contour) float64 {
	var area float64
	for i, pt := range c {
		next := c[(i+1)%len(c)]
		area += pt.X*next.Y - next.X*pt.Y
	}
	return area / 2
}

// face is a region of the plane with a constant winding number.
type face struct {
	area    polyclip.Polygon
	winding int
}

// filledArea returns the area painted by the path, as a polygon
// with the even-odd semantic used by polyclip.
// For the non zero rule, the plane is split into regions of constant winding
// number, adding one contour at a time, and the regions with a non zero winding
// are merged. A self intersecting contour is still resolved with the even-odd rule.
func (p *Path) filledArea() polyclip.Polygon {
	var contours polyclip.Polygon
	for _, points := range p.Flatten() {
		contours = append(contours, toContour(points))
	}
	if p.FillType == EvenOdd || len(contours) < 2 {
		return contours
	}

	var (
		faces   []face
		covered polyclip.Polygon
	)
	for _, c := range contours {
		direction := 1
		if area := signedArea(c); area == 0 {
			continue
		} else if area < 0 {
			direction = -1
		}
		contour := polyclip.Polygon{c}
		var next []face
		for _, f := range faces {
			if in := f.area.Construct(polyclip.INTERSECTION, contour); len(in) != 0 {
				next = append(next, face{area: in, winding: f.winding + direction})
			}
			if out := f.area.Construct(polyclip.DIFFERENCE, contour); len(out) != 0 {
				next = append(next, face{area: out, winding: f.winding})
			}
		}
		if fresh := contour.Construct(polyclip.DIFFERENCE, covered); len(fresh) != 0 {
			next = append(next, face{area: fresh, winding: direction})
		}
		covered = covered.Construct(polyclip.UNION, contour)
		faces = next
	}

	var out polyclip.Polygon
	for _, f := range faces {
		if f.winding != 0 {
			out = out.Construct(polyclip.UNION, f.area)
		}
	}
	return out
}

func fromPolygon(poly polyclip.Polygon) *Path {
	out := &Path{FillType: EvenOdd}
	for _, contour := range poly {
		if len(contour) == 0 {
			continue
		}
		out.MoveTo(contour[0].X, contour[0].Y)
		for _, pt := range contour[1:] {
			out.LineTo(pt.X, pt.Y)
		}
		out.Close()
	}
	return out
}

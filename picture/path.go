package picture

import "math"

// FillType selects the rule deciding which area is inside the path.
type FillType uint8

const (
	Winding FillType = iota // non zero winding, the default
	EvenOdd
)

func (f FillType) String() string {
	switch f {
	case Winding:
		return "Winding"
	case EvenOdd:
		return "EvenOdd"
	default:
		return "<unknown FillType>"
	}
}

// PathCommand groups the different path segments.
type PathCommand interface {
	isPathCommand()
}

type MoveTo Point

type LineTo Point

// QuadTo is a quadratic bezier curve: control point, end point
type QuadTo [2]Point

// CubicTo is a cubic bezier curve: two control points, end point
type CubicTo [3]Point

type Close struct{}

func (MoveTo) isPathCommand()  {}
func (LineTo) isPathCommand()  {}
func (QuadTo) isPathCommand()  {}
func (CubicTo) isPathCommand() {}
func (Close) isPathCommand()   {}

// Path describes a geometry as a sequence of segments.
type Path struct {
	FillType FillType
	Commands []PathCommand
}

// IsEmpty returns true if the path has no segment.
func (p *Path) IsEmpty() bool { return p == nil || len(p.Commands) == 0 }

func (p *Path) MoveTo(x, y float64) { p.Commands = append(p.Commands, MoveTo{x, y}) }

func (p *Path) LineTo(x, y float64) { p.Commands = append(p.Commands, LineTo{x, y}) }

func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Commands = append(p.Commands, QuadTo{{cx, cy}, {x, y}})
}

func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Commands = append(p.Commands, CubicTo{{c1x, c1y}, {c2x, c2y}, {x, y}})
}

func (p *Path) Close() { p.Commands = append(p.Commands, Close{}) }

// AddRect appends a closed contour following the edges of r,
// clockwise from the top left corner.
func (p *Path) AddRect(r Rect) {
	p.MoveTo(r.Left, r.Top)
	p.LineTo(r.Right, r.Top)
	p.LineTo(r.Right, r.Bottom)
	p.LineTo(r.Left, r.Bottom)
	p.Close()
}

// Transform returns a copy of p with every point mapped by m.
func (p *Path) Transform(m Matrix) *Path {
	out := &Path{FillType: p.FillType, Commands: make([]PathCommand, len(p.Commands))}
	for i, cmd := range p.Commands {
		switch cmd := cmd.(type) {
		case MoveTo:
			out.Commands[i] = MoveTo(m.MapPoint(Point(cmd)))
		case LineTo:
			out.Commands[i] = LineTo(m.MapPoint(Point(cmd)))
		case QuadTo:
			out.Commands[i] = QuadTo{m.MapPoint(cmd[0]), m.MapPoint(cmd[1])}
		case CubicTo:
			out.Commands[i] = CubicTo{m.MapPoint(cmd[0]), m.MapPoint(cmd[1]), m.MapPoint(cmd[2])}
		case Close:
			out.Commands[i] = cmd
		}
	}
	return out
}

// Points returns all the points of the path, including
// bezier control points.
func (p *Path) Points() []Point {
	var out []Point
	for _, cmd := range p.Commands {
		switch cmd := cmd.(type) {
		case MoveTo:
			out = append(out, Point(cmd))
		case LineTo:
			out = append(out, Point(cmd))
		case QuadTo:
			out = append(out, cmd[:]...)
		case CubicTo:
			out = append(out, cmd[:]...)
		}
	}
	return out
}

// Bounds returns the bounding box of all the points of the path,
// control points included. It is cheaper than TightBounds, and
// may be larger.
// An empty path has empty bounds.
func (p *Path) Bounds() Rect {
	pts := p.Points()
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, pt := range pts[1:] {
		r.Left = math.Min(r.Left, pt.X)
		r.Top = math.Min(r.Top, pt.Y)
		r.Right = math.Max(r.Right, pt.X)
		r.Bottom = math.Max(r.Bottom, pt.Y)
	}
	return r
}

// TightBounds returns the smallest rectangle containing
// the geometry drawn by the path, taking the extrema of
// bezier curves into account.
func (p *Path) TightBounds() Rect {
	var (
		current, start Point
		out            Rect
		started        bool
	)
	add := func(curve bezier) {
		bb := computeBoundingBox(curve)
		if !started {
			out, started = bb, true
			return
		}
		out = out.Union(bb)
	}
	for _, cmd := range p.Commands {
		switch cmd := cmd.(type) {
		case MoveTo:
			current, start = Point(cmd), Point(cmd)
			add(line{current, current})
		case LineTo:
			add(line{current, Point(cmd)})
			current = Point(cmd)
		case QuadTo:
			add(quadBezier{current, cmd[0], cmd[1]})
			current = cmd[1]
		case CubicTo:
			add(cubicBezier{current, cmd[0], cmd[1], cmd[2]})
			current = cmd[2]
		case Close:
			current = start
		}
	}
	return out
}

package svgicon

import (
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// The painting protocol: a parsed icon walks its paths and sends
// device space segments to the drawers of a Driver, which do the
// actual rendering (raster image, vector output, ...).

// Drawer receives the segments of one path, already mapped
// by the icon and element transforms, then paints them.
type Drawer interface {
	// Clear forgets the previous path.
	Clear()

	// Start begins a contour at a.
	Start(a fixed.Point26_6)

	// Line adds a segment from the current point to b.
	Line(b fixed.Point26_6)

	// QuadBezier adds a quadratic curve with control point b, ending at c.
	QuadBezier(b, c fixed.Point26_6)

	// CubeBezier adds a cubic curve with control points b and c, ending at d.
	CubeBezier(b, c, d fixed.Point26_6)

	// Stop ends the contour, going back to its start if closeLoop is true.
	Stop(closeLoop bool)

	// SetColor selects the paint of the path, either a PlainColor or a Gradient.
	// Gradients in user space units are given in device space.
	SetColor(color Pattern, opacity float64)

	// Draw paints the accumulated path.
	Draw()
}

// Filler paints the inside of paths.
type Filler interface {
	Drawer

	// SetWinding selects the non zero rule (true) or the even-odd rule.
	SetWinding(useNonZeroWinding bool)
}

// Stroker paints the outline of paths.
type Stroker interface {
	Drawer

	// SetStrokeOptions sets the pen of the next path.
	SetStrokeOptions(options StrokeOptions)
}

// Driver provides the drawers for each path of an icon.
type Driver interface {
	// SetupDrawers is called once per path, and must return
	// a nil drawer when the corresponding boolean is false.
	// When both are needed, the Filler receives the path first, then the
	// Stroker receives the same segments, so that an implementation
	// may share the geometry between them.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

// DashOptions describes a dash pattern. An empty Dash means a solid line.
type DashOptions struct {
	Dash       []float64
	DashOffset float64 // into the pattern, at the start of the path
}

// JoinMode selects the shape of the outline at the junction of segments.
// Arc and MiterClip come from SVG 2; ArcClip is a rasterx extension.
type JoinMode uint8

const (
	Arc JoinMode = iota
	Round
	Bevel
	Miter
	MiterClip
	ArcClip
)

var joinNames = [...]string{
	Arc: "Arc", Round: "Round", Bevel: "Bevel",
	Miter: "Miter", MiterClip: "MiterClip", ArcClip: "ArcClip",
}

func (s JoinMode) String() string {
	if int(s) < len(joinNames) {
		return joinNames[s]
	}
	return "<unknown JoinMode>"
}

// CapMode selects the shape of line ends. The zero value
// means "not specified".
type CapMode uint8

const (
	NilCap CapMode = iota
	ButtCap
	SquareCap
	RoundCap
	CubicCap     // rasterx extension
	QuadraticCap // rasterx extension
)

var capNames = [...]string{
	NilCap: "NilCap", ButtCap: "ButtCap", SquareCap: "SquareCap",
	RoundCap: "RoundCap", CubicCap: "CubicCap", QuadraticCap: "QuadraticCap",
}

func (c CapMode) String() string {
	if int(c) < len(capNames) {
		return capNames[c]
	}
	return "<unknown CapMode>"
}

// GapMode selects how rasterx fills the gap left on the
// convex side of a join when the miter limit is exceeded.
type GapMode uint8

const (
	NilGap GapMode = iota
	FlatGap
	RoundGap
	CubicGap
	QuadraticGap
)

var gapNames = [...]string{
	NilGap: "NilGap", FlatGap: "FlatGap", RoundGap: "RoundGap",
	CubicGap: "CubicGap", QuadraticGap: "QuadraticGap",
}

func (g GapMode) String() string {
	if int(g) < len(gapNames) {
		return gapNames[g]
	}
	return "<unknown GapMode>"
}

// JoinOptions groups the junction and end settings of a stroke.
type JoinOptions struct {
	MiterLimit   fixed.Int26_6 // for the miter and arc joins
	LineJoin     JoinMode
	TrailLineCap CapMode // also used for the start when LeadLineCap is NilCap

	LeadLineCap CapMode // rasterx extension
	LineGap     GapMode // rasterx extension
}

// StrokeOptions is the pen sent to a Stroker, in device units.
type StrokeOptions struct {
	LineWidth fixed.Int26_6
	Join      JoinOptions
	Dash      DashOptions
}

// SetTarget sets the icon transform so that its view box
// fills the rectangle (x, y, w, h).
func (s *SvgIcon) SetTarget(x, y, w, h float64) {
	s.Transform = Identity.Translate(x, y).
		Scale(w/s.ViewBox.W, h/s.ViewBox.H).
		Translate(-s.ViewBox.X, -s.ViewBox.Y)
}

// Draw sends every path of the icon to the driver, with the
// icon transform applied. opacity multiplies the path opacities.
func (s *SvgIcon) Draw(d Driver, opacity float64) {
	for _, svgp := range s.SVGPaths {
		svgp.draw(d, opacity, s.Transform.Mult(svgp.Style.Transform))
	}
}

// sendPath forwards the segments of svgp, mapped by m.
func (svgp SvgPath) sendPath(d Drawer, m Matrix2D) {
	for _, op := range svgp.Path {
		op.drawTo(d, m)
	}
	d.Stop(false)
}

// strokeOptions resolves the unspecified caps and gaps, and
// scales the line width by the mean scale factor of m.
func (style PathStyle) strokeOptions(m Matrix2D) StrokeOptions {
	join := style.Join
	if join.LineGap == NilGap {
		join.LineGap = DefaultStyle.Join.LineGap
	}
	if join.TrailLineCap == NilCap {
		join.TrailLineCap = DefaultStyle.Join.TrailLineCap
	}
	if join.LeadLineCap == NilCap {
		join.LeadLineCap = join.TrailLineCap
	}
	scale := math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
	return StrokeOptions{
		LineWidth: fToFixed(style.LineWidth * scale),
		Join:      join,
		Dash:      style.Dash,
	}
}

// draw paints svgp in the device space given by m.
func (svgp SvgPath) draw(d Driver, opacity float64, m Matrix2D) {
	style := svgp.Style
	filler, stroker := d.SetupDrawers(style.FillerColor != nil, style.LinerColor != nil)

	if filler != nil {
		filler.Clear()
		filler.SetWinding(style.UseNonZeroWinding)
		svgp.sendPath(filler, m)
		filler.SetColor(transformPattern(style.FillerColor, m), style.FillOpacity*opacity)
		filler.Draw()
		filler.SetWinding(true)
	}

	if stroker != nil {
		stroker.Clear()
		stroker.SetStrokeOptions(style.strokeOptions(m))
		svgp.sendPath(stroker, m)
		stroker.SetColor(transformPattern(style.LinerColor, m), style.LineOpacity*opacity)
		stroker.Draw()
	}
}

// transformPattern maps the user space gradients to the
// device space, where the points sent to the drivers live.
// Bounding box gradients are resolved against the device path extent.
func transformPattern(p Pattern, t Matrix2D) Pattern {
	grad, ok := p.(Gradient)
	if !ok || grad.Units != rasterx.UserSpaceOnUse {
		return p
	}
	grad.Matrix = t.Mult(grad.Matrix)
	return grad
}

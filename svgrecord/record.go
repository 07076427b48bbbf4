// Records parsed SVG images as pictures, that is
// as the canvas commands a painting library would
// receive when drawing them.
package svgrecord

import (
	"fmt"
	"math"

	"github.com/benoitkugler/svgtoxaml/picture"
	"github.com/benoitkugler/svgtoxaml/svgicon"
	"github.com/benoitkugler/svgtoxaml/xaml"
	"go.uber.org/zap"
	"golang.org/x/image/math/fixed"
)

// DrawAttributes selects SVG features left out of the recording.
type DrawAttributes struct {
	// IgnoreOpacity records colors with their own alpha,
	// discarding the opacity properties.
	IgnoreOpacity bool
	// IgnoreClipPath skips the clip-path references.
	IgnoreClipPath bool
}

// Options controls the recording.
type Options struct {
	Ignore DrawAttributes
	// ErrorMode is used when parsing files.
	ErrorMode svgicon.ErrorMode
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Load parses the SVG file at `path` and records it.
func Load(path string, opts Options) (*picture.Picture, error) {
	icon, err := svgicon.ReadIcon(path, opts.ErrorMode, opts.Logger)
	if err != nil {
		return nil, err
	}
	return Record(icon, opts), nil
}

// Parser returns a parser loading SVG files with the given options.
func Parser(opts Options) xaml.Parser {
	return xaml.ParserFunc(func(path string) (*picture.Picture, error) {
		pic, err := Load(path, opts)
		if err != nil {
			return nil, fmt.Errorf("svg: %w", err)
		}
		return pic, nil
	})
}

type recorder struct {
	rec  picture.Recorder
	icon *svgicon.SvgIcon
	opts Options
	log  *zap.Logger
}

// Record returns the canvas commands drawing `icon`.
// Each path is recorded between a Save and a Restore, with
// the view box mapping as matrix and the clips it requires.
func Record(icon *svgicon.SvgIcon, opts Options) *picture.Picture {
	r := recorder{icon: icon, opts: opts, log: opts.Logger}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	viewport, cull := viewportTransform(icon)
	var bounds picture.Rect
	for i, svgp := range icon.SVGPaths {
		b := r.recordPath(svgp, viewport)
		if i == 0 {
			bounds = b
		} else {
			bounds = bounds.Union(b)
		}
	}
	if cull.IsEmpty() {
		cull = bounds
	}
	return r.rec.Finish(cull)
}

// viewportTransform returns the mapping from the user space
// to the image space, and the image rectangle, which is empty
// when the SVG has no dimension.
// The view box is centered and scaled to fit (xMidYMid meet).
func viewportTransform(icon *svgicon.SvgIcon) (picture.Matrix, picture.Rect) {
	vb := icon.ViewBox
	if !icon.HasViewBox || vb.W <= 0 || vb.H <= 0 {
		return picture.Identity, picture.RectXYWH(0, 0, icon.Width, icon.Height)
	}
	width, height := icon.Width, icon.Height
	if width <= 0 {
		width = vb.W
	}
	if height <= 0 {
		height = vb.H
	}
	scale := math.Min(width/vb.W, height/vb.H)
	tx := (width-vb.W*scale)/2 - vb.X*scale
	ty := (height-vb.H*scale)/2 - vb.Y*scale
	m := picture.Matrix{ScaleX: scale, ScaleY: scale, TransX: tx, TransY: ty}
	return m, picture.RectXYWH(0, 0, width, height)
}

// toMatrix converts an SVG transform.
func toMatrix(m svgicon.Matrix2D) picture.Matrix {
	return picture.Matrix{
		ScaleX: m.A, SkewX: m.C, TransX: m.E,
		SkewY: m.B, ScaleY: m.D, TransY: m.F,
	}
}

// matrixScale returns the mean scale factor of m,
// used for lengths such as stroke widths.
func matrixScale(m picture.Matrix) float64 {
	return math.Sqrt(math.Abs(m.ScaleX*m.ScaleY - m.SkewX*m.SkewY))
}

func toPoint(p fixed.Point26_6) picture.Point {
	return picture.Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}

// toPath converts the SVG path, in its user space.
func toPath(p svgicon.Path, nonZero bool) *picture.Path {
	out := &picture.Path{FillType: picture.EvenOdd}
	if nonZero {
		out.FillType = picture.Winding
	}
	for _, op := range p {
		switch op := op.(type) {
		case svgicon.MoveTo:
			out.Commands = append(out.Commands, picture.MoveTo(toPoint(fixed.Point26_6(op))))
		case svgicon.LineTo:
			out.Commands = append(out.Commands, picture.LineTo(toPoint(fixed.Point26_6(op))))
		case svgicon.QuadTo:
			out.Commands = append(out.Commands, picture.QuadTo{toPoint(op[0]), toPoint(op[1])})
		case svgicon.CubicTo:
			out.Commands = append(out.Commands, picture.CubicTo{toPoint(op[0]), toPoint(op[1]), toPoint(op[2])})
		case svgicon.Close:
			out.Commands = append(out.Commands, picture.Close{})
		}
	}
	return out
}

// clipPath returns the area of the clipPath element `id`,
// in the user space of the referencing element, or nil if
// it is unknown or empty.
func (r *recorder) clipPath(id string, transform svgicon.Matrix2D) *picture.Path {
	clip := r.icon.ClipPaths[id]
	if clip == nil {
		r.log.Debug("unknown clip path", zap.String("id", id))
		return nil
	}
	var out *picture.Path
	for _, child := range clip.Paths {
		m := toMatrix(transform.Mult(child.Style.Transform))
		p := toPath(child.Path, child.Style.UseNonZeroWinding).Transform(m)
		if out == nil {
			out = p
		} else {
			out = out.Union(p)
		}
	}
	return out
}

// recordPath records the commands drawing svgp, and
// returns the bounds of its geometry in image space.
func (r *recorder) recordPath(svgp svgicon.SvgPath, viewport picture.Matrix) picture.Rect {
	style := svgp.Style
	transform := toMatrix(style.Transform)
	local := toPath(svgp.Path, style.UseNonZeroWinding)
	path := local.Transform(transform)

	r.rec.Save()
	if r.icon.HasViewBox {
		vb := r.icon.ViewBox
		r.rec.ClipRect(picture.RectXYWH(vb.X, vb.Y, vb.W, vb.H), picture.Intersect, true)
	}
	r.rec.SetMatrix(viewport)
	if !r.opts.Ignore.IgnoreClipPath {
		// nested clips are intersected when drawing
		for _, ref := range style.Clips {
			if clip := r.clipPath(ref.ID, ref.Transform); clip != nil {
				r.rec.ClipPath(clip, picture.Intersect, true)
			}
		}
	}

	pb := paintBuilder{
		local:         local.TightBounds(),
		transform:     transform,
		ignoreOpacity: r.opts.Ignore.IgnoreOpacity,
	}
	fill := pb.shader(style.FillerColor, style.FillOpacity)
	stroke := pb.shader(style.LinerColor, style.LineOpacity)
	switch {
	case fill != nil && stroke != nil && shadersEqual(fill, stroke):
		paint := pb.strokePaint(style, stroke)
		paint.Style = picture.StrokeAndFill
		r.rec.DrawPath(path, &paint)
	default:
		if fill != nil {
			paint := picture.DefaultPaint()
			paint.Shader = fill
			r.rec.DrawPath(path, &paint)
		}
		if stroke != nil {
			paint := pb.strokePaint(style, stroke)
			r.rec.DrawPath(path, &paint)
		}
	}
	r.rec.Restore()

	b := path.Bounds()
	tl := viewport.MapPoint(picture.Point{X: b.Left, Y: b.Top})
	br := viewport.MapPoint(picture.Point{X: b.Right, Y: b.Bottom})
	return picture.Rect{Left: tl.X, Top: tl.Y, Right: br.X, Bottom: br.Y}
}

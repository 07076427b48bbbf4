// Implements a raster backend to render SVG images,
// by wrapping rasterx. It is used to generate previews
// of the converted images.
package svgraster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/benoitkugler/svgtoxaml/svgicon"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
)

var _ svgicon.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer draws on an image, using rasterx.
type Renderer struct {
	dasher stroker // to avoid shared state
	filler filler  // we use separated instance
}

// NewRenderer returns a renderer with default values.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{
		dasher: stroker{rasterx.NewDasher(width, height, scanner)},
		filler: filler{rasterx.NewFiller(width, height, scanner)},
	}
}

// SetupDrawers implements svgicon.Driver.
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgicon.Filler, s svgicon.Stroker) {
	if willFill {
		f = rd.filler
	}
	if willStroke {
		s = rd.dasher
	}
	return f, s
}

// naturalSize returns the size of the icon in pixels,
// or the given dimensions if they are positive.
func naturalSize(icon *svgicon.SvgIcon, width, height int) (int, int) {
	if width <= 0 {
		width = int(math.Ceil(icon.Width))
		if width <= 0 {
			width = int(math.Ceil(icon.ViewBox.W))
		}
	}
	if height <= 0 {
		height = int(math.Ceil(icon.Height))
		if height <= 0 {
			height = int(math.Ceil(icon.ViewBox.H))
		}
	}
	return width, height
}

// RasterSVGIconToImage uses a ScannerGV instance to render the
// icon into an image of the given size and returns it.
// Zero dimensions are replaced by the natural size of the icon.
func RasterSVGIconToImage(icon *svgicon.SvgIcon, width, height int) *image.RGBA {
	w, h := naturalSize(icon, width, height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		icon.SetTarget(0, 0, float64(w), float64(h))
	}

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	renderer := NewRenderer(w, h, scanner)
	icon.Draw(renderer, 1.0)
	return img
}

// RenderPNG renders the icon and writes it as a PNG image.
func RenderPNG(icon *svgicon.SvgIcon, width, height int, out io.Writer) error {
	img := RasterSVGIconToImage(icon, width, height)
	if img.Bounds().Empty() {
		return fmt.Errorf("svg has no dimension")
	}
	return png.Encode(out, img)
}

// RenderFile parses the SVG file `svgPath` and writes its preview,
// at its natural size, to `pngPath`. log may be nil.
func RenderFile(svgPath, pngPath string, errMode svgicon.ErrorMode, log *zap.Logger) error {
	icon, err := svgicon.ReadIcon(svgPath, errMode, log)
	if err != nil {
		return err
	}
	f, err := os.Create(pngPath)
	if err != nil {
		return err
	}
	if err = RenderPNG(icon, 0, 0, f); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", svgPath, err)
	}
	return f.Close()
}

func toRasterxGradient(grad svgicon.Gradient) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case svgicon.Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
		isRadial = false
	case svgicon.Radial:
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4] // in rasterx fr is ignored
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i := range grad.Stops {
		stops[i] = rasterx.GradStop(grad.Stops[i])
	}
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Bounds:   grad.Bounds,
		Matrix:   grad.Matrix,
		Spread:   grad.Spread,
		Units:    grad.Units,
		IsRadial: isRadial,
	}
}

// resolve gradient color
func setColorFromPattern(color svgicon.Pattern, opacity float64, scanner rasterx.Scanner) {
	switch fillerColor := color.(type) {
	case svgicon.PlainColor:
		scanner.SetColor(rasterx.ApplyOpacity(fillerColor, opacity))
	case svgicon.Gradient:
		if fillerColor.Units == rasterx.ObjectBoundingBox {
			fRect := scanner.GetPathExtent()
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			fillerColor.Bounds.X, fillerColor.Bounds.Y = mnx, mny
			fillerColor.Bounds.W, fillerColor.Bounds.H = mxx-mnx, mxy-mny
		}
		rasterxGradient := toRasterxGradient(fillerColor)
		scanner.SetColor(rasterxGradient.GetColorFunction(opacity))
	}
}

// filler adapts rasterx.Filler to svgicon.Filler
type filler struct {
	*rasterx.Filler
}

func (f filler) SetColor(color svgicon.Pattern, opacity float64) {
	setColorFromPattern(color, opacity, f.Scanner)
}

// stroker adapts rasterx.Dasher to svgicon.Stroker
type stroker struct {
	*rasterx.Dasher
}

func (s stroker) SetColor(color svgicon.Pattern, opacity float64) {
	setColorFromPattern(color, opacity, s.Scanner)
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgicon.Round:     rasterx.Round,
		svgicon.Bevel:     rasterx.Bevel,
		svgicon.Miter:     rasterx.Miter,
		svgicon.MiterClip: rasterx.MiterClip,
		svgicon.Arc:       rasterx.Arc,
		svgicon.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgicon.NilCap:       rasterx.ButtCap,
		svgicon.ButtCap:      rasterx.ButtCap,
		svgicon.SquareCap:    rasterx.SquareCap,
		svgicon.RoundCap:     rasterx.RoundCap,
		svgicon.CubicCap:     rasterx.CubicCap,
		svgicon.QuadraticCap: rasterx.QuadraticCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		svgicon.NilGap:       rasterx.FlatGap,
		svgicon.FlatGap:      rasterx.FlatGap,
		svgicon.RoundGap:     rasterx.RoundGap,
		svgicon.CubicGap:     rasterx.CubicGap,
		svgicon.QuadraticGap: rasterx.QuadraticGap,
	}
)

func (s stroker) SetStrokeOptions(options svgicon.StrokeOptions) {
	s.SetStroke(
		options.LineWidth, options.Join.MiterLimit, capToFunc[options.Join.LeadLineCap],
		capToFunc[options.Join.TrailLineCap], gapToFunc[options.Join.LineGap],
		joinToJoin[options.Join.LineJoin], options.Dash.Dash, options.Dash.DashOffset,
	)
}

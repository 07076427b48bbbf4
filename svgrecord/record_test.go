package svgrecord

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgtoxaml/picture"
	"github.com/benoitkugler/svgtoxaml/svgicon"
	"github.com/benoitkugler/svgtoxaml/xaml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func record(t *testing.T, svg string, opts Options) *picture.Picture {
	t.Helper()
	icon, err := svgicon.ReadIconStream(strings.NewReader(svg), svgicon.StrictErrorMode, nil)
	require.NoError(t, err)
	return Record(icon, opts)
}

func rectPath(x, y, w, h float64) *picture.Path {
	return &picture.Path{Commands: []picture.PathCommand{
		picture.MoveTo{X: x, Y: y},
		picture.LineTo{X: x + w, Y: y},
		picture.LineTo{X: x + w, Y: y + h},
		picture.LineTo{X: x, Y: y + h},
		picture.Close{},
	}}
}

// drawPaths returns the DrawPath commands of the picture.
func drawPaths(pic *picture.Picture) []picture.DrawPath {
	var out []picture.DrawPath
	for _, cmd := range pic.Commands {
		if d, ok := cmd.(picture.DrawPath); ok {
			out = append(out, d)
		}
	}
	return out
}

func TestRecordViewBox(t *testing.T) {
	pic := record(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20" viewBox="0 0 10 10">
		<rect x="1" y="1" width="2" height="2" fill="red" opacity="0.5"/>
	</svg>`, Options{})

	paint := picture.DefaultPaint()
	paint.Shader = picture.ColorShader{Color: picture.Color{Alpha: 128, Red: 255}}
	expected := &picture.Picture{
		CullRect: picture.RectXYWH(0, 0, 20, 20),
		Commands: []picture.Command{
			picture.Save{},
			picture.ClipRect{Rect: picture.RectXYWH(0, 0, 10, 10), Operation: picture.Intersect, Antialias: true},
			picture.SetMatrix{Matrix: picture.Matrix{ScaleX: 2, ScaleY: 2}},
			picture.DrawPath{Path: rectPath(1, 1, 2, 2), Paint: &paint},
			picture.Restore{},
		},
	}
	if diff := cmp.Diff(expected, pic); diff != "" {
		t.Errorf("unexpected picture (-want +got):\n%s", diff)
	}
}

func TestViewportTransform(t *testing.T) {
	// the view box is centered
	m, cull := viewportTransform(&svgicon.SvgIcon{
		HasViewBox: true, ViewBox: svgicon.Bounds{X: 10, Y: 10, W: 10, H: 20},
		Width: 40, Height: 40,
	})
	assert.Equal(t, picture.RectXYWH(0, 0, 40, 40), cull)
	assert.Equal(t, picture.Matrix{ScaleX: 2, ScaleY: 2, TransX: -10, TransY: -20}, m)

	// no dimensions: the view box size is used
	m, cull = viewportTransform(&svgicon.SvgIcon{HasViewBox: true, ViewBox: svgicon.Bounds{X: 5, W: 10, H: 20}})
	assert.Equal(t, picture.RectXYWH(0, 0, 10, 20), cull)
	assert.Equal(t, picture.Matrix{ScaleX: 1, ScaleY: 1, TransX: -5}, m)

	m, cull = viewportTransform(&svgicon.SvgIcon{Width: 3, Height: 4})
	assert.Equal(t, picture.RectXYWH(0, 0, 3, 4), cull)
	assert.Equal(t, picture.Identity, m)
}

func TestRecordTransformedStroke(t *testing.T) {
	pic := record(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<path transform="scale(2)" stroke="blue" stroke-width="3" stroke-dasharray="1" fill="none" d="M0 0 L1 0"/>
	</svg>`, Options{})

	expectedPath := &picture.Path{Commands: []picture.PathCommand{
		picture.MoveTo{}, picture.LineTo{X: 2},
	}}
	paint := picture.Paint{
		Style:       picture.Stroke,
		Shader:      picture.ColorShader{Color: picture.Color{Alpha: 255, Blue: 255}},
		StrokeWidth: 6,
		StrokeCap:   picture.ButtCap,
		StrokeJoin:  picture.MiterJoin,
		StrokeMiter: 4,
		PathEffect:  picture.DashPathEffect{Intervals: []float64{2, 2}},
		Antialias:   true,
	}
	expected := &picture.Picture{
		CullRect: picture.Rect{Right: 2},
		Commands: []picture.Command{
			picture.Save{},
			picture.SetMatrix{Matrix: picture.Identity},
			picture.DrawPath{Path: expectedPath, Paint: &paint},
			picture.Restore{},
		},
	}
	if diff := cmp.Diff(expected, pic); diff != "" {
		t.Errorf("unexpected picture (-want +got):\n%s", diff)
	}
}

func TestRecordFillAndStroke(t *testing.T) {
	pic := record(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<rect width="1" height="1" fill="red" stroke="red" stroke-linejoin="round" stroke-linecap="square"/>
		<rect width="1" height="1" fill="red" stroke="blue" fill-rule="evenodd"/>
	</svg>`, Options{})

	draws := drawPaths(pic)
	require.Len(t, draws, 3)
	assert.Equal(t, picture.StrokeAndFill, draws[0].Paint.Style)
	assert.Equal(t, picture.RoundJoin, draws[0].Paint.StrokeJoin)
	assert.Equal(t, picture.SquareCap, draws[0].Paint.StrokeCap)

	assert.Equal(t, picture.Fill, draws[1].Paint.Style)
	assert.Equal(t, picture.Stroke, draws[2].Paint.Style)
	assert.Equal(t, picture.EvenOdd, draws[1].Path.FillType)
	// fill and stroke share the geometry
	assert.Same(t, draws[1].Path, draws[2].Path)
}

func TestRecordClipPath(t *testing.T) {
	const svg = `<svg xmlns="http://www.w3.org/2000/svg">
		<defs>
			<clipPath id="c"><rect width="5" height="5"/></clipPath>
			<clipPath id="u"><rect width="5" height="5"/><rect x="2" y="2" width="5" height="5"/></clipPath>
		</defs>
		<rect width="10" height="10" clip-path="url(#c)"/>
		<g transform="translate(10 0)" clip-path="url(#u)"><rect width="10" height="10"/></g>
		<rect width="10" height="10" clip-path="url(#missing)"/>
	</svg>`

	pic := record(t, svg, Options{})
	var clips []picture.ClipPath
	for _, cmd := range pic.Commands {
		if c, ok := cmd.(picture.ClipPath); ok {
			clips = append(clips, c)
		}
	}
	require.Len(t, clips, 2)
	if diff := cmp.Diff(rectPath(0, 0, 5, 5), clips[0].Path); diff != "" {
		t.Errorf("unexpected clip (-want +got):\n%s", diff)
	}
	// union of the children, in the group space
	assert.Equal(t, picture.EvenOdd, clips[1].Path.FillType)
	b := clips[1].Path.Bounds()
	assert.InDelta(t, 10, b.Left, 1e-9)
	assert.InDelta(t, 17, b.Right, 1e-9)
	assert.InDelta(t, 7, b.Bottom, 1e-9)

	pic = record(t, svg, Options{Ignore: DrawAttributes{IgnoreClipPath: true}})
	for _, cmd := range pic.Commands {
		_, isClip := cmd.(picture.ClipPath)
		assert.False(t, isClip)
	}
}

func TestRecordNestedClipPaths(t *testing.T) {
	const svg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 20">
		<clipPath id="left"><rect width="10" height="20"/></clipPath>
		<clipPath id="top"><rect width="20" height="10"/></clipPath>
		<g clip-path="url(#left)">
			<rect width="20" height="20" clip-path="url(#top)"/>
		</g>
	</svg>`

	pic := record(t, svg, Options{})
	var clips []picture.ClipPath
	for _, cmd := range pic.Commands {
		if c, ok := cmd.(picture.ClipPath); ok {
			clips = append(clips, c)
		}
	}
	require.Len(t, clips, 2)
	assert.Equal(t, picture.Rect{Right: 10, Bottom: 20}, clips[0].Path.Bounds())
	assert.Equal(t, picture.Rect{Right: 20, Bottom: 10}, clips[1].Path.Bounds())

	// the drawing is clipped by the view box and both clip paths
	out := xaml.ToXaml(pic, xaml.Options{})
	assert.Contains(t, out, "<StreamGeometry>F0 ")
	assert.Equal(t, 1, strings.Count(out, "<GeometryDrawing"))
}

func TestRecordNonZeroClipPath(t *testing.T) {
	// the second contour overlaps the first one
	const svg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 20">
		<clipPath id="c"><path d="M0 0H10V10H0Z M5 2H15V8H5Z"/></clipPath>
		<rect width="20" height="20" clip-path="url(#c)"/>
	</svg>`

	pic := record(t, svg, Options{})
	var clipRect *picture.Path
	var clipPath *picture.Path
	for _, cmd := range pic.Commands {
		switch cmd := cmd.(type) {
		case picture.ClipRect:
			clipRect = new(picture.Path)
			clipRect.AddRect(cmd.Rect)
		case picture.ClipPath:
			clipPath = cmd.Path
		}
	}
	require.NotNil(t, clipRect)
	require.NotNil(t, clipPath)
	assert.Equal(t, picture.Winding, clipPath.FillType)

	// the effective clip keeps the overlap of the two contours
	effective := clipRect.Intersect(clipPath)
	b := effective.Bounds()
	assert.InDelta(t, 0, b.Left, 1e-9)
	assert.InDelta(t, 15, b.Right, 1e-9)
	assert.InDelta(t, 10, b.Bottom, 1e-9)
	area := 0.
	for _, c := range effective.Flatten() {
		var a float64
		for i := range c {
			next := c[(i+1)%len(c)]
			a += c[i].X*next.Y - next.X*c[i].Y
		}
		area += a / 2
	}
	// 100 + 60 - 30, whatever the orientation of the single contour
	assert.InDelta(t, 130, math.Abs(area), 1e-6)
}

func TestRecordGradients(t *testing.T) {
	pic := record(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<defs>
			<linearGradient id="g">
				<stop offset="0" stop-color="red"/>
				<stop offset="2" stop-color="blue" stop-opacity="0.5"/>
			</linearGradient>
			<radialGradient id="r" cx="0.5" cy="0.5" r="0.5" fx="0.25" spreadMethod="repeat" gradientUnits="userSpaceOnUse">
				<stop offset="0.5" stop-color="red"/>
				<stop offset="0.2" stop-color="blue"/>
			</radialGradient>
			<linearGradient id="single"><stop offset="0" stop-color="lime"/></linearGradient>
			<linearGradient id="empty"/>
		</defs>
		<rect x="10" y="20" width="100" height="50" fill="url(#g)"/>
		<rect width="1" height="1" fill="url(#r)"/>
		<rect width="1" height="1" fill="url(#single)"/>
		<rect width="1" height="1" fill="url(#empty)"/>
	</svg>`, Options{})

	draws := drawPaths(pic)
	require.Len(t, draws, 3)

	expectedLinear := picture.LinearGradientShader{
		Start:       picture.Point{},
		End:         picture.Point{X: 1},
		Colors:      []picture.Color{{Alpha: 255, Red: 255}, {Alpha: 128, Blue: 255}},
		ColorPos:    []float64{0, 1},
		Mode:        picture.Clamp,
		LocalMatrix: &picture.Matrix{ScaleX: 100, ScaleY: 50, TransX: 10, TransY: 20},
	}
	if diff := cmp.Diff(picture.Shader(expectedLinear), draws[0].Paint.Shader); diff != "" {
		t.Errorf("unexpected linear gradient (-want +got):\n%s", diff)
	}

	expectedRadial := picture.TwoPointConicalGradientShader{
		Start:     picture.Point{X: 0.5, Y: 0.5},
		End:       picture.Point{X: 0.25, Y: 0.5},
		EndRadius: 0.5,
		Colors:    []picture.Color{{Alpha: 255, Red: 255}, {Alpha: 255, Blue: 255}},
		ColorPos:  []float64{0.5, 0.5},
		Mode:      picture.Repeat,
	}
	if diff := cmp.Diff(picture.Shader(expectedRadial), draws[1].Paint.Shader); diff != "" {
		t.Errorf("unexpected radial gradient (-want +got):\n%s", diff)
	}

	assert.Equal(t, picture.ColorShader{Color: picture.Color{Alpha: 255, Green: 255}}, draws[2].Paint.Shader)
}

func TestIgnoreOpacity(t *testing.T) {
	pic := record(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<rect width="1" height="1" fill="red" fill-opacity="0.2"/>
	</svg>`, Options{Ignore: DrawAttributes{IgnoreOpacity: true}})
	draws := drawPaths(pic)
	require.Len(t, draws, 1)
	assert.Equal(t, picture.ColorShader{Color: picture.Color{Alpha: 255, Red: 255}}, draws[0].Paint.Shader)
}

func TestDashEffect(t *testing.T) {
	assert.Nil(t, dashEffect(svgicon.DashOptions{}, 1))
	assert.Nil(t, dashEffect(svgicon.DashOptions{Dash: []float64{0, 0}}, 1))
	assert.Nil(t, dashEffect(svgicon.DashOptions{Dash: []float64{1, -1}}, 1))
	assert.Equal(t,
		picture.DashPathEffect{Intervals: []float64{2, 4, 6, 2, 4, 6}, Phase: 1},
		dashEffect(svgicon.DashOptions{Dash: []float64{1, 2, 3}, DashOffset: 0.5}, 2))
}

func TestParser(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "icon.svg")
	require.NoError(t, os.WriteFile(valid, []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4">
		<rect width="2" height="2" fill="#ff0000"/>
	</svg>`), 0o644))
	invalid := filepath.Join(dir, "broken.svg")
	require.NoError(t, os.WriteFile(invalid, []byte(`<svg><path d="M0 0 L"/></svg>`), 0o644))

	pic, err := Load(valid, Options{})
	require.NoError(t, err)
	assert.Equal(t, picture.RectXYWH(0, 0, 4, 4), pic.CullRect)

	_, err = Load(filepath.Join(dir, "missing.svg"), Options{})
	assert.Error(t, err)

	opts := xaml.NewBatchOptions(Parser(Options{}))
	out, err := xaml.ConvertFiles([]string{valid, invalid}, opts)
	assert.Contains(t, out, `Brush="#FFFF0000"`)
	assert.Contains(t, out, `x:Key="_icon"`)

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	var fileErr *xaml.FileError
	require.True(t, errors.As(errs[0], &fileErr))
	assert.Equal(t, invalid, fileErr.Path)
}

func TestLoadLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4">
		<foo/><rect width="2" height="2"/>
	</svg>`), 0o644))

	// each load reports to its own logger
	core1, logs1 := observer.New(zapcore.WarnLevel)
	core2, logs2 := observer.New(zapcore.WarnLevel)
	_, err := Load(path, Options{ErrorMode: svgicon.WarnErrorMode, Logger: zap.New(core1)})
	require.NoError(t, err)
	assert.Equal(t, 1, logs1.Len())
	assert.Equal(t, 0, logs2.Len())

	_, err = Load(path, Options{ErrorMode: svgicon.WarnErrorMode, Logger: zap.New(core2)})
	require.NoError(t, err)
	assert.Equal(t, 1, logs1.Len())
	assert.Equal(t, 1, logs2.Len())

	_, err = Load(path, Options{ErrorMode: svgicon.WarnErrorMode})
	assert.NoError(t, err, "no logger is required")
}

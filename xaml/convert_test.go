package xaml

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/benoitkugler/svgtoxaml/picture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var red = picture.Color{Alpha: 255, Red: 255}

func square(x, y, size float64) *picture.Path {
	var p picture.Path
	p.AddRect(picture.RectXYWH(x, y, size, size))
	return &p
}

func solidFill(c picture.Color) *picture.Paint {
	paint := picture.DefaultPaint()
	paint.Shader = picture.ColorShader{Color: c}
	return &paint
}

func TestToXamlSolidFill(t *testing.T) {
	pic := &picture.Picture{Commands: []picture.Command{
		picture.DrawPath{Path: square(0, 0, 10), Paint: solidFill(red)},
	}}
	got := ToXaml(pic, Options{})
	expected := strings.Join([]string{
		`<DrawingGroup>`,
		`  <GeometryDrawing Brush="#FFFF0000" Geometry="F1 M0 0L10 0L10 10L0 10Z"/>`,
		`</DrawingGroup>`,
	}, NewLine)
	assert.Equal(t, expected, got)
}

func TestToXamlImage(t *testing.T) {
	pic := &picture.Picture{Commands: []picture.Command{
		picture.DrawPath{Path: square(0, 0, 10), Paint: solidFill(red)},
	}}
	got := ToXaml(pic, Options{GenerateImage: true, Indent: "\t", Key: "_icon"})
	expected := strings.Join([]string{
		"\t" + `<Image x:Key="_icon">`,
		"\t" + `  <DrawingImage>`,
		"\t" + `    <DrawingGroup>`,
		"\t" + `      <GeometryDrawing Brush="#FFFF0000" Geometry="F1 M0 0L10 0L10 10L0 10Z"/>`,
		"\t" + `    </DrawingGroup>`,
		"\t" + `  </DrawingImage>`,
		"\t" + `</Image>`,
	}, NewLine)
	assert.Equal(t, expected, got)
	assert.False(t, strings.HasSuffix(got, NewLine))
}

func TestToXamlEmpty(t *testing.T) {
	assert.Equal(t, "<DrawingGroup>"+NewLine+"</DrawingGroup>", ToXaml(nil, Options{}))
	assert.Equal(t, "<DrawingGroup>"+NewLine+"</DrawingGroup>", ToXaml(&picture.Picture{}, Options{}))
}

func TestToXamlNoGroupForIdentity(t *testing.T) {
	pic := &picture.Picture{Commands: []picture.Command{
		picture.Save{},
		picture.SetMatrix{Matrix: picture.Identity},
		picture.DrawPath{Path: square(0, 0, 10), Paint: solidFill(red)},
		picture.Restore{},
	}}
	got := ToXaml(pic, Options{})
	// only the root group
	assert.Equal(t, 1, strings.Count(got, "<DrawingGroup>"))
	assert.NotContains(t, got, "MatrixTransform")
	assert.NotContains(t, got, "ClipGeometry")
}

var matrixAttr = regexp.MustCompile(`<MatrixTransform Matrix="([^"]*)"/>`)

func TestToXamlTransform(t *testing.T) {
	m := picture.Matrix{ScaleX: 2, SkewX: 0.5, TransX: 10, SkewY: 0.25, ScaleY: 3, TransY: -4}
	pic := &picture.Picture{Commands: []picture.Command{
		picture.SetMatrix{Matrix: m},
		picture.DrawPath{Path: square(0, 0, 10), Paint: solidFill(red)},
	}}
	got := ToXaml(pic, Options{})

	matches := matrixAttr.FindAllStringSubmatch(got, -1)
	require.Len(t, matches, 1)
	assert.Equal(t, formatMatrix(m), matches[0][1])
	assert.Equal(t, "2,0.25,0.5,3,10,-4", matches[0][1])

	expected := strings.Join([]string{
		`<DrawingGroup>`,
		`  <DrawingGroup>`,
		`    <DrawingGroup.Transform>`,
		`      <MatrixTransform Matrix="2,0.25,0.5,3,10,-4"/>`,
		`    </DrawingGroup.Transform>`,
		`    <GeometryDrawing Brush="#FFFF0000" Geometry="F1 M0 0L10 0L10 10L0 10Z"/>`,
		`  </DrawingGroup>`,
		`</DrawingGroup>`,
	}, NewLine)
	assert.Equal(t, expected, got)
}

func TestToXamlClip(t *testing.T) {
	pic := &picture.Picture{Commands: []picture.Command{
		picture.ClipRect{Rect: picture.RectXYWH(0, 0, 5, 5), Operation: picture.Intersect},
		picture.DrawPath{Path: square(0, 0, 10), Paint: solidFill(red)},
	}}
	got := ToXaml(pic, Options{})
	expected := strings.Join([]string{
		`<DrawingGroup>`,
		`  <DrawingGroup>`,
		`    <DrawingGroup.ClipGeometry>`,
		`      <StreamGeometry>F1 M0 0L5 0L5 5L0 5Z</StreamGeometry>`,
		`    </DrawingGroup.ClipGeometry>`,
		`    <GeometryDrawing Brush="#FFFF0000" Geometry="F1 M0 0L10 0L10 10L0 10Z"/>`,
		`  </DrawingGroup>`,
		`</DrawingGroup>`,
	}, NewLine)
	assert.Equal(t, expected, got)
}

func TestToXamlClipIntersection(t *testing.T) {
	pic := &picture.Picture{Commands: []picture.Command{
		picture.ClipRect{Rect: picture.RectXYWH(0, 0, 10, 10)},
		picture.ClipPath{Path: square(5, 5, 10)},
		picture.DrawPath{Path: square(0, 0, 20), Paint: solidFill(red)},
	}}
	got := ToXaml(pic, Options{})
	// the intersection of two rectangles is built with the even-odd rule
	assert.Contains(t, got, "<StreamGeometry>F0 M")
	assert.Equal(t, 1, strings.Count(got, "<StreamGeometry>"))
}

func TestSaveRestoreDiscipline(t *testing.T) {
	m1 := picture.Matrix{ScaleX: 2, ScaleY: 2}
	m2 := picture.Matrix{ScaleX: 1, ScaleY: 1, TransX: 5}
	it := newInterpreter("", zap.NewNop())

	it.execute(picture.SetMatrix{Matrix: m1})
	it.execute(picture.ClipRect{Rect: picture.RectXYWH(0, 0, 10, 10)})
	it.execute(picture.Save{})
	it.execute(picture.SetMatrix{Matrix: m2})
	it.execute(picture.ClipRect{Rect: picture.RectXYWH(1, 1, 2, 2)})
	it.execute(picture.Save{})
	it.execute(picture.SetMatrix{Matrix: picture.Identity})
	it.execute(picture.ClipPath{Path: square(0, 0, 1)})
	assert.Len(t, it.clips, 3)

	it.execute(picture.Restore{})
	assert.Equal(t, m2, it.matrix)
	assert.Len(t, it.clips, 2)

	it.execute(picture.Restore{})
	assert.Equal(t, m1, it.matrix)
	require.Len(t, it.clips, 1)
	assert.Equal(t, picture.RectXYWH(0, 0, 10, 10), it.clips[0].path.Bounds())

	// underflow is a no-op
	it.execute(picture.Restore{})
	assert.Equal(t, m1, it.matrix)
	assert.Len(t, it.clips, 1)
}

func TestSaveCopiesClips(t *testing.T) {
	it := newInterpreter("", zap.NewNop())
	it.execute(picture.ClipRect{Rect: picture.RectXYWH(0, 0, 10, 10)})
	it.execute(picture.Save{})
	it.execute(picture.ClipRect{Rect: picture.RectXYWH(0, 0, 5, 5)})
	it.execute(picture.Restore{})
	require.Len(t, it.clips, 1)
	// the snapshot must not share the backing array with the live list
	it.execute(picture.ClipRect{Rect: picture.RectXYWH(2, 2, 1, 1)})
	it.execute(picture.Save{})
	it.execute(picture.Restore{})
	assert.Len(t, it.clips, 2)
}

func TestUnsupportedCommands(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	pic := &picture.Picture{Commands: []picture.Command{
		picture.SaveLayer{Count: 1},
		picture.DrawImage{Image: &picture.Image{Width: 1, Height: 1}},
		picture.DrawTextBlob{TextBlob: &picture.TextBlob{}},
		picture.DrawText{Text: "abc"},
		picture.DrawTextOnPath{Text: "abc", Path: square(0, 0, 1)},
		picture.Restore{},
	}}
	got := ToXaml(pic, Options{Logger: zap.New(core)})
	assert.Equal(t, "<DrawingGroup>"+NewLine+"</DrawingGroup>", got)
	assert.Equal(t, 5, logs.FilterMessage("unsupported command").Len())
	assert.Equal(t, 2, logs.FilterMessageSnippet("restore without matching save").Len())
}

func TestLinearGradientFill(t *testing.T) {
	paint := picture.DefaultPaint()
	paint.Shader = picture.LinearGradientShader{
		Start:    picture.Point{X: 0, Y: 0},
		End:      picture.Point{X: 1, Y: 0},
		Colors:   []picture.Color{red, {Alpha: 255, Blue: 255}},
		ColorPos: []float64{0, 1},
		Mode:     picture.Mirror,
		LocalMatrix: &picture.Matrix{
			ScaleX: 10, ScaleY: 10,
		},
	}
	pic := &picture.Picture{Commands: []picture.Command{
		picture.DrawPath{Path: square(0, 0, 10), Paint: &paint},
	}}
	got := ToXaml(pic, Options{})
	expected := strings.Join([]string{
		`<DrawingGroup>`,
		`  <GeometryDrawing Geometry="F1 M0 0L10 0L10 10L0 10Z">`,
		`    <GeometryDrawing.Brush>`,
		`      <LinearGradientBrush StartPoint="0,0" EndPoint="10,0" SpreadMethod="Reflect">`,
		`        <LinearGradientBrush.GradientStops>`,
		`          <GradientStop Offset="0" Color="#FFFF0000"/>`,
		`          <GradientStop Offset="1" Color="#FF0000FF"/>`,
		`        </LinearGradientBrush.GradientStops>`,
		`      </LinearGradientBrush>`,
		`    </GeometryDrawing.Brush>`,
		`  </GeometryDrawing>`,
		`</DrawingGroup>`,
	}, NewLine)
	assert.Equal(t, expected, got)
}

var radiusAttr = regexp.MustCompile(`Radius="([^"]*)"`)

func TestRadialRadiusScaling(t *testing.T) {
	for _, tc := range []struct {
		radius, width float64
		local         *picture.Matrix
		expected      float64
	}{
		{5, 10, nil, 0.5},
		{3, 4, nil, 0.75},
		{2, 8, &picture.Matrix{ScaleX: 3, ScaleY: 3, TransX: 100}, 0.75},
	} {
		shader := picture.TwoPointConicalGradientShader{
			Start:       picture.Point{X: 1, Y: 1},
			End:         picture.Point{X: 1, Y: 1},
			EndRadius:   tc.radius,
			Colors:      []picture.Color{red},
			ColorPos:    []float64{0},
			LocalMatrix: tc.local,
		}
		out := painter{log: zap.NewNop()}.brush(shader, picture.RectXYWH(0, 0, tc.width, 1), "")
		m := radiusAttr.FindStringSubmatch(out)
		require.Len(t, m, 2)
		v, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		assert.InDelta(t, tc.expected, v, 1e-9)
		assert.Contains(t, out, `SpreadMethod="Pad"`)
	}
}

func TestUnsupportedShader(t *testing.T) {
	pt := painter{log: zap.NewNop()}
	assert.Empty(t, pt.brush(picture.PictureShader{}, picture.Rect{}, ""))

	paint := picture.DefaultPaint()
	paint.Shader = picture.PictureShader{}
	pic := &picture.Picture{Commands: []picture.Command{
		picture.DrawPath{Path: square(0, 0, 10), Paint: &paint},
	}}
	assert.Contains(t, ToXaml(pic, Options{}), `<GeometryDrawing Geometry="F1 M0 0L10 0L10 10L0 10Z"/>`)
}

var dashAttr = regexp.MustCompile(`<DashStyle Dashes="([^"]*)" Offset="([^"]*)"/>`)

func TestPenDash(t *testing.T) {
	paint := picture.DefaultPaint()
	paint.Style = picture.Stroke
	paint.Shader = picture.ColorShader{Color: red}
	paint.StrokeWidth = 4
	paint.StrokeMiter = 10
	paint.PathEffect = picture.DashPathEffect{Intervals: []float64{8, 4, 2}, Phase: 6}

	out := painter{log: zap.NewNop()}.pen(&paint, picture.Rect{}, "")
	m := dashAttr.FindStringSubmatch(out)
	require.Len(t, m, 3)
	assert.Equal(t, "2,1,0.5", m[1])
	assert.Equal(t, "1.5", m[2])

	expected := strings.Join([]string{
		`<Pen Brush="#FFFF0000" Thickness="4">`,
		`  <Pen.DashStyle>`,
		`    <DashStyle Dashes="2,1,0.5" Offset="1.5"/>`,
		`  </Pen.DashStyle>`,
		`</Pen>`,
		``,
	}, NewLine)
	assert.Equal(t, expected, out)
}

func TestPenAttributes(t *testing.T) {
	pt := painter{log: zap.NewNop()}

	paint := picture.Paint{Style: picture.Stroke, StrokeWidth: 1, StrokeMiter: 10, Shader: picture.ColorShader{Color: red}}
	assert.Equal(t, `<Pen Brush="#FFFF0000"/>`+NewLine, pt.pen(&paint, picture.Rect{}, ""))

	paint.StrokeCap = picture.RoundCap
	paint.StrokeJoin = picture.BevelJoin
	paint.StrokeMiter = 4
	paint.StrokeWidth = 0.5
	assert.Equal(t, `<Pen Brush="#FFFF0000" Thickness="0.5" LineCap="Round" LineJoin="Bevel" MiterLimit="4"/>`+NewLine,
		pt.pen(&paint, picture.Rect{}, ""))

	paint.StrokeCap = picture.SquareCap
	paint.StrokeJoin = picture.RoundJoin
	assert.Contains(t, pt.pen(&paint, picture.Rect{}, ""), `LineCap="Square" LineJoin="Round"`)

	// Miter is the default join of the target Pen
	paint.StrokeJoin = picture.MiterJoin
	assert.Equal(t, `<Pen Brush="#FFFF0000" Thickness="0.5" LineCap="Square" MiterLimit="4"/>`+NewLine,
		pt.pen(&paint, picture.Rect{}, ""))
	assert.NotContains(t, pt.pen(&paint, picture.Rect{}, ""), "LineJoin")

	paint.Shader = nil
	assert.Empty(t, pt.pen(&paint, picture.Rect{}, ""))
}

func TestStrokeAndFillGradient(t *testing.T) {
	paint := picture.Paint{
		Style:       picture.StrokeAndFill,
		StrokeWidth: 2,
		StrokeMiter: 10,
		Shader: picture.LinearGradientShader{
			End:      picture.Point{X: 10},
			Colors:   []picture.Color{red},
			ColorPos: []float64{0},
			Mode:     picture.Repeat,
		},
	}
	pic := &picture.Picture{Commands: []picture.Command{
		picture.DrawPath{Path: square(0, 0, 10), Paint: &paint},
	}}
	got := ToXaml(pic, Options{})
	expected := strings.Join([]string{
		`<DrawingGroup>`,
		`  <GeometryDrawing Geometry="F1 M0 0L10 0L10 10L0 10Z">`,
		`    <GeometryDrawing.Brush>`,
		`      <LinearGradientBrush StartPoint="0,0" EndPoint="10,0" SpreadMethod="Repeat">`,
		`        <LinearGradientBrush.GradientStops>`,
		`          <GradientStop Offset="0" Color="#FFFF0000"/>`,
		`        </LinearGradientBrush.GradientStops>`,
		`      </LinearGradientBrush>`,
		`    </GeometryDrawing.Brush>`,
		`    <GeometryDrawing.Pen>`,
		`      <Pen Thickness="2">`,
		`        <Pen.Brush>`,
		`          <LinearGradientBrush StartPoint="0,0" EndPoint="10,0" SpreadMethod="Repeat">`,
		`            <LinearGradientBrush.GradientStops>`,
		`              <GradientStop Offset="0" Color="#FFFF0000"/>`,
		`            </LinearGradientBrush.GradientStops>`,
		`          </LinearGradientBrush>`,
		`        </Pen.Brush>`,
		`      </Pen>`,
		`    </GeometryDrawing.Pen>`,
		`  </GeometryDrawing>`,
		`</DrawingGroup>`,
	}, NewLine)
	assert.Equal(t, expected, got)
}

func TestNilPaintAndPath(t *testing.T) {
	pic := &picture.Picture{Commands: []picture.Command{
		picture.DrawPath{Path: nil, Paint: solidFill(red)},
		picture.DrawPath{Path: square(0, 0, 1), Paint: nil},
	}}
	expected := strings.Join([]string{
		`<DrawingGroup>`,
		`  <GeometryDrawing Geometry="F1 M0 0L1 0L1 1L0 1Z"/>`,
		`</DrawingGroup>`,
	}, NewLine)
	assert.Equal(t, expected, ToXaml(pic, Options{}))
}

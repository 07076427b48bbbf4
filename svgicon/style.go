package svgicon

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"math"
	stdstrconv "strconv"
	"strings"

	"github.com/srwiley/rasterx"
	"github.com/tdewolff/parse/v2/strconv"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// DefaultStyle sets the default PathStyle to fill black, winding rule,
// full opacity, no stroke, ButtCap line end and Miter line connect.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         1.0,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit:   fToFixed(4),
		LineJoin:     Miter,
		TrailLineCap: ButtCap,
	},
	FillerColor:  NewPlainColor(0x00, 0x00, 0x00, 0xff),
	CurrentColor: NewPlainColor(0x00, 0x00, 0x00, 0xff),
	Transform:    Identity,
}

func (c *iconCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform applies the transform list `v` to `m1`
func (c *iconCursor) parseTransform(m1 Matrix2D, v string) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	for _, t := range ts {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		// transforms may be separated by commas
		name := strings.TrimLeft(d[0], ", \t\n\r")
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

func parseCap(v string) (CapMode, bool) {
	switch v {
	case "butt":
		return ButtCap, true
	case "round":
		return RoundCap, true
	case "square":
		return SquareCap, true
	case "cubic":
		return CubicCap, true
	case "quadratic":
		return QuadraticCap, true
	}
	return NilCap, false
}

func (c *iconCursor) readStyleAttr(curStyle *PathStyle, k, v string) error {
	switch k {
	case "fill":
		gradient, ok := c.readGradURL(v, curStyle.FillerColor)
		if ok {
			curStyle.FillerColor = gradient
			break
		}
		optCol, err := parseSVGColor(v)
		if err != nil {
			return err
		}
		curStyle.FillerColor = optCol.asPattern(curStyle.CurrentColor)
	case "stroke":
		gradient, ok := c.readGradURL(v, curStyle.LinerColor)
		if ok {
			curStyle.LinerColor = gradient
			break
		}
		optCol, err := parseSVGColor(v)
		if err != nil {
			return err
		}
		curStyle.LinerColor = optCol.asPattern(curStyle.CurrentColor)
	case "color":
		optCol, err := parseSVGColor(v)
		if err != nil {
			return err
		}
		if optCol.kind == colorValue {
			curStyle.CurrentColor = PlainColor{optCol.color}
		}
	case "fill-rule", "clip-rule":
		switch v {
		case "evenodd":
			curStyle.UseNonZeroWinding = false
		case "nonzero":
			curStyle.UseNonZeroWinding = true
		}
	case "clip-path":
		id, ok := readURL(v)
		if ok {
			curStyle.clipID = id
		} else if v == "none" {
			curStyle.clipID = ""
		}
	case "stroke-linegap":
		switch v {
		case "flat":
			curStyle.Join.LineGap = FlatGap
		case "round":
			curStyle.Join.LineGap = RoundGap
		case "cubic":
			curStyle.Join.LineGap = CubicGap
		case "quadratic":
			curStyle.Join.LineGap = QuadraticGap
		}
	case "stroke-leadlinecap":
		if cp, ok := parseCap(v); ok {
			curStyle.Join.LeadLineCap = cp
		}
	case "stroke-linecap":
		if cp, ok := parseCap(v); ok {
			curStyle.Join.TrailLineCap = cp
		}
	case "stroke-linejoin":
		switch v {
		case "miter":
			curStyle.Join.LineJoin = Miter
		case "miter-clip":
			curStyle.Join.LineJoin = MiterClip
		case "arc-clip":
			curStyle.Join.LineJoin = ArcClip
		case "round":
			curStyle.Join.LineJoin = Round
		case "arc":
			curStyle.Join.LineJoin = Arc
		case "bevel":
			curStyle.Join.LineJoin = Bevel
		}
	case "stroke-miterlimit":
		mLimit, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		curStyle.Join.MiterLimit = fToFixed(mLimit)
	case "stroke-width":
		width, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.LineWidth = width
	case "stroke-dashoffset":
		dashOffset, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.Dash.DashOffset = dashOffset
	case "stroke-dasharray":
		if v == "none" {
			curStyle.Dash.Dash = nil
			break
		}
		dashes := splitOnCommaOrSpace(v)
		dList := make([]float64, len(dashes))
		for i, dstr := range dashes {
			d, err := c.parseUnit(strings.TrimSpace(dstr), diagPercentage)
			if err != nil {
				return err
			}
			dList[i] = d
		}
		curStyle.Dash.Dash = dList
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := readFraction(v)
		if err != nil {
			return err
		}
		if k != "stroke-opacity" {
			curStyle.FillOpacity *= op
		}
		if k != "fill-opacity" {
			curStyle.LineOpacity *= op
		}
	case "transform":
		m, err := c.parseTransform(curStyle.Transform, v)
		if err != nil {
			return err
		}
		curStyle.Transform = m
	}
	return nil
}

// pushStyle parses the style element, and push it on the style stack. Only color and opacity are supported
// for fill. Note that this parses both the contents of a style attribute plus
// direct fill and opacity attributes.
func (c *iconCursor) pushStyle(attrs []xml.Attr) error {
	var pairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			pairs = append(pairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	// Make a copy of the top style
	curStyle := c.styleStack[len(c.styleStack)-1]
	curStyle.clipID = ""
	// color is read first, so that currentColor is known
	// whatever the attributes order
	for _, firstPass := range [2]bool{true, false} {
		for _, pair := range pairs {
			kv := strings.SplitN(pair, ":", 2)
			if len(kv) != 2 {
				continue
			}
			k := strings.TrimSpace(strings.ToLower(kv[0]))
			if (k == "color") != firstPass {
				continue
			}
			v := strings.TrimSpace(kv[1])
			if err := c.readStyleAttr(&curStyle, k, v); err != nil {
				return err
			}
		}
	}
	if curStyle.clipID != "" {
		// the ancestors clips still apply; the new one lives
		// in the user space of the element
		clips := make([]ClipRef, len(curStyle.Clips), len(curStyle.Clips)+1)
		copy(clips, curStyle.Clips)
		curStyle.Clips = append(clips, ClipRef{ID: curStyle.clipID, Transform: curStyle.Transform})
		curStyle.clipID = ""
	}
	c.styleStack = append(c.styleStack, curStyle) // Push style onto stack
	return nil
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' '
		})
}

type colorKind uint8

const (
	colorNone colorKind = iota
	colorValue
	colorCurrent
)

// optionnalColor is the result of color parsing,
// which may be 'none' or 'currentColor'
type optionnalColor struct {
	kind  colorKind
	color color.NRGBA
}

// asPattern returns nil for 'none'
func (o optionnalColor) asPattern(current PlainColor) Pattern {
	switch o.kind {
	case colorValue:
		return PlainColor{o.color}
	case colorCurrent:
		return current
	default:
		return nil
	}
}

// asColor returns nil for 'none'
func (o optionnalColor) asColor(current PlainColor) color.Color {
	switch o.kind {
	case colorValue:
		return o.color
	case colorCurrent:
		return current.NRGBA
	default:
		return nil
	}
}

// parseSVGColorNum reads the SVG color string e.g. #FBD9BD or #FFF
func parseSVGColorNum(colorStr string) (r, g, b uint8, err error) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	switch len(colorStr) {
	case 6:
	case 3:
		// duplicate characters in case of 3 digit hex number
		colorStr = string([]byte{colorStr[0], colorStr[0],
			colorStr[1], colorStr[1], colorStr[2], colorStr[2]})
	default:
		return 0, 0, 0, errParamMismatch
	}
	for _, v := range []struct {
		c *uint8
		s string
	}{
		{&r, colorStr[0:2]},
		{&g, colorStr[2:4]},
		{&b, colorStr[4:6]}} {
		t, err := stdstrconv.ParseUint(v.s, 16, 8)
		if err != nil {
			return 0, 0, 0, err
		}
		*v.c = uint8(t)
	}
	return
}

// parseSVGColor parses an SVG color string in all forms
// including all SVG1.1 names, obtained from the colornames package
func parseSVGColor(colorStr string) (optionnalColor, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	switch v {
	case "", "none", "transparent":
		return optionnalColor{}, nil
	case "currentcolor":
		return optionnalColor{kind: colorCurrent}, nil
	}
	if cn, ok := colornames.Map[v]; ok {
		return optionnalColor{kind: colorValue, color: color.NRGBA{R: cn.R, G: cn.G, B: cn.B, A: cn.A}}, nil
	}
	if cStr := strings.TrimPrefix(v, "rgb("); cStr != v {
		cStr = strings.TrimSuffix(cStr, ")")
		vals := strings.Split(cStr, ",")
		if len(vals) != 3 {
			return optionnalColor{}, errParamMismatch
		}
		var cvals [3]uint8
		for i := range cvals {
			var err error
			cvals[i], err = parseColorValue(vals[i])
			if err != nil {
				return optionnalColor{}, err
			}
		}
		return optionnalColor{kind: colorValue, color: color.NRGBA{cvals[0], cvals[1], cvals[2], 0xFF}}, nil
	}
	if v[0] == '#' {
		r, g, b, err := parseSVGColorNum(v)
		if err != nil {
			return optionnalColor{}, err
		}
		return optionnalColor{kind: colorValue, color: color.NRGBA{r, g, b, 0xFF}}, nil
	}
	return optionnalColor{}, fmt.Errorf("svg: invalid color %q", colorStr)
}

func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	d := 255.
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	n, err := parseBasicFloat(v)
	if err != nil {
		return 0, err
	}
	n = n * 255 / d
	if n > 255 {
		n = 255
	} else if n < 0 {
		n = 0
	}
	return uint8(math.Round(n)), nil
}

// readURL returns the id of an url(#id) reference.
func readURL(v string) (string, bool) {
	if !strings.HasPrefix(v, "url(") {
		return "", false
	}
	end := strings.IndexByte(v, ')')
	if end == -1 {
		return "", false
	}
	urlStr := strings.TrimSpace(v[4:end])
	urlStr = strings.Trim(urlStr, `'"`)
	if !strings.HasPrefix(urlStr, "#") {
		return "", false
	}
	return urlStr[1:], true
}

// readGradURL resolves an url(#id) reference to a gradient.
// It returns false if `v` is not a reference.
// An unknown reference uses the fallback color, if any,
// or `defaultColor`.
func (c *iconCursor) readGradURL(v string, defaultColor Pattern) (Pattern, bool) {
	id, ok := readURL(v)
	if !ok {
		return nil, false
	}
	if grad, ok := c.icon.grads[id]; ok {
		return *grad, true
	}
	// fallback color after the reference
	if fallback := strings.TrimSpace(v[strings.IndexByte(v, ')')+1:]); fallback != "" {
		if optCol, err := parseSVGColor(fallback); err == nil {
			return optCol.asPattern(c.styleStack[len(c.styleStack)-1].CurrentColor), true
		}
	}
	c.log.Debug("unknown paint reference", zap.String("id", id))
	return defaultColor, true
}

func (c *iconCursor) readGradAttr(attr xml.Attr) (err error) {
	switch attr.Name.Local {
	case "gradientTransform":
		c.grad.Matrix, err = c.parseTransform(Identity, attr.Value)
	case "gradientUnits":
		switch strings.TrimSpace(attr.Value) {
		case "userSpaceOnUse":
			c.grad.Units = rasterx.UserSpaceOnUse
		case "objectBoundingBox":
			c.grad.Units = rasterx.ObjectBoundingBox
		}
	case "spreadMethod":
		switch strings.TrimSpace(attr.Value) {
		case "pad":
			c.grad.Spread = rasterx.PadSpread
		case "reflect":
			c.grad.Spread = rasterx.ReflectSpread
		case "repeat":
			c.grad.Spread = rasterx.RepeatSpread
		}
	}
	return err
}

// readFraction parses a number or a percentage.
// Fractions are not clamped to [0,1].
func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseBasicFloat(v)
	f /= d
	return
}

// parseBasicFloat parses a number, without unit.
func parseBasicFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, n := strconv.ParseFloat([]byte(s))
	if n == 0 || n != len(s) {
		return 0, fmt.Errorf("svg: invalid number %q", s)
	}
	return v, nil
}

type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// user units per unit
var unitFactors = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 4. / 3,
	"pc": 16,
	"mm": 96 / 25.4,
	"cm": 96 / 2.54,
	"in": 96,
	"em": 16,
	"ex": 8,
}

// parseUnit parses a length, converting absolute units to user units.
// Percentages are resolved against the view box, using `asPerc`.
func (c *iconCursor) parseUnit(s string, asPerc percentageReference) (float64, error) {
	s = strings.TrimSpace(s)
	v, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0, fmt.Errorf("svg: invalid length %q", s)
	}
	unit := strings.ToLower(strings.TrimSpace(s[n:]))
	if unit == "%" {
		vb := c.icon.ViewBox
		switch asPerc {
		case widthPercentage:
			return v / 100 * vb.W, nil
		case heightPercentage:
			return v / 100 * vb.H, nil
		default:
			return v / 100 * math.Sqrt((vb.W*vb.W+vb.H*vb.H)/2), nil
		}
	}
	factor, ok := unitFactors[unit]
	if !ok {
		return 0, fmt.Errorf("svg: unsupported unit in %q", s)
	}
	return v * factor, nil
}

package svgicon

import (
	"errors"
	"math"
	"unicode"

	"github.com/srwiley/rasterx"
	"github.com/tdewolff/parse/v2/strconv"
	"go.uber.org/zap"
	"golang.org/x/image/math/fixed"
)

// pathCursor is used to parse SVG format path strings into a Path
type pathCursor struct {
	path             Path
	placeX, placeY   float64 // current point
	curX, curY       float64 // offset of use elements
	cntlPtX, cntlPtY float64 // last control point, for smooth curves
	pathStartX       float64
	pathStartY       float64
	points           []float64
	lastKey          uint8
	errorMode        ErrorMode
	log              *zap.Logger
	inPath           bool
}

// iconCursor is used while parsing SVG files
type iconCursor struct {
	pathCursor
	icon                                    *SvgIcon
	styleStack                              []PathStyle
	grad                                    *Gradient
	clip                                    *ClipPath // current clipPath element
	inTitleText, inDescText, inGrad, inDefs bool
	inheritedStops                          bool // the stops of grad come from a href
	currentDef                              []definition
}

func (c *pathCursor) init() {
	c.placeX = 0.0
	c.placeY = 0.0
	c.points = c.points[0:0]
	c.lastKey = ' '
	c.path.Clear()
	c.inPath = false
}

// handleError applies the error mode to the given message.
func (c *pathCursor) handleError(errStr string) error {
	switch c.errorMode {
	case StrictErrorMode:
		return errors.New(errStr)
	case WarnErrorMode:
		c.log.Warn(errStr)
	}
	return nil
}

// getPoints reads a set of floating point values from the SVG format number string,
// and add them to the cursor's points slice.
// Numbers may be separated by spaces or commas, or directly
// follow each other, as in "10-5" or "0.5.5".
func (c *pathCursor) getPoints(dataPoints string) error {
	c.points = c.points[0:0]
	data := []byte(dataPoints)
	for i := 0; i < len(data); {
		switch data[i] {
		case ' ', ',', '\t', '\n', '\r', '\f':
			i++
			continue
		}
		v, n := strconv.ParseFloat(data[i:])
		if n == 0 {
			return errParamMismatch
		}
		c.points = append(c.points, v)
		i += n
	}
	return nil
}

// getArcPoints is like getPoints, but accepts the compact form of
// the arc flags, where the two flags and the next number are not separated,
// as in "a1 1 0 00.5 .5".
func (c *pathCursor) getArcPoints(dataPoints string) error {
	c.points = c.points[0:0]
	data := []byte(dataPoints)
	for i := 0; i < len(data); {
		switch data[i] {
		case ' ', ',', '\t', '\n', '\r', '\f':
			i++
			continue
		}
		if index := len(c.points) % 7; index == 3 || index == 4 {
			// flags are a single 0 or 1
			switch data[i] {
			case '0':
				c.points = append(c.points, 0)
			case '1':
				c.points = append(c.points, 1)
			default:
				return errParamMismatch
			}
			i++
			continue
		}
		v, n := strconv.ParseFloat(data[i:])
		if n == 0 {
			return errParamMismatch
		}
		c.points = append(c.points, v)
		i += n
	}
	return nil
}

// reflectControlQuad updates the control point for a smooth quadratic curve.
func (c *pathCursor) reflectControlQuad() {
	switch c.lastKey {
	case 'q', 'Q', 'T', 't':
		c.cntlPtX, c.cntlPtY = 2*c.placeX-c.cntlPtX, 2*c.placeY-c.cntlPtY
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

// reflectControlCube updates the first control point for a smooth cubic curve.
func (c *pathCursor) reflectControlCube() {
	switch c.lastKey {
	case 'c', 'C', 's', 'S':
		c.cntlPtX, c.cntlPtY = 2*c.placeX-c.cntlPtX, 2*c.placeY-c.cntlPtY
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

// hasSetsOrMore checks the number of points against the expected set length:
// there should be at least one set, and the total should be a multiple of sz.
func (c *pathCursor) hasSetsOrMore(sz int) bool {
	l := len(c.points)
	return l >= sz && l%sz == 0
}

func (c *pathCursor) start(x, y float64) {
	c.path.Start(toFixedP(x, y))
	c.inPath = true
}

func (c *pathCursor) line(x, y float64) {
	c.placeX, c.placeY = x, y
	c.path.Line(toFixedP(x+c.curX, y+c.curY))
}

// compilePath translates the svgPath description string into a path.
// The resulting path element is stored in the pathCursor.
func (c *pathCursor) compilePath(svgPath string) error {
	c.init()
	lastIndex := -1
	for i, v := range svgPath {
		if unicode.IsLetter(v) && v != 'e' && v != 'E' {
			if lastIndex != -1 {
				if err := c.addSeg(svgPath[lastIndex:i]); err != nil {
					return err
				}
			}
			lastIndex = i
		}
	}
	if lastIndex != -1 {
		if err := c.addSeg(svgPath[lastIndex:]); err != nil {
			return err
		}
	}
	return nil
}

// addSeg decodes an SVG path segment string into the path
func (c *pathCursor) addSeg(segString string) error {
	k := segString[0]
	// Parse the string describing the numeric points in SVG format
	var err error
	if k == 'a' || k == 'A' {
		err = c.getArcPoints(segString[1:])
	} else {
		err = c.getPoints(segString[1:])
	}
	if err != nil {
		return err
	}
	l := len(c.points)
	rel := false
	switch k {
	case 'z', 'Z':
		if l != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
			c.placeX, c.placeY = c.pathStartX, c.pathStartY
			c.inPath = false
		}
	case 'm':
		rel = true
		fallthrough
	case 'M':
		if !c.hasSetsOrMore(2) {
			return errParamMismatch
		}
		if rel {
			c.placeX += c.points[0]
			c.placeY += c.points[1]
		} else {
			c.placeX, c.placeY = c.points[0], c.points[1]
		}
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
		c.start(c.placeX+c.curX, c.placeY+c.curY)
		// extra pairs are implicit line commands
		for i := 2; i < l-1; i += 2 {
			if rel {
				c.line(c.placeX+c.points[i], c.placeY+c.points[i+1])
			} else {
				c.line(c.points[i], c.points[i+1])
			}
		}
	case 'l':
		rel = true
		fallthrough
	case 'L':
		if !c.hasSetsOrMore(2) {
			return errParamMismatch
		}
		c.ensureStarted()
		for i := 0; i < l-1; i += 2 {
			if rel {
				c.line(c.placeX+c.points[i], c.placeY+c.points[i+1])
			} else {
				c.line(c.points[i], c.points[i+1])
			}
		}
	case 'v':
		rel = true
		fallthrough
	case 'V':
		if !c.hasSetsOrMore(1) {
			return errParamMismatch
		}
		c.ensureStarted()
		for _, p := range c.points {
			if rel {
				c.line(c.placeX, c.placeY+p)
			} else {
				c.line(c.placeX, p)
			}
		}
	case 'h':
		rel = true
		fallthrough
	case 'H':
		if !c.hasSetsOrMore(1) {
			return errParamMismatch
		}
		c.ensureStarted()
		for _, p := range c.points {
			if rel {
				c.line(c.placeX+p, c.placeY)
			} else {
				c.line(p, c.placeY)
			}
		}
	case 'q':
		rel = true
		fallthrough
	case 'Q':
		if !c.hasSetsOrMore(4) {
			return errParamMismatch
		}
		c.ensureStarted()
		for i := 0; i < l-3; i += 4 {
			if rel {
				c.points[i] += c.placeX
				c.points[i+1] += c.placeY
				c.points[i+2] += c.placeX
				c.points[i+3] += c.placeY
			}
			c.quad(c.points[i], c.points[i+1], c.points[i+2], c.points[i+3])
		}
	case 't':
		rel = true
		fallthrough
	case 'T':
		if !c.hasSetsOrMore(2) {
			return errParamMismatch
		}
		c.ensureStarted()
		for i := 0; i < l-1; i += 2 {
			c.reflectControlQuad()
			if rel {
				c.points[i] += c.placeX
				c.points[i+1] += c.placeY
			}
			c.quad(c.cntlPtX, c.cntlPtY, c.points[i], c.points[i+1])
			c.lastKey = k
		}
	case 'c':
		rel = true
		fallthrough
	case 'C':
		if !c.hasSetsOrMore(6) {
			return errParamMismatch
		}
		c.ensureStarted()
		for i := 0; i < l-5; i += 6 {
			if rel {
				for j := 0; j < 6; j += 2 {
					c.points[i+j] += c.placeX
					c.points[i+j+1] += c.placeY
				}
			}
			c.cube(c.points[i], c.points[i+1], c.points[i+2], c.points[i+3], c.points[i+4], c.points[i+5])
		}
	case 's':
		rel = true
		fallthrough
	case 'S':
		if !c.hasSetsOrMore(4) {
			return errParamMismatch
		}
		c.ensureStarted()
		for i := 0; i < l-3; i += 4 {
			c.reflectControlCube()
			if rel {
				c.points[i] += c.placeX
				c.points[i+1] += c.placeY
				c.points[i+2] += c.placeX
				c.points[i+3] += c.placeY
			}
			c.cube(c.cntlPtX, c.cntlPtY, c.points[i], c.points[i+1], c.points[i+2], c.points[i+3])
			c.lastKey = k
		}
	case 'a', 'A':
		if !c.hasSetsOrMore(7) {
			return errParamMismatch
		}
		c.ensureStarted()
		for i := 0; i < l-6; i += 7 {
			if k == 'a' {
				c.points[i+5] += c.placeX
				c.points[i+6] += c.placeY
			}
			c.arc(c.points[i : i+7])
		}
	default:
		return c.handleError("ignoring svg command " + string(k))
	}
	// So we know how to extend some segment types
	c.lastKey = k
	return nil
}

// ensureStarted starts a new sub-path at the current point
// if the last one has been closed.
func (c *pathCursor) ensureStarted() {
	if !c.inPath {
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
		c.start(c.placeX+c.curX, c.placeY+c.curY)
	}
}

func (c *pathCursor) quad(x1, y1, x, y float64) {
	c.cntlPtX, c.cntlPtY = x1, y1
	c.placeX, c.placeY = x, y
	c.path.QuadBezier(toFixedP(x1+c.curX, y1+c.curY), toFixedP(x+c.curX, y+c.curY))
}

func (c *pathCursor) cube(x1, y1, x2, y2, x, y float64) {
	c.cntlPtX, c.cntlPtY = x2, y2
	c.placeX, c.placeY = x, y
	c.path.CubeBezier(toFixedP(x1+c.curX, y1+c.curY),
		toFixedP(x2+c.curX, y2+c.curY),
		toFixedP(x+c.curX, y+c.curY))
}

// arc adds an elliptical arc, from the current point, described by
// rx, ry, x-axis-rotation, large-arc-flag, sweep-flag, x, y
// (absolute end point).
func (c *pathCursor) arc(points []float64) {
	x, y := points[5], points[6]
	if x == c.placeX && y == c.placeY {
		return // omitted
	}
	points[0], points[1] = math.Abs(points[0]), math.Abs(points[1])
	if points[0] == 0 || points[1] == 0 { // straight line
		c.line(x, y)
		return
	}
	cx, cy := rasterx.FindEllipseCenter(&points[0], &points[1], points[2]*math.Pi/180,
		c.placeX, c.placeY, x, y, points[4] == 0, points[3] == 0)

	// the arc is built in user space, without the use offset
	var arc Path
	c.placeX, c.placeY = rasterx.AddArc(points, cx, cy, c.placeX, c.placeY, &arc)
	for _, op := range arc {
		c.path = append(c.path, translate(op, c.curX, c.curY))
	}
}

// translate returns op translated by (dx, dy).
func translate(op Operation, dx, dy float64) Operation {
	if dx == 0 && dy == 0 {
		return op
	}
	d := toFixedP(dx, dy)
	tr := func(p fixed.Point26_6) fixed.Point26_6 { return p.Add(d) }
	switch op := op.(type) {
	case MoveTo:
		return MoveTo(tr(fixed.Point26_6(op)))
	case LineTo:
		return LineTo(tr(fixed.Point26_6(op)))
	case QuadTo:
		return QuadTo{tr(op[0]), tr(op[1])}
	case CubicTo:
		return CubicTo{tr(op[0]), tr(op[1]), tr(op[2])}
	}
	return op
}

// ellipseAt adds a closed ellipse centered at (cx, cy).
func (c *pathCursor) ellipseAt(cx, cy, rx, ry float64) {
	c.placeX, c.placeY = cx+rx, cy
	c.points = append(c.points[0:0], rx, ry, 0.0, 1.0, 0.0, c.placeX, c.placeY)
	c.path.Start(toFixedP(c.placeX, c.placeY))
	c.placeX, c.placeY = rasterx.AddArc(c.points, cx, cy, c.placeX, c.placeY, &c.path)
	c.path.Stop(true)
}

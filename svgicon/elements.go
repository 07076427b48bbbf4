package svgicon

import (
	"encoding/xml"
	"errors"
	"math"
	"strings"

	"github.com/srwiley/rasterx"
)

func init() {
	// avoids cyclical static declaration
	// called on package initialization
	drawFuncs["use"] = useF
}

type svgFunc func(c *iconCursor, attrs []xml.Attr) error

var drawFuncs = map[string]svgFunc{
	"svg":            svgF,
	"g":              gF,
	"line":           lineF,
	"stop":           stopF,
	"rect":           rectF,
	"circle":         circleF,
	"ellipse":        circleF, //circleF handles ellipse also
	"polyline":       polylineF,
	"polygon":        polygonF,
	"path":           pathF,
	"desc":           descF,
	"defs":           defsF,
	"title":          titleF,
	"linearGradient": linearGradientF,
	"radialGradient": radialGradientF,
	"clipPath":       clipPathF,
}

func (c *iconCursor) readStartElement(se xml.StartElement) (err error) {
	var skipDef bool
	switch se.Name.Local {
	case "radialGradient", "linearGradient", "clipPath":
		skipDef = true
	}
	if c.inGrad || c.clip != nil {
		skipDef = true
	}
	if c.inDefs && !skipDef {
		ID := ""
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" {
				ID = attr.Value
			}
		}
		if ID != "" && len(c.currentDef) > 0 {
			c.icon.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.currentDef = append(c.currentDef, definition{
			ID:    ID,
			Tag:   se.Name.Local,
			Attrs: se.Attr,
		})
		return nil
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.handleError("Cannot process svg element " + se.Name.Local)
	}
	err = df(c, se.Attr)
	c.flushPath()
	return
}

// flushPath stores the path parsed from the current element, if any,
// with the current style.
func (c *iconCursor) flushPath() {
	if len(c.path) == 0 {
		return
	}
	pathCopy := append(Path{}, c.path...)
	svgPath := SvgPath{Path: pathCopy, Style: c.styleStack[len(c.styleStack)-1]}
	if c.clip != nil {
		c.clip.Paths = append(c.clip.Paths, svgPath)
	} else {
		c.icon.SVGPaths = append(c.icon.SVGPaths, svgPath)
	}
	c.path = c.path[:0]
}

func svgF(c *iconCursor, attrs []xml.Attr) error {
	c.icon.ViewBox = Bounds{}
	c.icon.HasViewBox = false
	var width, height string
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			err = c.getPoints(attr.Value)
			if len(c.points) != 4 {
				return errParamMismatch
			}
			c.icon.ViewBox = Bounds{X: c.points[0], Y: c.points[1], W: c.points[2], H: c.points[3]}
			c.icon.HasViewBox = true
		case "width":
			width = attr.Value
		case "height":
			height = attr.Value
		}
		if err != nil {
			return err
		}
	}
	// relative dimensions are ignored
	if width != "" && !strings.HasSuffix(width, "%") {
		if c.icon.Width, err = c.parseUnit(width, widthPercentage); err != nil {
			return err
		}
	}
	if height != "" && !strings.HasSuffix(height, "%") {
		if c.icon.Height, err = c.parseUnit(height, heightPercentage); err != nil {
			return err
		}
	}
	if c.icon.ViewBox.W == 0 {
		c.icon.ViewBox.W = c.icon.Width
	}
	if c.icon.ViewBox.H == 0 {
		c.icon.ViewBox.H = c.icon.Height
	}
	return nil
}

func gF(*iconCursor, []xml.Attr) error { return nil } // g does nothing but push the style

func rectF(c *iconCursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			w, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			h, err = c.parseUnit(attr.Value, heightPercentage)
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	// a missing radius defaults to the other one
	if rx == 0 {
		rx = ry
	} else if ry == 0 {
		ry = rx
	}
	rx, ry = math.Min(rx, w/2), math.Min(ry, h/2)
	x, y = x+c.curX, y+c.curY
	if rx == 0 {
		c.path.Start(toFixedP(x, y))
		c.path.Line(toFixedP(x+w, y))
		c.path.Line(toFixedP(x+w, y+h))
		c.path.Line(toFixedP(x, y+h))
		c.path.Stop(true)
		return nil
	}
	rasterx.AddRoundRect(x, y, x+w, y+h, rx, ry, 0, rasterx.RoundGap, &c.path)
	return nil
}

func circleF(c *iconCursor, attrs []xml.Attr) error {
	var cx, cy, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			cx, err = c.parseUnit(attr.Value, widthPercentage)
		case "cy":
			cy, err = c.parseUnit(attr.Value, heightPercentage)
		case "r":
			rx, err = c.parseUnit(attr.Value, diagPercentage)
			ry = rx
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if rx == 0 || ry == 0 { // not drawn, but not an error
		return nil
	}
	c.ellipseAt(cx+c.curX, cy+c.curY, rx, ry)
	return nil
}

func lineF(c *iconCursor, attrs []xml.Attr) error {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = c.parseUnit(attr.Value, widthPercentage)
		case "x2":
			x2, err = c.parseUnit(attr.Value, widthPercentage)
		case "y1":
			y1, err = c.parseUnit(attr.Value, heightPercentage)
		case "y2":
			y2, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.path.Start(toFixedP(x1+c.curX, y1+c.curY))
	c.path.Line(toFixedP(x2+c.curX, y2+c.curY))
	return nil
}

func polylineF(c *iconCursor, attrs []xml.Attr) error {
	c.points = c.points[:0]
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "points":
			err = c.getPoints(attr.Value)
			if len(c.points)%2 != 0 {
				return errors.New("polygon has odd number of points")
			}
		}
		if err != nil {
			return err
		}
	}
	if len(c.points) >= 4 {
		c.path.Start(toFixedP(c.points[0]+c.curX, c.points[1]+c.curY))
		for i := 2; i < len(c.points)-1; i += 2 {
			c.path.Line(toFixedP(c.points[i]+c.curX, c.points[i+1]+c.curY))
		}
	}
	return nil
}

func polygonF(c *iconCursor, attrs []xml.Attr) error {
	err := polylineF(c, attrs)
	if len(c.points) >= 4 {
		c.path.Stop(true)
	}
	return err
}

func pathF(c *iconCursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "d":
			err = c.compilePath(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func descF(c *iconCursor, attrs []xml.Attr) error {
	c.inDescText = true
	c.icon.Descriptions = append(c.icon.Descriptions, "")
	return nil
}

func titleF(c *iconCursor, attrs []xml.Attr) error {
	c.inTitleText = true
	c.icon.Titles = append(c.icon.Titles, "")
	return nil
}

func defsF(c *iconCursor, attrs []xml.Attr) error {
	c.inDefs = true
	return nil
}

func clipPathF(c *iconCursor, attrs []xml.Attr) error {
	var id string
	for _, attr := range attrs {
		if attr.Name.Local == "id" {
			id = attr.Value
		}
	}
	if id == "" {
		return errZeroLengthID
	}
	c.clip = &ClipPath{ID: id}
	c.icon.ClipPaths[id] = c.clip
	return nil
}

// startGradient registers a new gradient, and reads
// the attributes shared by linear and radial gradients.
// Stops and attributes are inherited from a referenced gradient.
func (c *iconCursor) startGradient(direction gradientDirecter, attrs []xml.Attr) error {
	c.inGrad = true
	c.grad = &Gradient{Direction: direction, Bounds: c.icon.ViewBox, Matrix: Identity}
	c.inheritedStops = false
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			if attr.Value == "" {
				return errZeroLengthID
			}
			c.icon.grads[attr.Value] = c.grad
		case "href":
			id := strings.TrimPrefix(attr.Value, "#")
			if ref, ok := c.icon.grads[id]; ok {
				c.grad.Stops = append([]GradStop(nil), ref.Stops...)
				c.grad.Matrix, c.grad.Spread, c.grad.Units = ref.Matrix, ref.Spread, ref.Units
				c.inheritedStops = true
			}
		}
	}
	for _, attr := range attrs {
		if err := c.readGradAttr(attr); err != nil {
			return err
		}
	}
	return nil
}

func linearGradientF(c *iconCursor, attrs []xml.Attr) error {
	direction := Linear{0, 0, 1, 0}
	if err := c.startGradient(direction, attrs); err != nil {
		return err
	}
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			direction[0], err = readFraction(attr.Value)
		case "y1":
			direction[1], err = readFraction(attr.Value)
		case "x2":
			direction[2], err = readFraction(attr.Value)
		case "y2":
			direction[3], err = readFraction(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Direction = direction
	return nil
}

func radialGradientF(c *iconCursor, attrs []xml.Attr) error {
	direction := Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0}
	if err := c.startGradient(direction, attrs); err != nil {
		return err
	}
	var setFx, setFy bool
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			direction[0], err = readFraction(attr.Value)
		case "cy":
			direction[1], err = readFraction(attr.Value)
		case "fx":
			setFx = true
			direction[2], err = readFraction(attr.Value)
		case "fy":
			setFy = true
			direction[3], err = readFraction(attr.Value)
		case "r":
			direction[4], err = readFraction(attr.Value)
		case "fr":
			direction[5], err = readFraction(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	if !setFx { // set fx to cx by default
		direction[2] = direction[0]
	}
	if !setFy { // set fy to cy by default
		direction[3] = direction[1]
	}
	c.grad.Direction = direction
	return nil
}

// expandStyle returns the attributes with the content
// of the style attribute added as regular attributes.
func expandStyle(attrs []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Name.Local != "style" {
			out = append(out, attr)
			continue
		}
		for _, pair := range strings.Split(attr.Value, ";") {
			kv := strings.SplitN(pair, ":", 2)
			if len(kv) != 2 {
				continue
			}
			out = append(out, xml.Attr{
				Name:  xml.Name{Local: strings.TrimSpace(kv[0])},
				Value: strings.TrimSpace(kv[1]),
			})
		}
	}
	return out
}

func stopF(c *iconCursor, attrs []xml.Attr) error {
	if !c.inGrad {
		return nil
	}
	var err error
	stop := GradStop{Opacity: 1.0, StopColor: DefaultStyle.CurrentColor.NRGBA}
	for _, attr := range expandStyle(attrs) {
		switch attr.Name.Local {
		case "offset":
			stop.Offset, err = readFraction(attr.Value)
		case "stop-color":
			var optColor optionnalColor
			optColor, err = parseSVGColor(attr.Value)
			stop.StopColor = optColor.asColor(c.styleStack[len(c.styleStack)-1].CurrentColor)
		case "stop-opacity":
			stop.Opacity, err = readFraction(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	if stop.StopColor == nil { // 'none' is transparent
		stop.StopColor, stop.Opacity = DefaultStyle.CurrentColor.NRGBA, 0
	}
	// own stops replace the inherited ones
	if c.inheritedStops {
		c.grad.Stops = c.grad.Stops[:0]
		c.inheritedStops = false
	}
	c.grad.Stops = append(c.grad.Stops, stop)
	return nil
}

func useF(c *iconCursor, attrs []xml.Attr) error {
	var (
		href string
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "href":
			href = attr.Value
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.curX, c.curY = x, y
	defer func() {
		c.curX, c.curY = 0, 0
	}()
	if href == "" {
		return c.handleError("only use tags with href is supported")
	}
	if !strings.HasPrefix(href, "#") {
		return c.handleError("only the ID CSS selector is supported")
	}
	defs, ok := c.icon.defs[href[1:]]
	if !ok {
		return c.handleError("href ID in use statement was not found in saved defs: " + href)
	}
	for _, def := range defs {
		if def.Tag == "endg" {
			// pop style
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
			continue
		}
		if err = c.pushStyle(def.Attrs); err != nil {
			return err
		}
		df, ok := drawFuncs[def.Tag]
		if !ok {
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
			if err := c.handleError("Cannot process svg element " + def.Tag); err != nil {
				return err
			}
			continue
		}
		if err := df(c, def.Attrs); err != nil {
			return err
		}
		c.flushPath()
		if def.Tag != "g" {
			// pop style
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
		}
	}
	return nil
}

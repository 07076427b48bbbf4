// Provides parsing and rendering of SVG images.
// SVG files are parsed into an abstract representation,
// which can then be consumed by painting drivers
// (see svgraster), or recorded as canvas commands (see svgrecord).
package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

var (
	errParamMismatch = errors.New("svg: param mismatch")
	errZeroLengthID  = errors.New("svg: zero length id")
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unparsed SVG elements
	IgnoreErrorMode ErrorMode = iota

	// WarnErrorMode outputs a warning through the logger given
	// to the parser when an unparsed SVG element is found
	WarnErrorMode

	// StrictErrorMode causes an error when an unparsed SVG element is found
	StrictErrorMode
)

// PathStyle holds the state of the SVG style
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool

	Join                    JoinOptions
	Dash                    DashOptions
	FillerColor, LinerColor Pattern // either PlainColor or Gradient, nil to disable

	// CurrentColor is the value of the color property,
	// used by the currentColor keyword.
	CurrentColor PlainColor

	// Transform is the current user space transform.
	Transform Matrix2D

	// Clips are the clip paths applied to the path, from
	// the outermost group to the element itself.
	Clips []ClipRef

	clipID string // own clip-path of the element being parsed
}

// ClipRef is a reference to a clipPath element, with
// the user space of the element referencing it.
type ClipRef struct {
	ID        string
	Transform Matrix2D
}

// SvgPath binds a style to a path
type SvgPath struct {
	Path  Path
	Style PathStyle
}

// ClipPath is the content of a clipPath element.
// The clipping area is the union of the paths.
type ClipPath struct {
	ID string
	// Only the transform and the winding rule of the
	// path styles are relevant.
	Paths []SvgPath
}

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// SvgIcon holds data from parsed SVGs.
// See the `Draw` methods to use it.
type SvgIcon struct {
	ViewBox      Bounds
	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here
	SVGPaths     []SvgPath
	Transform    Matrix2D

	// ClipPaths maps the id of clipPath elements to their content.
	ClipPaths map[string]*ClipPath

	// Width and Height are the top level dimensions,
	// in user units. They are zero if missing or relative.
	Width, Height float64
	// HasViewBox is true if the root element defines a viewBox.
	HasViewBox bool

	grads map[string]*Gradient
	defs  map[string][]definition
}

// definition is used to store what's given in a def tag
type definition struct {
	ID, Tag string
	Attrs   []xml.Attr
}

// ReadIconStream reads the Icon from the given io.Reader
// This only supports a sub-set of SVG, but
// is enough to draw many icons. errMode determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the icon file.
// log receives the warnings and debug messages; it may be nil.
func ReadIconStream(stream io.Reader, errMode ErrorMode, log *zap.Logger) (*SvgIcon, error) {
	if log == nil {
		log = zap.NewNop()
	}
	icon := &SvgIcon{
		defs:      make(map[string][]definition),
		grads:     make(map[string]*Gradient),
		ClipPaths: make(map[string]*ClipPath),
		Transform: Identity,
	}
	cursor := &iconCursor{styleStack: []PathStyle{DefaultStyle}, icon: icon}
	cursor.errorMode = errMode
	cursor.log = log
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, errors.New("invalid svg xml icon")
				}
				break
			}
			return icon, err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			// Reads all recognized style attributes from the start element
			// and places it on top of the styleStack
			err = cursor.pushStyle(se.Attr)
			if err != nil {
				return icon, err
			}
			err = cursor.readStartElement(se)
			if err != nil {
				return icon, err
			}
		case xml.EndElement:
			// pop style
			cursor.styleStack = cursor.styleStack[:len(cursor.styleStack)-1]
			switch se.Name.Local {
			case "g":
				if cursor.inDefs && cursor.clip == nil {
					cursor.currentDef = append(cursor.currentDef, definition{
						Tag: "endg",
					})
				}
			case "title":
				cursor.inTitleText = false
			case "desc":
				cursor.inDescText = false
			case "defs":
				if len(cursor.currentDef) > 0 {
					cursor.icon.defs[cursor.currentDef[0].ID] = cursor.currentDef
					cursor.currentDef = make([]definition, 0)
				}
				cursor.inDefs = false
			case "radialGradient", "linearGradient":
				cursor.inGrad = false
			case "clipPath":
				cursor.clip = nil
			}
		case xml.CharData:
			if cursor.inTitleText {
				icon.Titles[len(icon.Titles)-1] += string(se)
			}
			if cursor.inDescText {
				icon.Descriptions[len(icon.Descriptions)-1] += string(se)
			}
		}
	}
	return icon, nil
}

// ReadIcon reads the Icon from the named file
// This only supports a sub-set of SVG, but
// is enough to draw many icons. errMode determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the icon file.
func ReadIcon(iconFile string, errMode ErrorMode, log *zap.Logger) (*SvgIcon, error) {
	fin, errf := os.Open(iconFile)
	if errf != nil {
		return nil, errf
	}
	defer fin.Close()
	icon, err := ReadIconStream(fin, errMode, log)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", iconFile, err)
	}
	return icon, nil
}

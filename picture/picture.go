// Implements an abstract representation of a recorded
// drawing: an ordered list of canvas commands, as produced
// by a painting library when an SVG image is drawn.
// The model is read-only once recorded, and is consumed
// by translators such as the xaml package.
package picture

// Picture is an ordered sequence of canvas commands.
type Picture struct {
	CullRect Rect
	Commands []Command
}

// Command groups the different canvas commands.
// The set of commands is closed: the concrete types
// are the ones defined in this file.
type Command interface {
	isCommand()
}

// ClipOperation is the boolean operation used to
// combine a clip with the current clip.
type ClipOperation uint8

const (
	Intersect ClipOperation = iota
	Difference
)

func (op ClipOperation) String() string {
	switch op {
	case Intersect:
		return "Intersect"
	case Difference:
		return "Difference"
	default:
		return "<unknown ClipOperation>"
	}
}

type ClipPath struct {
	Path      *Path
	Operation ClipOperation
	Antialias bool
}

type ClipRect struct {
	Rect      Rect
	Operation ClipOperation
	Antialias bool
}

type Save struct{}

type Restore struct{}

// SetMatrix replaces the current total matrix.
type SetMatrix struct {
	Matrix Matrix
}

type SaveLayer struct {
	Count int
	Paint *Paint
}

// Image is an opaque raster image, only referenced by DrawImage.
type Image struct {
	Width, Height int
	Data          []byte
}

type DrawImage struct {
	Image  *Image
	Source Rect
	Dest   Rect
	Paint  *Paint
}

type DrawPath struct {
	Path  *Path
	Paint *Paint
}

// TextBlob is an opaque run of positioned glyphs.
type TextBlob struct {
	Glyphs []uint16
	Points []Point
}

type DrawTextBlob struct {
	TextBlob *TextBlob
	X, Y     float64
	Paint    *Paint
}

type DrawText struct {
	Text  string
	X, Y  float64
	Paint *Paint
}

type DrawTextOnPath struct {
	Text             string
	Path             *Path
	HOffset, VOffset float64
	Paint            *Paint
}

func (ClipPath) isCommand()       {}
func (ClipRect) isCommand()       {}
func (Save) isCommand()           {}
func (Restore) isCommand()        {}
func (SetMatrix) isCommand()      {}
func (SaveLayer) isCommand()      {}
func (DrawImage) isCommand()      {}
func (DrawPath) isCommand()       {}
func (DrawTextBlob) isCommand()   {}
func (DrawText) isCommand()       {}
func (DrawTextOnPath) isCommand() {}

// Recorder accumulates commands into a Picture.
// The zero value is ready to use.
type Recorder struct {
	commands []Command
}

func (r *Recorder) Save() { r.commands = append(r.commands, Save{}) }

func (r *Recorder) Restore() { r.commands = append(r.commands, Restore{}) }

func (r *Recorder) SetMatrix(m Matrix) { r.commands = append(r.commands, SetMatrix{Matrix: m}) }

func (r *Recorder) DrawPath(p *Path, paint *Paint) {
	r.commands = append(r.commands, DrawPath{Path: p, Paint: paint})
}

func (r *Recorder) ClipRect(rect Rect, op ClipOperation, antialias bool) {
	r.commands = append(r.commands, ClipRect{Rect: rect, Operation: op, Antialias: antialias})
}

func (r *Recorder) ClipPath(p *Path, op ClipOperation, antialias bool) {
	r.commands = append(r.commands, ClipPath{Path: p, Operation: op, Antialias: antialias})
}

// Finish returns the recorded picture and resets the recorder.
func (r *Recorder) Finish(cull Rect) *Picture {
	pic := &Picture{CullRect: cull, Commands: r.commands}
	r.commands = nil
	return pic
}

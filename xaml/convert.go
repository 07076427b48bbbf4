package xaml

import (
	"strings"

	"github.com/benoitkugler/svgtoxaml/picture"
	"go.uber.org/zap"
)

// Options controls the translation of one picture.
type Options struct {
	// GenerateImage wraps the drawing in an Image/DrawingImage element,
	// instead of a bare DrawingGroup.
	GenerateImage bool
	// Indent is prepended to every line.
	Indent string
	// Key is the optional resource key of the root element.
	Key string
	// Logger receives diagnostics about unsupported commands.
	// It defaults to a no-op logger.
	Logger *zap.Logger
}

func (opts Options) logger() *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}

// clip is an entry of the accumulated clip list.
type clip struct {
	path      *picture.Path
	operation picture.ClipOperation
	antialias bool
}

// interpreter walks the commands of a picture, tracking the
// current transform and the accumulated clips.
type interpreter struct {
	painter

	matrix      picture.Matrix
	matrixStack []picture.Matrix

	clips     []clip
	clipStack [][]clip

	groupIndent string
	sb          strings.Builder
}

func newInterpreter(groupIndent string, log *zap.Logger) *interpreter {
	return &interpreter{
		painter:     painter{log: log},
		matrix:      picture.Identity,
		groupIndent: groupIndent,
	}
}

func (it *interpreter) save() {
	it.matrixStack = append(it.matrixStack, it.matrix)
	it.clipStack = append(it.clipStack, append([]clip(nil), it.clips...))
}

func (it *interpreter) restore() {
	if L := len(it.matrixStack); L > 0 {
		it.matrix = it.matrixStack[L-1]
		it.matrixStack = it.matrixStack[:L-1]
	} else {
		it.log.Debug("restore without matching save: keeping the current matrix")
	}
	if L := len(it.clipStack); L > 0 {
		it.clips = it.clipStack[L-1]
		it.clipStack = it.clipStack[:L-1]
	} else {
		it.log.Debug("restore without matching save: keeping the current clip")
	}
}

// effectiveClip returns the intersection of the accumulated clips,
// or nil if there is none.
func (it *interpreter) effectiveClip() *picture.Path {
	var out *picture.Path
	for _, c := range it.clips {
		if out == nil {
			out = c.path
		} else {
			out = out.Intersect(c.path)
		}
	}
	return out
}

func (it *interpreter) execute(cmd picture.Command) {
	switch cmd := cmd.(type) {
	case picture.ClipPath:
		if cmd.Path == nil {
			return
		}
		it.clips = append(it.clips, clip{path: cmd.Path, operation: cmd.Operation, antialias: cmd.Antialias})
	case picture.ClipRect:
		var path picture.Path
		path.AddRect(cmd.Rect)
		it.clips = append(it.clips, clip{path: &path, operation: cmd.Operation, antialias: cmd.Antialias})
	case picture.Save:
		it.save()
	case picture.Restore:
		it.restore()
	case picture.SetMatrix:
		it.matrix = cmd.Matrix
	case picture.DrawPath:
		if cmd.Path == nil {
			it.log.Debug("skipping draw command without path")
			return
		}
		it.drawPath(cmd.Path, cmd.Paint)
	case picture.SaveLayer:
		it.log.Debug("unsupported command", zap.String("command", "SaveLayer"), zap.Int("count", cmd.Count))
	case picture.DrawImage:
		it.log.Debug("unsupported command", zap.String("command", "DrawImage"))
	case picture.DrawTextBlob:
		it.log.Debug("unsupported command", zap.String("command", "DrawTextBlob"))
	case picture.DrawText:
		it.log.Debug("unsupported command", zap.String("command", "DrawText"), zap.String("text", cmd.Text))
	case picture.DrawTextOnPath:
		it.log.Debug("unsupported command", zap.String("command", "DrawTextOnPath"), zap.String("text", cmd.Text))
	}
}

func (it *interpreter) drawPath(path *picture.Path, paint *picture.Paint) {
	if paint == nil {
		paint = &picture.Paint{}
	}
	clipPath := it.effectiveClip()
	hasTransform := !it.matrix.IsIdentity()
	isGroup := hasTransform || clipPath != nil

	groupIndent := it.groupIndent
	geometryIndent := groupIndent
	if isGroup {
		geometryIndent += "  "

		it.sb.WriteString(groupIndent + "<DrawingGroup>" + NewLine)
		if hasTransform {
			it.sb.WriteString(groupIndent + "  <DrawingGroup.Transform>" + NewLine)
			it.sb.WriteString(groupIndent + `    <MatrixTransform Matrix="` + formatMatrix(it.matrix) + `"/>` + NewLine)
			it.sb.WriteString(groupIndent + "  </DrawingGroup.Transform>" + NewLine)
		}
		if clipPath != nil {
			it.sb.WriteString(groupIndent + "  <DrawingGroup.ClipGeometry>" + NewLine)
			it.sb.WriteString(groupIndent + "    <StreamGeometry>" + pathData(clipPath) + "</StreamGeometry>" + NewLine)
			it.sb.WriteString(groupIndent + "  </DrawingGroup.ClipGeometry>" + NewLine)
		}
	}

	it.sb.WriteString(geometryIndent + "<GeometryDrawing")
	colorShader, isSolid := paint.Shader.(picture.ColorShader)
	if paint.Style.Fills() && isSolid {
		it.sb.WriteString(` Brush="` + formatColor(colorShader.Color) + `"`)
	}
	it.sb.WriteString(` Geometry="` + pathData(path) + `"`)

	bounds := path.Bounds()
	var brush, pen string
	if paint.Style.Fills() && !isSolid && paint.Shader != nil {
		brush = it.brush(paint.Shader, bounds, geometryIndent+"    ")
	}
	if paint.Style.Strokes() {
		pen = it.pen(paint, bounds, geometryIndent+"    ")
	}

	if brush == "" && pen == "" {
		it.sb.WriteString("/>" + NewLine)
	} else {
		it.sb.WriteString(">" + NewLine)
		if brush != "" {
			it.sb.WriteString(geometryIndent + "  <GeometryDrawing.Brush>" + NewLine)
			it.sb.WriteString(brush)
			it.sb.WriteString(geometryIndent + "  </GeometryDrawing.Brush>" + NewLine)
		}
		if pen != "" {
			it.sb.WriteString(geometryIndent + "  <GeometryDrawing.Pen>" + NewLine)
			it.sb.WriteString(pen)
			it.sb.WriteString(geometryIndent + "  </GeometryDrawing.Pen>" + NewLine)
		}
		it.sb.WriteString(geometryIndent + "</GeometryDrawing>" + NewLine)
	}

	if isGroup {
		it.sb.WriteString(groupIndent + "</DrawingGroup>" + NewLine)
	}
}

// ToXaml returns the markup drawing pic.
// A nil picture produces an empty drawing.
// The result is not terminated by a new line.
func ToXaml(pic *picture.Picture, opts Options) string {
	var keyAttr string
	if opts.Key != "" {
		keyAttr = ` x:Key="` + opts.Key + `"`
	}
	indent := opts.Indent

	groupIndent := indent + "  "
	if opts.GenerateImage {
		groupIndent = indent + "      "
	}
	it := newInterpreter(groupIndent, opts.logger())

	if opts.GenerateImage {
		it.sb.WriteString(indent + "<Image" + keyAttr + ">" + NewLine)
		it.sb.WriteString(indent + "  <DrawingImage>" + NewLine)
		it.sb.WriteString(indent + "    <DrawingGroup>" + NewLine)
	} else {
		it.sb.WriteString(indent + "<DrawingGroup" + keyAttr + ">" + NewLine)
	}

	if pic != nil {
		for _, cmd := range pic.Commands {
			it.execute(cmd)
		}
	}

	if opts.GenerateImage {
		it.sb.WriteString(indent + "    </DrawingGroup>" + NewLine)
		it.sb.WriteString(indent + "  </DrawingImage>" + NewLine)
		it.sb.WriteString(indent + "</Image>")
	} else {
		it.sb.WriteString(indent + "</DrawingGroup>")
	}
	return it.sb.String()
}

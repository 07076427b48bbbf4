package xaml

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgtoxaml/picture"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	stylesNamespace = "https://github.com/avaloniaui"
	xamlNamespace   = "http://schemas.microsoft.com/winfx/2006/xaml"
)

// Parser loads the picture of an SVG file.
// A nil picture with a nil error means the file has nothing to draw.
type Parser interface {
	Parse(path string) (*picture.Picture, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(path string) (*picture.Picture, error)

func (f ParserFunc) Parse(path string) (*picture.Picture, error) { return f(path) }

// FileError is returned when a source file of a batch could not be parsed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("converting %s: %s", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// BatchOptions controls the conversion of several files.
type BatchOptions struct {
	// GenerateImage wraps each drawing in an Image element.
	GenerateImage bool
	// GenerateStyles wraps the drawings in a Styles resource dictionary,
	// each keyed by CreateKey.
	GenerateStyles bool
	// Indent is prepended to every line.
	Indent string
	// Parser is required.
	Parser Parser
	// Workers is the maximum number of files parsed concurrently.
	// Zero or one means sequential parsing.
	Workers int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// NewBatchOptions returns the default options, generating
// a Styles document.
func NewBatchOptions(parser Parser) BatchOptions {
	return BatchOptions{GenerateStyles: true, Parser: parser}
}

type parsed struct {
	pic *picture.Picture
	err error
}

// parseAll parses every file, in parallel if required,
// returning the results in input order.
func (opts BatchOptions) parseAll(paths []string) []parsed {
	out := make([]parsed, len(paths))
	var g errgroup.Group
	if opts.Workers > 1 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			pic, err := opts.Parser.Parse(path)
			out[i] = parsed{pic: pic, err: err}
			return nil // failures are reported per file
		})
	}
	_ = g.Wait()
	return out
}

// ConvertFiles parses and converts the given SVG files, in order.
// Files that fail to parse are skipped, and their errors are
// returned as *FileError, combined with multierr. Files without
// picture are silently skipped.
// The returned markup is always valid, even when the error is not nil.
func ConvertFiles(paths []string, opts BatchOptions) (string, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	indent := opts.Indent
	indentXaml := indent
	if opts.GenerateStyles {
		indentXaml += "      "
	}

	var sb strings.Builder
	if opts.GenerateStyles {
		sb.WriteString(indent + `<Styles xmlns="` + stylesNamespace + `"` + NewLine)
		sb.WriteString(indent + `        xmlns:x="` + xamlNamespace + `">` + NewLine)
		sb.WriteString(indent + "  <Style>" + NewLine)
		sb.WriteString(indent + "    <Style.Resources>" + NewLine)
	}

	var errs error
	for i, res := range opts.parseAll(paths) {
		path := paths[i]
		if res.err != nil {
			log.Warn("skipping file", zap.String("path", path), zap.Error(res.err))
			errs = multierr.Append(errs, &FileError{Path: path, Err: res.err})
			continue
		}
		if res.pic == nil {
			log.Debug("nothing to draw", zap.String("path", path))
			continue
		}

		fileOpts := Options{GenerateImage: opts.GenerateImage, Indent: indentXaml, Logger: log.With(zap.String("path", path))}
		if opts.GenerateStyles {
			fileOpts.Key = CreateKey(path)
		}
		sb.WriteString(indentXaml + "<!-- " + filepath.Base(path) + " -->" + NewLine)
		sb.WriteString(ToXaml(res.pic, fileOpts))
		sb.WriteString(NewLine)
	}

	if opts.GenerateStyles {
		sb.WriteString(indent + "    </Style.Resources>" + NewLine)
		sb.WriteString(indent + "  </Style>" + NewLine)
		sb.WriteString(indent + "</Styles>")
	}
	return sb.String(), errs
}

// CreateKey derives a resource key from a file path: the file name
// without extension, with '-' replaced by '_', prefixed by '_'.
// Keys are not checked for uniqueness.
func CreateKey(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return "_" + strings.ReplaceAll(name, "-", "_")
}

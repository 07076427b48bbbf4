// Command svgtoxaml converts SVG files to Avalonia XAML drawings.
//
// Usage:
//
//	svgtoxaml [flags] files...
//
// The markup is written to the standard output, or to the file given by --out.
// Settings may be read from a YAML file (see --config), and are overridden
// by the command line flags.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgtoxaml/svgicon"
	"github.com/benoitkugler/svgtoxaml/svgraster"
	"github.com/benoitkugler/svgtoxaml/svgrecord"
	"github.com/benoitkugler/svgtoxaml/xaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliFlags struct {
	config  string
	out     string
	verbose bool
	strict  bool
	s       settings
}

func newRootCmd() *cobra.Command {
	var fl cliFlags
	fl.s = defaultSettings()

	cmd := &cobra.Command{
		Use:          "svgtoxaml [flags] files...",
		Short:        "Convert SVG files to Avalonia XAML drawings",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := fl.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := newLogger(fl.verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			errMode := svgicon.WarnErrorMode
			if fl.strict {
				errMode = svgicon.StrictErrorMode
			}

			out := cmd.OutOrStdout()
			if fl.out != "" {
				f, err := os.Create(fl.out)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return run(args, s, errMode, out, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&fl.config, "config", "c", "", "YAML settings file")
	flags.StringVarP(&fl.out, "out", "o", "", "output file (default is the standard output)")
	flags.BoolVarP(&fl.verbose, "verbose", "v", false, "log debug messages")
	flags.BoolVar(&fl.strict, "strict", false, "fail on unsupported SVG elements")
	flags.BoolVar(&fl.s.GenerateImage, "image", fl.s.GenerateImage, "wrap each drawing in an Image element")
	flags.BoolVar(&fl.s.GenerateStyles, "styles", fl.s.GenerateStyles, "output a Styles document with one resource per file")
	flags.StringVar(&fl.s.Indent, "indent", fl.s.Indent, "prefix of every output line")
	flags.BoolVar(&fl.s.IgnoreOpacity, "ignore-opacity", fl.s.IgnoreOpacity, "ignore the opacity properties")
	flags.BoolVar(&fl.s.IgnoreClipPath, "ignore-clip-path", fl.s.IgnoreClipPath, "ignore the clip-path references")
	flags.StringVar(&fl.s.Preview, "preview", fl.s.Preview, "directory where PNG previews are written")
	flags.IntVarP(&fl.s.Workers, "workers", "j", fl.s.Workers, "number of files parsed concurrently")
	return cmd
}

// resolve merges the settings file with the flags
// explicitly set on the command line.
func (fl cliFlags) resolve(flags *pflag.FlagSet) (settings, error) {
	if fl.config == "" {
		return fl.s, nil
	}
	s, err := readSettingsFile(fl.config)
	if err != nil {
		return s, err
	}
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "image":
			s.GenerateImage = fl.s.GenerateImage
		case "styles":
			s.GenerateStyles = fl.s.GenerateStyles
		case "indent":
			s.Indent = fl.s.Indent
		case "ignore-opacity":
			s.IgnoreOpacity = fl.s.IgnoreOpacity
		case "ignore-clip-path":
			s.IgnoreClipPath = fl.s.IgnoreClipPath
		case "preview":
			s.Preview = fl.s.Preview
		case "workers":
			s.Workers = fl.s.Workers
		}
	})
	return s, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// run converts the files and writes the markup to out.
// Per file failures are logged and returned, once every
// file has been processed.
func run(paths []string, s settings, errMode svgicon.ErrorMode, out io.Writer, log *zap.Logger) error {
	parser := svgrecord.Parser(svgrecord.Options{
		Ignore: svgrecord.DrawAttributes{
			IgnoreOpacity:  s.IgnoreOpacity,
			IgnoreClipPath: s.IgnoreClipPath,
		},
		ErrorMode: errMode,
		Logger:    log,
	})
	opts := xaml.BatchOptions{
		GenerateImage:  s.GenerateImage,
		GenerateStyles: s.GenerateStyles,
		Indent:         s.Indent,
		Parser:         parser,
		Workers:        s.Workers,
		Logger:         log,
	}
	markup, errs := xaml.ConvertFiles(paths, opts)
	if _, err := io.WriteString(out, markup); err != nil {
		return err
	}

	if s.Preview != "" {
		errs = multierr.Append(errs, writePreviews(paths, s.Preview, errMode, log))
	}
	return errs
}

// writePreviews renders every file as a PNG image in dir,
// named after the source file.
func writePreviews(paths []string, dir string, errMode svgicon.ErrorMode, log *zap.Logger) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	var errs error
	for _, path := range paths {
		name := filepath.Base(path)
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
		target := filepath.Join(dir, name)
		if err := svgraster.RenderFile(path, target, errMode, log); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("preview: %w", err))
			continue
		}
		log.Debug("preview written", zap.String("path", target))
	}
	return errs
}

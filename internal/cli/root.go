// Package cli implements the dstore command line tool.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/substrail/dstore/format"
	"github.com/substrail/dstore/ir"
	"github.com/substrail/dstore/jsonfmt"
	"github.com/substrail/dstore/stream"
	"github.com/substrail/dstore/xmlfmt"
)

// RootOptions holds flags shared by all subcommands.
type RootOptions struct {
	Verbose bool
	NoColor bool
	Log     *logrus.Logger
}

// NewRootCommand creates the dstore root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Log: logrus.New()}
	opts.Log.SetOutput(os.Stderr)
	opts.Log.SetLevel(logrus.WarnLevel)

	cmd := &cobra.Command{
		Use:   "dstore",
		Short: "Convert, inspect and diff data store documents",
		Long: `dstore works with hierarchical data store documents in their JSON
and XML encodings: it converts between them, validates them, diffs
them, and escapes arbitrary strings into store names.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose {
				opts.Log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging to stderr")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		NewConvertCommand(opts),
		NewDiffCommand(opts),
		NewEscapeCommand(opts),
		NewUnescapeCommand(opts),
		NewValidateCommand(opts),
	)
	return cmd
}

// colorEnabled reports whether colored output should be produced on w.
func colorEnabled(opts *RootOptions, w io.Writer) bool {
	if opts.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openReader builds a stream.Reader for the given format and mode.
func openReader(src io.Reader, f format.Format, native bool) stream.Reader {
	switch f {
	case format.XMLFormat:
		var o []xmlfmt.Option
		if native {
			o = append(o, xmlfmt.Native())
		}
		return xmlfmt.NewReader(src, o...)
	default:
		var o []jsonfmt.Option
		if native {
			o = append(o, jsonfmt.Native())
		}
		return jsonfmt.NewReader(src, o...)
	}
}

// openWriter builds a stream.Writer for the given format and options.
func openWriter(dst io.Writer, f format.Format, native, indent bool, newline string) stream.Writer {
	switch f {
	case format.XMLFormat:
		o := []xmlfmt.Option{xmlfmt.Newline(newline)}
		if native {
			o = append(o, xmlfmt.Native())
		}
		if indent {
			o = append(o, xmlfmt.Indent())
		}
		return xmlfmt.NewWriter(dst, o...)
	default:
		o := []jsonfmt.Option{jsonfmt.Newline(newline)}
		if native {
			o = append(o, jsonfmt.Native())
		}
		if indent {
			o = append(o, jsonfmt.Indent())
		}
		return jsonfmt.NewWriter(dst, o...)
	}
}

// loadTree reads a whole document into a tree. A nil root is a legal
// result (empty store).
func loadTree(path string, f format.Format, native bool) (*ir.Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := openReader(file, f, native)
	defer r.Close()
	return stream.ReadNode(r)
}

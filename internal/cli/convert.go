package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/substrail/dstore/format"
	"github.com/substrail/dstore/stream"
)

type convertOptions struct {
	from      string
	to        string
	nativeIn  bool
	nativeOut bool
	indent    bool
	crlf      bool
	output    string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <input-file>",
		Short: "Convert a document between the JSON and XML encodings",
		Long: `Convert reads a data store document in one encoding and writes it in
another, streaming token by token. Formats default to the file
suffixes; use --from/--to to override.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, opts, args[0], cmd)
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "input format (json|xml); default: detect from suffix")
	cmd.Flags().StringVar(&opts.to, "to", "", "output format (json|xml); default: the other encoding")
	cmd.Flags().BoolVar(&opts.nativeIn, "native-in", false, "read in native data store mode")
	cmd.Flags().BoolVar(&opts.nativeOut, "native-out", false, "write in native data store mode")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "pretty-print the output")
	cmd.Flags().BoolVar(&opts.crlf, "crlf", false, "use CRLF line endings (default: CRLF for xml, LF for json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runConvert(rootOpts *RootOptions, opts *convertOptions, input string, cmd *cobra.Command) error {
	inFmt, err := resolveFormat(opts.from, input)
	if err != nil {
		return err
	}
	var outFmt format.Format
	if opts.to != "" {
		outFmt, err = format.ParseFormat(opts.to)
		if err != nil {
			return err
		}
	} else if opts.output != "" {
		outFmt, err = format.Detect(opts.output)
		if err != nil {
			return err
		}
	} else {
		// Default to the other encoding.
		outFmt = format.XMLFormat
		if inFmt.IsXML() {
			outFmt = format.JSONFormat
		}
	}
	rootOpts.Log.Debugf("converting %s (%s) to %s", input, inFmt, outFmt)

	file, err := os.Open(input)
	if err != nil {
		return err
	}
	r := openReader(file, inFmt, opts.nativeIn)
	defer r.Close()

	var dst io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		out, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		dst = out
	}
	newline := "\n"
	if opts.crlf || outFmt.IsXML() && !cmd.Flags().Changed("crlf") {
		newline = "\r\n"
	}
	w := openWriter(dst, outFmt, opts.nativeOut, opts.indent, newline)
	if err := stream.CopyTokens(w, r); err != nil {
		w.Close()
		return fmt.Errorf("convert %s: %w", input, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}
	if opts.output == "" && !opts.indent {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func resolveFormat(flag, path string) (format.Format, error) {
	if flag != "" {
		return format.ParseFormat(flag)
	}
	return format.Detect(path)
}

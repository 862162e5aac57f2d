package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/substrail/dstore/ir"
	"github.com/substrail/dstore/jsonfmt"
	"github.com/substrail/dstore/stream"
)

type diffOptions struct {
	from     string
	nativeIn bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <file-a> <file-b>",
		Short: "Diff two documents structurally",
		Long: `Diff parses both documents (either encoding), renders each tree in
canonical pretty-printed JSON and prints a line diff. Two documents in
different encodings compare equal when their trees are equal.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, opts, args[0], args[1], cmd)
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "input format of both files (json|xml); default: detect from suffix")
	cmd.Flags().BoolVar(&opts.nativeIn, "native-in", false, "read in native data store mode")
	return cmd
}

func runDiff(rootOpts *RootOptions, opts *diffOptions, pathA, pathB string, cmd *cobra.Command) error {
	treeA, err := loadDiffTree(opts, pathA)
	if err != nil {
		return err
	}
	treeB, err := loadDiffTree(opts, pathB)
	if err != nil {
		return err
	}
	if ir.Equal(treeA, treeB) {
		rootOpts.Log.Debugf("%s and %s are structurally equal", pathA, pathB)
		return nil
	}

	canonA, err := canonicalJSON(treeA)
	if err != nil {
		return err
	}
	canonB, err := canonicalJSON(treeB)
	if err != nil {
		return err
	}

	dmp := diffpatch.New()
	chA, chB, lines := dmp.DiffLinesToChars(canonA, canonB)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chA, chB, false), lines)

	out := cmd.OutOrStdout()
	useColor := colorEnabled(rootOpts, out)
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	for _, d := range diffs {
		for text := d.Text; len(text) > 0; {
			line := text
			if i := strings.IndexByte(text, '\n'); i >= 0 {
				line = text[:i+1]
			}
			text = text[len(line):]
			switch d.Type {
			case diffpatch.DiffInsert:
				printMarked(out, useColor, add, "+", line)
			case diffpatch.DiffDelete:
				printMarked(out, useColor, del, "-", line)
			default:
				fmt.Fprint(out, " ", line)
			}
		}
	}
	return fmt.Errorf("%s and %s differ", pathA, pathB)
}

func printMarked(out io.Writer, useColor bool, c *color.Color, mark, line string) {
	if useColor {
		c.Fprint(out, mark, line)
		return
	}
	fmt.Fprint(out, mark, line)
}

func loadDiffTree(opts *diffOptions, path string) (*ir.Node, error) {
	f, err := resolveFormat(opts.from, path)
	if err != nil {
		return nil, err
	}
	tree, err := loadTree(path, f, opts.nativeIn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// canonicalJSON renders a tree in the one fixed form diffs run over:
// native mode, indented, LF line ends.
func canonicalJSON(tree *ir.Node) (string, error) {
	var b strings.Builder
	w := jsonfmt.NewWriter(&b, jsonfmt.Native(), jsonfmt.Indent())
	if err := stream.WriteNode(w, tree); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return b.String() + "\n", nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/substrail/dstore/ir"
)

type validateOptions struct {
	from     string
	nativeIn bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Parse documents and report the first problem in each",
		Long: `Validate parses each document completely, checking syntax, name
grammar and structure, and reports node and leaf counts on success.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var firstErr error
			for _, path := range args {
				if err := validateOne(rootOpts, opts, path, cmd); err != nil && firstErr == nil {
					firstErr = err
				}
			}
			return firstErr
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "input format (json|xml); default: detect from suffix")
	cmd.Flags().BoolVar(&opts.nativeIn, "native-in", false, "read in native data store mode")
	return cmd
}

func validateOne(rootOpts *RootOptions, opts *validateOptions, path string, cmd *cobra.Command) error {
	f, err := resolveFormat(opts.from, path)
	if err != nil {
		return err
	}
	tree, err := loadTree(path, f, opts.nativeIn)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: INVALID: %v\n", path, err)
		return fmt.Errorf("%s: %w", path, err)
	}
	objects, leaves := 0, 0
	if tree != nil {
		tree.Visit(func(n *ir.Node, isPost bool) (bool, error) {
			if isPost {
				return false, nil
			}
			if n.Kind == ir.ObjectKind {
				objects++
			} else {
				leaves++
			}
			return true, nil
		})
	}
	rootOpts.Log.Debugf("%s parsed as %s", path, f)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d objects, %d values)\n", path, objects, leaves)
	return nil
}

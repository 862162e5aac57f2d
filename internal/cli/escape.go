package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/substrail/dstore/escape"
)

// NewEscapeCommand creates the escape command.
func NewEscapeCommand(rootOpts *RootOptions) *cobra.Command {
	var asPath bool
	cmd := &cobra.Command{
		Use:   "escape <string>...",
		Short: "Escape arbitrary strings into data store names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if asPath {
					fmt.Fprintln(cmd.OutOrStdout(), escape.EscapePath(arg))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), escape.Escape(arg))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asPath, "path", "p", false, "treat arguments as /-separated paths")
	return cmd
}

// NewUnescapeCommand creates the unescape command.
func NewUnescapeCommand(rootOpts *RootOptions) *cobra.Command {
	var asPath bool
	cmd := &cobra.Command{
		Use:           "unescape <name>...",
		Short:         "Unescape data store names back to the strings they encode",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				var (
					s   string
					err error
				)
				if asPath {
					s, err = escape.UnescapePath(arg)
				} else {
					s, err = escape.Unescape(arg)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asPath, "path", "p", false, "treat arguments as /-separated paths")
	return cmd
}

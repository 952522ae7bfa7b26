package cmd

import (
	"github.com/spf13/cobra"
	"stitch.dev/pkg/stitch/internal/domain"
)

// removeCmd represents the remove command.
var removeCmd = newRemoveCmd()

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <file> <instruction...>",
		Short: "Remove code from a file",
		Long:  "Like edit, but phrases the request as a removal from the file.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args, domain.ModeRemove)
		},
	}

	configureEditFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

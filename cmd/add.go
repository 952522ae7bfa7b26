package cmd

import (
	"github.com/spf13/cobra"
	"stitch.dev/pkg/stitch/internal/domain"
)

// addCmd represents the add command.
var addCmd = newAddCmd()

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file> <instruction...>",
		Short: "Add functionality to a file",
		Long:  "Like edit, but phrases the request as an addition to the file.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args, domain.ModeAdd)
		},
	}

	configureEditFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(addCmd)
}

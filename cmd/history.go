package cmd

import (
	"github.com/spf13/cobra"
)

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past apply outcomes",
		Long:  "List the journaled apply outcomes with their backup paths.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, cleanup, err := buildWorkflow(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			return wf.ShowHistory()
		},
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

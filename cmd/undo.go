package cmd

import (
	"github.com/spf13/cobra"
	m "stitch.dev/pkg/stitch/internal/model"
)

// undoCmd represents the undo command.
var undoCmd = newUndoCmd()

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <file> [backup]",
		Short: "Restore a file from its backup",
		Long: `Restore a file from a backup made by a previous apply. Defaults to
<file>.bak; pass the backup path explicitly for timestamped backups.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := m.Path(args[0])

			backup := file + ".bak"
			if len(args) == 2 {
				backup = m.Path(args[1])
			}

			wf, cleanup, err := buildWorkflow(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			return wf.Undo(file, backup)
		},
	}
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

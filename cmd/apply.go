package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	m "stitch.dev/pkg/stitch/internal/model"
)

var applyDryRunFlag bool
var applyRewriteFlag bool

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file> [diff-file]",
		Short: "Apply an existing unified diff to a file",
		Long: `Validate and apply a unified diff without calling a model. The diff is
read from diff-file, or from stdin when omitted or "-".`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			diffText, err := readDiffInput(cmd, args)
			if err != nil {
				return err
			}

			wf, cleanup, err := buildWorkflow(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			return wf.ApplyDiff(
				cmd.Context(),
				m.Path(args[0]),
				diffText,
				editPolicy(applyRewriteFlag),
				applyDryRunFlag,
			)
		},
	}

	cmd.Flags().BoolVarP(&applyDryRunFlag, dryRunFlagName, "n", false, "show the effective change without writing")
	cmd.Flags().BoolVar(&applyRewriteFlag, rewriteFlagName, false, "accept diffs that replace most of the file")

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func readDiffInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) < 2 || args[1] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read diff from stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(args[1]) // #nosec G304 -- user-supplied diff path
	if err != nil {
		return "", fmt.Errorf("failed to read diff file: %w", err)
	}

	return string(data), nil
}

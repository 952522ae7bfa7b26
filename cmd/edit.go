package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"stitch.dev/pkg/stitch/internal/domain"
	m "stitch.dev/pkg/stitch/internal/model"
)

var editDryRunFlag bool
var editRewriteFlag bool
var editContextFlag int

// editCmd represents the edit command.
var editCmd = newEditCmd()

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file> <instruction...>",
		Short: "Edit a file according to an instruction",
		Long: `Ask the model for a unified diff implementing the instruction, validate
it, and apply it to the file with an automatic backup.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args, domain.ModeEdit)
		},
	}

	configureEditFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func configureEditFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&editDryRunFlag, dryRunFlagName, "n", false, "show the effective change without writing")
	cmd.Flags().BoolVar(&editRewriteFlag, rewriteFlagName, false, "accept diffs that replace most of the file")
	cmd.Flags().IntVarP(&editContextFlag, contextFlagName, "c", viper.GetInt(contextFilesKey), "number of sibling files to include as context (0 disables)")
	bindFlagToConfig(cmd.Flags().Lookup(contextFlagName), contextFilesKey)
}

// runEdit is shared by edit, add and remove; they differ only in prompt mode.
func runEdit(cmd *cobra.Command, args []string, mode domain.EditMode) error {
	wf, cleanup, err := buildWorkflow(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	return wf.Edit(cmd.Context(), domain.EditArgs{
		File:         m.Path(args[0]),
		Instruction:  strings.Join(args[1:], " "),
		Mode:         mode,
		Policy:       editPolicy(editRewriteFlag),
		DryRun:       editDryRunFlag,
		ContextFiles: viper.GetInt(contextFilesKey),
	})
}

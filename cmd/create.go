package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"stitch.dev/pkg/stitch/internal/domain"
	m "stitch.dev/pkg/stitch/internal/model"
)

var createTemplateFlag string

// createCmd represents the create command.
var createCmd = newCreateCmd()

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <file> [instruction...]",
		Short: "Create a new file",
		Long: `Create a new file. With an instruction the model generates the content;
without one a template matching the file extension is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := strings.Join(args[1:], " ")

			wf, cleanup, err := buildWorkflow(cmd, instruction != "")
			if err != nil {
				return err
			}
			defer cleanup()

			return wf.Create(cmd.Context(), domain.CreateArgs{
				File:        m.Path(args[0]),
				Template:    createTemplateFlag,
				Instruction: instruction,
			})
		},
	}

	cmd.Flags().StringVarP(&createTemplateFlag, "template", "t", "", "scaffold template name (default: file extension)")

	return cmd
}

func init() {
	rootCmd.AddCommand(createCmd)
}

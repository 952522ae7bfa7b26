package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	m "stitch.dev/pkg/stitch/internal/model"
)

var askFileFlag string

// askCmd represents the ask command.
var askCmd = newAskCmd()

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a question without changing any file",
		Long: `Send a question to the model and print the answer. With --file, sibling
files of the given path are included as context.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, cleanup, err := buildWorkflow(cmd, true)
			if err != nil {
				return err
			}
			defer cleanup()

			answer, err := wf.Ask(
				cmd.Context(),
				strings.Join(args, " "),
				m.Path(askFileFlag),
				viper.GetInt(contextFilesKey),
			)
			if err != nil {
				return err
			}

			newUI(cmd).Answer(answer)

			return nil
		},
	}

	cmd.Flags().StringVarP(&askFileFlag, "file", "f", "", "file whose directory provides context")

	return cmd
}

func init() {
	rootCmd.AddCommand(askCmd)
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"stitch.dev/pkg/stitch/internal/adapter"
	"stitch.dev/pkg/stitch/internal/controller"
	"stitch.dev/pkg/stitch/internal/domain"
	m "stitch.dev/pkg/stitch/internal/model"
)

// sessionCmd represents the session command.
var sessionCmd = newSessionCmd()

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session <file>",
		Short: "Start an interactive edit session for a file",
		Long: `Open an interactive loop against one file. Plain input is treated as an
edit instruction; input starting with "?" is answered without changing
the file. The file is watched and a warning is shown if it changes on
disk between turns. Earlier turns are carried into later prompts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), m.Path(args[0]))
		},
	}
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(ctx context.Context, file m.Path) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	guard, err := adapter.NewWorkspaceGuard(m.Path(cwd))
	if err != nil {
		return err
	}

	abs, err := guard.Resolve(file)
	if err != nil {
		return err
	}

	journal, err := adapter.NewFileJournal(m.Path(viper.GetString(historyFileKey)))
	if err != nil {
		return fmt.Errorf("failed to open history journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	client, err := newProviderClient()
	if err != nil {
		return err
	}

	// The session UI renders workflow output into the transcript instead of
	// straight to the terminal, so the workflow gets a buffered UI.
	var buf bytes.Buffer

	bufCmd := &cobra.Command{}
	bufCmd.SetOut(&buf)
	bufCmd.SetErr(&buf)

	wf := domain.NewWorkflow(fileAdapter, guard, journal, controller.NewSimpleUI(bufCmd, false), client)

	handler := &sessionHandler{
		wf:           wf,
		buf:          &buf,
		file:         abs,
		policy:       editPolicy(false),
		contextFiles: viper.GetInt(contextFilesKey),
	}

	var events <-chan m.Path

	watcher, err := adapter.NewFileWatcher()
	if err == nil {
		defer func() { _ = watcher.Close() }()

		if err := watcher.Watch(abs); err == nil {
			events = watcher.Events()
		}
	}

	return controller.NewSessionTUI(os.Stdout, handler, events, file).Run(ctx)
}

// sessionHandler routes REPL input to the edit or ask flow and returns the
// buffered workflow output for the transcript.
type sessionHandler struct {
	wf           domain.Workflow
	buf          *bytes.Buffer
	file         m.Path
	policy       domain.Policy
	contextFiles int
}

func (h *sessionHandler) Handle(ctx context.Context, input string) (string, error) {
	h.buf.Reset()

	if question, ok := strings.CutPrefix(input, "?"); ok {
		return h.wf.Ask(ctx, strings.TrimSpace(question), h.file, h.contextFiles)
	}

	if input == "/clear" {
		h.wf.Session().Clear()
		return "session memory cleared", nil
	}

	err := h.wf.Edit(ctx, domain.EditArgs{
		File:         h.file,
		Instruction:  input,
		Mode:         domain.ModeEdit,
		Policy:       h.policy,
		ContextFiles: h.contextFiles,
	})

	out := strings.TrimRight(h.buf.String(), "\n")

	if err != nil {
		if out == "" {
			return "", err
		}

		return out + "\nerror: " + err.Error(), nil
	}

	if out == "" {
		out = "done"
	}

	return out, nil
}

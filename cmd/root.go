// Package cmd provides the root command and CLI setup for stitch.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"stitch.dev/pkg/stitch/internal/adapter"
	"stitch.dev/pkg/stitch/internal/controller"
	"stitch.dev/pkg/stitch/internal/domain"
	m "stitch.dev/pkg/stitch/internal/model"
	"stitch.dev/pkg/stitch/internal/provider"
)

var fileAdapter adapter.FileAdapter

// providerFlag selects the model backend for commands that call one.
var providerFlag string

// modelFlag overrides the backend's default model name.
var modelFlag string

// verboseFlag raises the log level to debug.
var verboseFlag bool

// logFileFlag redirects the rolling log file.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fileAdapter = adapter.NewLocalFileAdapter()
}

const rootLongDescription = `Stitch is a command-line coding assistant that edits files through
unified diffs. A model proposes a diff for the requested change; stitch
validates it against the target file, shows it, and applies it
transactionally with an automatic backup.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stitch",
		Short: "Diff-based coding assistant",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&providerFlag, providerFlagName, "p",
			viper.GetString(providerNameKey),
			"model backend (gemini, openrouter, ollama)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(providerFlagName), providerNameKey)

	cmd.PersistentFlags().StringVarP(&modelFlag, modelFlagName, "m", viper.GetString(providerModelKey), "model name for the selected backend")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(modelFlagName), providerModelKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default "+defaultLogFilename+")")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// newProviderClient builds the configured model backend.
func newProviderClient() (provider.Client, error) {
	name := viper.GetString(providerNameKey)

	return provider.New(name, provider.Config{
		APIKey:  viper.GetString(providerAPIKeyKey),
		Model:   viper.GetString(providerModelKey),
		BaseURL: viper.GetString(providerBaseURLKey),
		Timeout: time.Duration(viper.GetInt64(providerTimeoutKey)) * time.Second,
	})
}

// newUI builds the presentation layer for one command invocation, writing to
// the command's output streams.
func newUI(cmd *cobra.Command) controller.UI {
	return controller.NewSimpleUI(cmd, controller.IsTTY(os.Stdout))
}

// buildWorkflow wires the workflow for one command invocation. Commands that
// never call a model pass needProvider false and get a nil client.
func buildWorkflow(cmd *cobra.Command, needProvider bool) (domain.Workflow, func(), error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	guard, err := adapter.NewWorkspaceGuard(m.Path(cwd))
	if err != nil {
		return nil, nil, err
	}

	journal, err := adapter.NewFileJournal(m.Path(viper.GetString(historyFileKey)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history journal: %w", err)
	}

	var client provider.Client

	if needProvider {
		client, err = newProviderClient()
		if err != nil {
			_ = journal.Close()
			return nil, nil, err
		}
	}

	cleanup := func() { _ = journal.Close() }

	return domain.NewWorkflow(fileAdapter, guard, journal, newUI(cmd), client), cleanup, nil
}

// editPolicy resolves the validation policy from config plus the per-command
// rewrite override.
func editPolicy(allowFullRewrite bool) domain.Policy {
	policy := domain.DefaultPolicy()
	policy.AllowFullRewrite = allowFullRewrite || viper.GetBool(allowFullRewriteKey)

	if n := viper.GetInt(rewriteLinesKey); n > 0 {
		policy.RewriteLineThreshold = n
	}

	if n := viper.GetInt(rewriteHunkKey); n > 0 {
		policy.RewriteHunkThreshold = n
	}

	return policy
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// Package cli wires the scribe commands together.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/scribe-ai/scribe/internal/config"
	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/logging"
	"github.com/scribe-ai/scribe/internal/prompt"
	"github.com/scribe-ai/scribe/internal/provider"
	"github.com/scribe-ai/scribe/internal/review"
	"github.com/scribe-ai/scribe/internal/ui"
)

var (
	flagConfig string
	flagLog    string
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "AI-assisted commit messages and changelogs",
	Long: `scribe reads your repository, builds a token-budgeted prompt from the
staged changes or a commit range, and asks a language model for a
commit message, changelog, or release notes. Generated text goes
through an interactive review before anything touches the repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagLog != "" {
			return logging.Enable(flagLog)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to an alternate config file")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "append debug logs to this file")
}

// Execute runs the CLI. Errors that already produced friendly output
// (abort, nothing staged) are returned silently for the exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, review.ErrAborted) && !errors.Is(err, prompt.ErrNoContext) {
		ui.Error("%v", err)
		remediate(err)
	}
	return err
}

// remediate prints a follow-up hint for the error classes a user can
// fix themselves.
func remediate(err error) {
	switch {
	case errors.Is(err, provider.ErrConfig):
		ui.Hint("Set a key with `scribe config set api-key <KEY>` or export OPENAI_API_KEY / ANTHROPIC_API_KEY.")
	case errors.Is(err, provider.ErrUnavailable):
		ui.Hint("The provider did not respond; try again, or pick another with --provider.")
	case errors.Is(err, prompt.ErrBudgetTooSmall):
		ui.Hint("Raise token_limit or lower reserved_tokens with `scribe config set`.")
	case errors.Is(err, git.ErrNotRepo):
		ui.Hint("Run scribe inside a git repository.")
	}
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

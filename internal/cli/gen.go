package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/prompt"
	"github.com/scribe-ai/scribe/internal/provider"
	"github.com/scribe-ai/scribe/internal/review"
	"github.com/scribe-ai/scribe/internal/tokens"
	"github.com/scribe-ai/scribe/internal/ui"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a commit message for the staged changes",
	Long: `Generate a commit message from the staged diff, recent history, and
project metadata, then review it interactively: accept, regenerate,
refine with extra guidance, or edit by hand.

Examples:
  scribe gen                         # review interactively
  scribe gen -a                      # commit on accept
  scribe gen -p                      # print the first candidate and exit
  scribe gen -i "mention the migration"`,
	Args: cobra.NoArgs,
	RunE: runGen,
}

func init() {
	genCmd.Flags().BoolP("auto-commit", "a", false, "commit the staged changes once a message is accepted")
	genCmd.Flags().StringP("instructions", "i", "", "extra guidance for this run")
	genCmd.Flags().String("provider", "", "provider to use (overrides config)")
	genCmd.Flags().String("model", "", "model to use (overrides config)")
	genCmd.Flags().String("preset", "", "instruction preset to apply")
	genCmd.Flags().Bool("no-gitmoji", false, "disable the gitmoji hint even if configured")
	genCmd.Flags().BoolP("print", "p", false, "print the first candidate without reviewing")
	genCmd.Flags().Bool("no-history", false, "leave recent commits out of the context")
	genCmd.Flags().Bool("no-metadata", false, "leave project metadata out of the context")
	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := git.Discover(".")
	if err != nil {
		return err
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	noMetadata, _ := cmd.Flags().GetBool("no-metadata")
	snap, err := git.Inspect(root, git.InspectOptions{
		ContextLines: cfg.ContextLines,
		CommitCount:  cfg.CommitHistory,
		SkipHistory:  noHistory,
		SkipMetadata: noMetadata,
	})
	if err != nil {
		return err
	}

	presetFlag, _ := cmd.Flags().GetString("preset")
	instructionsFlag, _ := cmd.Flags().GetString("instructions")
	instructions, err := mergeInstructions(cfg, presetFlag, instructionsFlag)
	if err != nil {
		return err
	}

	frags, err := prompt.FromSnapshot(snap, prompt.BuildOptions{Instructions: instructions})
	if errors.Is(err, prompt.ErrNoContext) {
		ui.Warn("No staged changes to describe.")
		ui.Hint("Stage changes with `git add` first.")
		return err
	}
	if err != nil {
		return err
	}

	providerFlag, _ := cmd.Flags().GetString("provider")
	modelFlag, _ := cmd.Flags().GetString("model")
	backend, model, limit, err := resolveBackend(cfg, providerFlag, modelFlag)
	if err != nil {
		return err
	}

	noGitmoji, _ := cmd.Flags().GetBool("no-gitmoji")
	opts := prompt.Options{
		Task:    prompt.TaskCommitMessage,
		Gitmoji: cfg.Gitmoji && !noGitmoji,
	}
	budget := prompt.Budget{MaxTokens: limit, ReservedForResponse: cfg.ReservedTokens}
	est := tokens.ForModel(model)

	gen := review.GeneratorFunc(func(ctx context.Context, refinements []string) ([]string, error) {
		o := opts
		o.Refinements = refinements
		asm, err := prompt.Assemble(frags, budget, est, o)
		if err != nil {
			return nil, err
		}
		resp, err := backend.Complete(ctx, provider.Request{
			System:    asm.System,
			Prompt:    asm.User,
			Model:     modelFlag,
			MaxTokens: cfg.ReservedTokens,
		})
		if err != nil {
			return nil, err
		}
		return resp.Candidates, nil
	})

	ctx := cmd.Context()
	ui.Info("Generating a commit message with %s (%s)...", backend.Name(), model)
	candidates, err := gen.Generate(ctx, nil)
	if err != nil {
		return err
	}
	if len(candidates) == 0 || strings.TrimSpace(candidates[0]) == "" {
		return fmt.Errorf("%w: empty candidate", provider.ErrResponse)
	}
	first := strings.TrimSpace(candidates[0])

	if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
		fmt.Println(first)
		return nil
	}

	msg, err := review.Run(ctx, gen, first, snap.Staged)
	if errors.Is(err, review.ErrAborted) {
		ui.Warn("Review aborted; nothing committed.")
		return err
	}
	if err != nil {
		return err
	}

	if autoCommit, _ := cmd.Flags().GetBool("auto-commit"); autoCommit {
		hash, err := git.Commit(root, msg)
		if err != nil {
			return err
		}
		ui.Success("Committed %s", hash)
		return nil
	}

	fmt.Println(msg)
	ui.Hint("Rerun with -a to commit on accept.")
	return nil
}

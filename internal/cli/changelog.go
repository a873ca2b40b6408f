package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scribe-ai/scribe/internal/changelog"
	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/prompt"
	"github.com/scribe-ai/scribe/internal/provider"
	"github.com/scribe-ai/scribe/internal/tokens"
	"github.com/scribe-ai/scribe/internal/ui"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Generate a changelog for a commit range",
	Long: `Analyze the commits between two refs, score their impact, and generate
a changelog section grouped by Keep a Changelog categories.

Examples:
  scribe changelog --from v1.2.0
  scribe changelog --from v1.2.0 --to v1.3.0 --detail detailed
  scribe changelog --from v1.2.0 --format html -o CHANGELOG.html`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRange(cmd, prompt.TaskChangelog)
	},
}

var releaseNotesCmd = &cobra.Command{
	Use:   "release-notes",
	Short: "Generate release notes for a commit range",
	Long: `Like changelog, but written as release notes: a narrative summary and
highlights for users, followed by grouped details.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRange(cmd, prompt.TaskReleaseNotes)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{changelogCmd, releaseNotesCmd} {
		cmd.Flags().String("from", "", "start of the commit range (exclusive)")
		cmd.Flags().String("to", "", "end of the commit range (default HEAD)")
		cmd.Flags().StringP("detail", "d", "standard", "detail level: minimal, standard, detailed")
		cmd.Flags().StringP("format", "f", "markdown", "output format: markdown, html")
		cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
		cmd.Flags().StringP("instructions", "i", "", "extra guidance for this run")
		cmd.Flags().String("provider", "", "provider to use (overrides config)")
		cmd.Flags().String("model", "", "model to use (overrides config)")
		cmd.Flags().String("preset", "", "instruction preset to apply")
		cmd.MarkFlagRequired("from")
		rootCmd.AddCommand(cmd)
	}
}

func runRange(cmd *cobra.Command, task prompt.Task) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := git.Discover(".")
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	detailFlag, _ := cmd.Flags().GetString("detail")
	detail, err := prompt.ParseDetailLevel(detailFlag)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "markdown" && format != "html" {
		return fmt.Errorf("unknown format %q (markdown, html)", format)
	}

	changes, err := changelog.Analyze(root, from, to)
	if errors.Is(err, prompt.ErrNoContext) {
		ui.Warn("No commits in the requested range.")
		return err
	}
	if err != nil {
		return err
	}
	ui.Info("Analyzed %d commit(s).", len(changes))

	frags := changelog.Fragments(changes, from, to, detail, git.Readme(root))

	presetFlag, _ := cmd.Flags().GetString("preset")
	instructionsFlag, _ := cmd.Flags().GetString("instructions")
	instructions, err := mergeInstructions(cfg, presetFlag, instructionsFlag)
	if err != nil {
		return err
	}
	if f, ok := prompt.InstructionFragment(instructions); ok {
		frags = append(frags, f)
	}

	providerFlag, _ := cmd.Flags().GetString("provider")
	modelFlag, _ := cmd.Flags().GetString("model")
	backend, model, limit, err := resolveBackend(cfg, providerFlag, modelFlag)
	if err != nil {
		return err
	}

	asm, err := prompt.Assemble(frags,
		prompt.Budget{MaxTokens: limit, ReservedForResponse: cfg.ReservedTokens},
		tokens.ForModel(model),
		prompt.Options{Task: task, Detail: detail})
	if err != nil {
		return err
	}

	ui.Info("Generating %s with %s (%s)...", taskLabel(task), backend.Name(), model)
	resp, err := backend.Complete(cmd.Context(), provider.Request{
		System:    asm.System,
		Prompt:    asm.User,
		Model:     modelFlag,
		MaxTokens: cfg.ReservedTokens,
	})
	if err != nil {
		return err
	}
	if len(resp.Candidates) == 0 || strings.TrimSpace(resp.Candidates[0]) == "" {
		return fmt.Errorf("%w: empty candidate", provider.ErrResponse)
	}
	content := strings.TrimSpace(resp.Candidates[0]) + "\n"

	if format == "html" {
		rangeLabel := from + ".." + to
		if to == "" {
			rangeLabel = from + "..HEAD"
		}
		content, err = changelog.RenderHTML(taskTitle(task)+" "+rangeLabel, content)
		if err != nil {
			return err
		}
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		ui.Success("Wrote %s to %s", taskLabel(task), out)
		return nil
	}

	fmt.Print(content)
	return nil
}

func taskLabel(t prompt.Task) string {
	if t == prompt.TaskReleaseNotes {
		return "release notes"
	}
	return "changelog"
}

func taskTitle(t prompt.Task) string {
	if t == prompt.TaskReleaseNotes {
		return "Release Notes"
	}
	return "Changelog"
}

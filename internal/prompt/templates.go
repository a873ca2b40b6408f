package prompt

import (
	"fmt"
	"strings"
)

// Task selects the prompt template.
type Task int

const (
	TaskCommitMessage Task = iota
	TaskChangelog
	TaskReleaseNotes
)

func (t Task) String() string {
	switch t {
	case TaskChangelog:
		return "changelog"
	case TaskReleaseNotes:
		return "release_notes"
	default:
		return "commit_message"
	}
}

// DetailLevel adjusts changelog and release-note verbosity.
type DetailLevel int

const (
	DetailMinimal DetailLevel = iota
	DetailStandard
	DetailDetailed
)

func (d DetailLevel) String() string {
	switch d {
	case DetailMinimal:
		return "minimal"
	case DetailDetailed:
		return "detailed"
	default:
		return "standard"
	}
}

// ParseDetailLevel maps a flag value to a DetailLevel.
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return DetailStandard, nil
	case "minimal":
		return DetailMinimal, nil
	case "detailed":
		return DetailDetailed, nil
	default:
		return DetailStandard, fmt.Errorf("unknown detail level %q (minimal, standard, detailed)", s)
	}
}

const commitSystem = `You are an expert software engineer writing Git commit messages.
From the staged changes and surrounding context you produce one commit message.

Guidelines:
1. Subject line in the imperative mood, capitalized, at most 72 characters, no trailing period.
2. Describe what changed and why, not how the code works.
3. Add a body only when the change needs explanation; separate it with a blank line and wrap at 72 characters.
4. Mention only changes present in the provided diff. Never invent files, functions, or motivations.
5. No openers like "This commit" or "This change".

Respond with the commit message text only: no code fences, no commentary.`

const changelogSystem = `You are an expert technical writer producing a changelog section from analyzed Git commits.

Guidelines:
1. Group entries under the Keep a Changelog categories that apply: Added, Changed, Deprecated, Removed, Fixed, Security.
2. Write for users of the project, not its developers; lead with effects, not implementation.
3. One bullet per distinct change, concise and in the past tense.
4. Order bullets within a category by impact, using the per-commit impact scores as a guide.
5. Derive every entry from the provided commits. Never invent changes.

Respond with Markdown only, starting at the category headings.`

const releaseNotesSystem = `You are an expert technical writer producing release notes from analyzed Git commits.

Guidelines:
1. Open with a short narrative summary of the release: what a user gains by upgrading.
2. Follow with a Highlights list of the most impactful changes.
3. Close with grouped details (Added, Changed, Fixed, and so on) for the rest.
4. Write for users; skip internal refactors unless they change behavior.
5. Derive everything from the provided commits. Never invent changes.

Respond with Markdown only.`

// systemText renders the system prompt for a task, including the
// gitmoji appendix when enabled.
func systemText(opts Options) string {
	var base string
	switch opts.Task {
	case TaskChangelog:
		base = changelogSystem
	case TaskReleaseNotes:
		base = releaseNotesSystem
	default:
		base = commitSystem
	}
	if opts.Gitmoji && opts.Task == TaskCommitMessage {
		base += "\n\n" + GitmojiGuide()
	}
	return base
}

// userHeader frames the fragment list for a task, folding in detail
// level and any review-loop refinements.
func userHeader(opts Options) string {
	var b strings.Builder
	switch opts.Task {
	case TaskChangelog:
		b.WriteString("Create a changelog section for the commit range described below.\n")
		b.WriteString(detailSentence(opts.Detail))
	case TaskReleaseNotes:
		b.WriteString("Create release notes for the commit range described below.\n")
		b.WriteString(detailSentence(opts.Detail))
	default:
		b.WriteString("Write a commit message for the staged changes described below.")
	}
	if len(opts.Refinements) > 0 {
		b.WriteString("\n\nGuidance from review of earlier drafts, newest last:")
		for _, r := range opts.Refinements {
			b.WriteString("\n- ")
			b.WriteString(strings.TrimSpace(r))
		}
	}
	return b.String()
}

func detailSentence(d DetailLevel) string {
	switch d {
	case DetailMinimal:
		return "Keep it concise: top-level highlights only."
	case DetailDetailed:
		return "Be highly detailed, covering every notable change with file-level specifics."
	default:
		return "Provide a comprehensive but readable level of detail."
	}
}

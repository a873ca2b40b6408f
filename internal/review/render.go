package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scribe-ai/scribe/internal/git"
)

// renderDiffLines pre-renders the diff preview pane. Syntax colors
// apply to context lines; added and deleted lines keep their op color.
func renderDiffLines(files []*git.FileDiff) []string {
	var out []string
	for i, f := range files {
		if i > 0 {
			out = append(out, "")
		}
		header := fmt.Sprintf("%s (%s)", f.Label(), f.Change)
		out = append(out, promptStyle.Bold(true).Render(header))
		for _, hl := range git.HighlightPatch(f.Path, f.Patch()) {
			out = append(out, styleDiffLine(hl))
		}
	}
	return out
}

func styleDiffLine(hl git.HighlightedLine) string {
	switch hl.Op {
	case '@':
		return hunkStyle.Render(hl.Plain())
	case '+':
		return addedStyle.Render("+" + hl.Plain())
	case '-':
		return deletedStyle.Render("-" + hl.Plain())
	}

	var b strings.Builder
	b.WriteByte(' ')
	for _, tok := range hl.Tokens {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("scribe review"))
	b.WriteByte('\n')

	if m.session.State == Editing {
		b.WriteString(m.editor.View())
		b.WriteByte('\n')
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render("✗ " + m.errMsg))
			b.WriteByte('\n')
		}
		b.WriteString(helpBarStyle.Render("ctrl+s save  esc cancel"))
		return b.String()
	}

	if m.session.State == Regenerating {
		b.WriteString(m.spinner.View())
		b.WriteString(waitingStyle.Render("Generating a new candidate (q cancels)"))
		b.WriteString("\n\n")
	}

	b.WriteString(candidateStyle.Width(m.width - 4).Render(m.session.Current))
	b.WriteByte('\n')

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errMsg))
		b.WriteString("  ")
		b.WriteString(helpBarStyle.Render("r retries"))
		b.WriteByte('\n')
	}

	if n := len(m.session.History); n > 0 {
		b.WriteString(historyStyle.Render(fmt.Sprintf("%d earlier candidate(s), p recalls", n)))
		b.WriteByte('\n')
	}

	if m.refining {
		b.WriteString(promptStyle.Render("Guidance for the next attempt:"))
		b.WriteByte('\n')
		b.WriteString(m.input.View())
		b.WriteByte('\n')
		b.WriteString(helpBarStyle.Render("enter regenerates  esc cancels"))
		return b.String()
	}

	if m.showDiff {
		b.WriteString(m.renderDiffPane())
		b.WriteByte('\n')
	}

	b.WriteString(helpBarStyle.Render("a accept  r regenerate  i refine  e edit  p previous  d diff  ? help  q abort"))
	return b.String()
}

func (m Model) renderDiffPane() string {
	visible := m.height - 12
	if visible < 5 {
		visible = 5
	}

	end := m.diffScroll + visible
	if end > len(m.diffLines) {
		end = len(m.diffLines)
	}

	var b strings.Builder
	for i := m.diffScroll; i < end; i++ {
		b.WriteString(m.diffLines[i])
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	if end < len(m.diffLines) {
		b.WriteByte('\n')
		b.WriteString(helpBarStyle.Render(fmt.Sprintf("(%d more lines, j/k scrolls)", len(m.diffLines)-end)))
	}

	return diffViewStyle.Width(m.width - 4).Render(b.String())
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("scribe — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"a/enter", "Accept the candidate and finish"},
		{"r", "Regenerate with the same context"},
		{"i", "Add guidance, then regenerate"},
		{"e", "Edit the candidate by hand"},
		{"p", "Recall the previous candidate"},
		{"d", "Toggle the staged diff preview"},
		{"?", "Toggle this help"},
		{"q/esc", "Abort without accepting"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Package ui prints styled status lines for the CLI. Everything goes to
// stderr so stdout stays clean for generated output that may be piped.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1fa8c"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#bd93f9")).Bold(true)
)

// Out is the status writer. Tests swap it for a buffer.
var Out io.Writer = os.Stderr

// Success prints a green checkmarked line.
func Success(format string, args ...any) {
	fmt.Fprintln(Out, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints a red error line.
func Error(format string, args ...any) {
	fmt.Fprintln(Out, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning line.
func Warn(format string, args ...any) {
	fmt.Fprintln(Out, warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// Info prints a cyan informational line.
func Info(format string, args ...any) {
	fmt.Fprintln(Out, infoStyle.Render("· "+fmt.Sprintf(format, args...)))
}

// Hint prints a dimmed follow-up suggestion.
func Hint(format string, args ...any) {
	fmt.Fprintln(Out, hintStyle.Render("  "+fmt.Sprintf(format, args...)))
}

// Banner prints the accented program banner used by version and serve.
func Banner(text string) {
	fmt.Fprintln(Out, accentStyle.Render(text))
}

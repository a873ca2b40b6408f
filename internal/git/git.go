// Package git reads repository state for message generation: the staged
// diff parsed into per-file hunks, recent history, and commit-range
// listings for changelogs. All plumbing goes through the system git
// binary.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/scribe-ai/scribe/internal/logging"
)

// ErrNotRepo reports that the working directory is not inside a git
// repository.
var ErrNotRepo = errors.New("not inside a git repository")

// run executes git with the given arguments in dir, capturing output so
// nothing leaks onto a TUI screen.
func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debugf("git %s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s: %w", args[0], msg, err)
	}
	return stdout.String(), nil
}

// Discover resolves the repository root containing dir.
func Discover(dir string) (string, error) {
	out, err := run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRepo, err)
	}
	return strings.TrimSpace(out), nil
}

// Branch returns the current branch name. Detached heads and repos
// without commits report "HEAD".
func Branch(root string) string {
	out, err := run(root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "HEAD"
	}
	return strings.TrimSpace(out)
}

// StagedPaths lists paths with staged changes, tab-splitting rename
// entries to their new name.
func StagedPaths(root string) ([]string, error) {
	out, err := run(root, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// UnstagedPaths lists tracked paths with unstaged modifications.
func UnstagedPaths(root string) ([]string, error) {
	out, err := run(root, "diff", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// Commit records the staged changes with message and returns the new
// commit hash.
func Commit(root, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("refusing to commit with an empty message")
	}
	if _, err := run(root, "commit", "-m", message); err != nil {
		return "", err
	}
	out, err := run(root, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func splitLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

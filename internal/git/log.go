package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrBadRange reports an unknown ref in a commit range.
var ErrBadRange = errors.New("invalid ref or commit")

// Unit separators keep multi-line commit bodies parseable.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "%H" + fieldSep + "%an" + fieldSep + "%at" + fieldSep + "%B" + recordSep
)

// Commit is one history entry.
type Commit struct {
	Hash    string
	Author  string
	When    time.Time
	Subject string
	Body    string // full message including the subject line
}

// ShortHash returns the abbreviated hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, rec := range strings.Split(out, recordSep) {
		rec = strings.TrimLeft(rec, "\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}
		parts := strings.SplitN(rec, fieldSep, 4)
		if len(parts) != 4 {
			continue
		}
		c := Commit{Hash: parts[0], Author: parts[1], Body: strings.TrimSpace(parts[3])}
		if ts, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			c.When = time.Unix(ts, 0)
		}
		c.Subject, _, _ = strings.Cut(c.Body, "\n")
		commits = append(commits, c)
	}
	return commits
}

// RecentCommits returns up to n commits from HEAD, newest first. A repo
// without commits yields an empty slice; history is optional context.
func RecentCommits(root string, n int) ([]Commit, error) {
	out, err := run(root, "log", "-n", strconv.Itoa(n), "--format="+logFormat)
	if err != nil {
		return nil, nil
	}
	return parseLog(out), nil
}

// CommitsBetween lists the commits in from..to, oldest first. An empty
// to means HEAD.
func CommitsBetween(root, from, to string) ([]Commit, error) {
	if to == "" {
		to = "HEAD"
	}
	out, err := run(root, "log", "--reverse", "--format="+logFormat, from+".."+to)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return nil, fmt.Errorf("%w: %s..%s", ErrBadRange, from, to)
		}
		return nil, err
	}
	return parseLog(out), nil
}

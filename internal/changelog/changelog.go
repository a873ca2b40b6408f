// Package changelog turns a commit range into analyzed, scored changes
// and prompt fragments for changelog and release notes generation.
package changelog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scribe-ai/scribe/internal/analyze"
	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/prompt"
)

// FileChange is one file touched by a commit.
type FileChange struct {
	Path     string
	Change   git.ChangeType
	Analysis []string
}

// Metrics aggregates line movement for a commit or a whole range.
type Metrics struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// Total is the combined number of inserted and deleted lines.
func (m Metrics) Total() int { return m.Insertions + m.Deletions }

// AnalyzedChange is one commit with its parsed patch, metrics, and
// impact score.
type AnalyzedChange struct {
	Commit  git.Commit
	Files   []FileChange
	Metrics Metrics
	Impact  float64
}

// Analyze walks the commit range oldest first, parses each commit's
// patch, and scores its impact. An empty range is ErrNoContext.
func Analyze(root, from, to string) ([]AnalyzedChange, error) {
	commits, err := git.CommitsBetween(root, from, to)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		label := to
		if label == "" {
			label = "HEAD"
		}
		return nil, fmt.Errorf("%w: no commits between %s and %s", prompt.ErrNoContext, from, label)
	}

	changes := make([]AnalyzedChange, 0, len(commits))
	for _, c := range commits {
		files, err := git.CommitPatch(root, c.Hash, 3)
		if err != nil {
			return nil, fmt.Errorf("patch for %s: %w", c.ShortHash(), err)
		}
		changes = append(changes, analyzeCommit(c, files))
	}
	return changes, nil
}

func analyzeCommit(c git.Commit, files []*git.FileDiff) AnalyzedChange {
	change := AnalyzedChange{Commit: c}
	change.Metrics.FilesChanged = len(files)

	for _, f := range files {
		fc := FileChange{Path: f.Path, Change: f.Change}
		if !f.Excluded && !f.Binary {
			fc.Analysis = analyze.Notes(analyze.Change{
				Path: f.Path,
				Kind: f.Change.String(),
				Diff: f.Patch(),
			})
		}
		change.Files = append(change.Files, fc)
		change.Metrics.Insertions += f.Added
		change.Metrics.Deletions += f.Deleted
	}

	change.Impact = impactScore(change)
	return change
}

// impactScore ranks a commit by how much it moves: line volume, file
// spread, and a bump for source and manifest files over docs and assets.
func impactScore(c AnalyzedChange) float64 {
	score := float64(c.Metrics.Total()) / 100
	score += float64(c.Metrics.FilesChanged) * 0.1
	for _, f := range c.Files {
		score += fileWeight(f.Path)
	}
	return score
}

func fileWeight(path string) float64 {
	switch filepath.Base(path) {
	case "go.mod", "go.sum", "Cargo.toml", "Cargo.lock", "package.json", "pyproject.toml", "requirements.txt":
		return 1.0
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go", ".rs", ".js", ".ts", ".py", ".c", ".h", ".java":
		return 0.5
	case ".md", ".txt", ".rst":
		return 0.1
	default:
		return 0.25
	}
}

// TotalMetrics sums metrics across all changes in a range.
func TotalMetrics(changes []AnalyzedChange) Metrics {
	var total Metrics
	for _, c := range changes {
		total.FilesChanged += c.Metrics.FilesChanged
		total.Insertions += c.Metrics.Insertions
		total.Deletions += c.Metrics.Deletions
	}
	return total
}

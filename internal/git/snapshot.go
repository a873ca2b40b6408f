package git

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/scribe-ai/scribe/internal/analyze"
	"github.com/scribe-ai/scribe/internal/logging"
)

// Snapshot captures everything message generation needs from the repo.
type Snapshot struct {
	Branch   string
	Staged   []*FileDiff
	Unstaged []string
	Commits  []Commit
	Metadata analyze.Metadata
	Readme   string
}

// InspectOptions tune how much context Inspect gathers.
type InspectOptions struct {
	ContextLines int // diff context width, default 3
	CommitCount  int // recent history length, default 5
	SkipHistory  bool
	SkipMetadata bool
}

const (
	defaultContextLines = 3
	defaultCommitCount  = 5

	// readmeCap bounds how much README text enters a snapshot; the
	// budget allocator trims further.
	readmeCap = 8 << 10
)

// Inspect reads the staged diff plus surrounding context from the repo
// at root. An empty staged set is not an error here; callers decide
// whether that is fatal.
func Inspect(root string, opts InspectOptions) (*Snapshot, error) {
	if opts.ContextLines <= 0 {
		opts.ContextLines = defaultContextLines
	}
	if opts.CommitCount <= 0 {
		opts.CommitCount = defaultCommitCount
	}

	staged, err := StagedDiff(root, opts.ContextLines)
	if err != nil {
		return nil, err
	}
	for _, f := range staged {
		if f.Excluded || f.Binary {
			continue
		}
		f.Notes = analyze.Notes(analyze.Change{Path: f.Path, Kind: f.Change.String(), Diff: f.Patch()})
	}

	snap := &Snapshot{Branch: Branch(root), Staged: staged}

	if unstaged, err := UnstagedPaths(root); err == nil {
		snap.Unstaged = unstaged
	} else {
		logging.Debugf("unstaged listing failed: %v", err)
	}

	if !opts.SkipHistory {
		snap.Commits, _ = RecentCommits(root, opts.CommitCount)
	}

	if !opts.SkipMetadata {
		paths := make([]string, 0, len(staged)+len(snap.Unstaged))
		for _, f := range staged {
			paths = append(paths, f.Path)
		}
		paths = append(paths, snap.Unstaged...)
		snap.Metadata = analyze.MetadataForPaths(paths)
		snap.Readme = Readme(root)
	}
	return snap, nil
}

// SnapshotFromDiff builds a snapshot from an already-produced unified
// diff, for callers that receive a patch over the wire instead of
// reading a repository. History, branch, and README stay empty.
func SnapshotFromDiff(raw string) (*Snapshot, error) {
	files, err := parseDiff(raw)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
		if f.Excluded || f.Binary {
			continue
		}
		f.Notes = analyze.Notes(analyze.Change{Path: f.Path, Kind: f.Change.String(), Diff: f.Patch()})
	}
	return &Snapshot{Staged: files, Metadata: analyze.MetadataForPaths(paths)}, nil
}

// readmeNames in lookup order.
var readmeNames = []string{"README.md", "README.txt", "README", "Readme.md"}

// Readme returns the project README text, capped, or "" when none
// exists.
func Readme(root string) string {
	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		if len(data) > readmeCap {
			data = data[:readmeCap]
			for len(data) > 0 && !utf8.Valid(data) {
				data = data[:len(data)-1]
			}
		}
		return string(data)
	}
	return ""
}

package prompt

import (
	"fmt"
	"strings"

	"github.com/scribe-ai/scribe/internal/git"
)

// Priorities. Instructions always pack first; diffs shrink with size so
// focused changes beat sprawling ones; history decays with age;
// metadata fills leftover room.
const (
	priorityInstruction = 2000
	priorityDiffBase    = 1000
	priorityCommitBase  = 500
	priorityMetadata    = 100
	priorityReadme      = 50

	commitAgeDecay     = 10
	diffSizePenaltyCap = 400
)

// BuildOptions control fragment extraction from a snapshot.
type BuildOptions struct {
	// Instructions are the merged preset and user instructions; they
	// become the highest-priority fragment and are never dropped.
	Instructions string
}

// FromSnapshot converts a repository snapshot into prioritized
// fragments. It returns ErrNoContext when nothing is staged.
func FromSnapshot(snap *git.Snapshot, opts BuildOptions) ([]Fragment, error) {
	if snap == nil || len(snap.Staged) == 0 {
		return nil, ErrNoContext
	}

	var frags []Fragment
	if f, ok := InstructionFragment(opts.Instructions); ok {
		frags = append(frags, f)
	}

	for _, f := range snap.Staged {
		frags = append(frags, fileFragment(f))
	}

	for i, c := range snap.Commits {
		frags = append(frags, Fragment{
			Kind:     KindCommitMessage,
			Content:  fmt.Sprintf("Recent commit %s by %s:\n%s", c.ShortHash(), c.Author, c.Body),
			Priority: priorityCommitBase - i*commitAgeDecay,
		})
	}

	if meta := metadataContent(snap); meta != "" {
		frags = append(frags, Fragment{
			Kind:     KindProjectMetadata,
			Content:  meta,
			Priority: priorityMetadata,
		})
	}
	if snap.Readme != "" {
		frags = append(frags, Fragment{
			Kind:     KindProjectMetadata,
			Content:  "Project README:\n" + snap.Readme,
			Priority: priorityReadme,
		})
	}
	return frags, nil
}

// InstructionFragment wraps user guidance as the never-dropped,
// highest-priority fragment. It reports false for blank input.
func InstructionFragment(s string) (Fragment, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fragment{}, false
	}
	return Fragment{
		Kind:     KindUserInstruction,
		Content:  "Instructions from the user:\n" + s,
		Priority: priorityInstruction,
	}, true
}

// fileFragment renders one staged file, analysis first so it survives
// head-first truncation of long diffs.
func fileFragment(f *git.FileDiff) Fragment {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s (%s)\n", f.Label(), f.Change)
	if len(f.Notes) > 0 {
		b.WriteString("Analysis: ")
		b.WriteString(strings.Join(f.Notes, "; "))
		b.WriteString("\n")
	}
	patch := f.Patch()
	b.WriteString(patch)

	penalty := strings.Count(patch, "\n")
	if penalty > diffSizePenaltyCap {
		penalty = diffSizePenaltyCap
	}
	return Fragment{
		Kind:     KindFileDiff,
		Content:  b.String(),
		Priority: priorityDiffBase - penalty,
	}
}

func metadataContent(snap *git.Snapshot) string {
	var lines []string
	if snap.Branch != "" {
		lines = append(lines, "Branch: "+snap.Branch)
	}
	if s := snap.Metadata.Summary(); s != "" {
		lines = append(lines, s)
	}
	if n := len(snap.Unstaged); n > 0 {
		lines = append(lines, fmt.Sprintf("Unstaged changes in %d other file(s), not part of this commit.", n))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

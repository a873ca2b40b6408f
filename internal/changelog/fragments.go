package changelog

import (
	"fmt"
	"strings"

	"github.com/scribe-ai/scribe/internal/prompt"
)

const (
	metricsPriority = 1500
	commitBase      = 500
	impactCap       = 400
	readmePriority  = 50
)

// Fragments converts analyzed changes into prompt fragments. The range
// metrics lead, commit blocks rank by impact score so low-impact commits
// are shed first when the budget is tight, and the README trails.
func Fragments(changes []AnalyzedChange, from, to string, detail prompt.DetailLevel, readme string) []prompt.Fragment {
	if to == "" {
		to = "HEAD"
	}

	frags := make([]prompt.Fragment, 0, len(changes)+2)
	frags = append(frags, prompt.Fragment{
		Kind:     prompt.KindProjectMetadata,
		Content:  rangeHeader(changes, from, to),
		Priority: metricsPriority,
	})

	for _, c := range changes {
		boost := int(c.Impact * 100)
		if boost > impactCap {
			boost = impactCap
		}
		frags = append(frags, prompt.Fragment{
			Kind:     prompt.KindFileDiff,
			Content:  commitBlock(c, detail),
			Priority: commitBase + boost,
		})
	}

	if readme != "" {
		frags = append(frags, prompt.Fragment{
			Kind:     prompt.KindProjectMetadata,
			Content:  "Project README:\n" + readme,
			Priority: readmePriority,
		})
	}
	return frags
}

func rangeHeader(changes []AnalyzedChange, from, to string) string {
	total := TotalMetrics(changes)
	var b strings.Builder
	fmt.Fprintf(&b, "Changes from %s to %s\n", from, to)
	fmt.Fprintf(&b, "Total commits: %d\n", len(changes))
	fmt.Fprintf(&b, "Files changed: %d\n", total.FilesChanged)
	fmt.Fprintf(&b, "Total lines changed: %d\n", total.Total())
	fmt.Fprintf(&b, "Insertions: %d\n", total.Insertions)
	fmt.Fprintf(&b, "Deletions: %d", total.Deletions)
	return b.String()
}

// commitBlock renders one commit. Head-first truncation keeps the
// header stats and sheds trailing file detail, so the stats come first.
func commitBlock(c AnalyzedChange, detail prompt.DetailLevel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Commit: %s\n", c.Commit.Hash)
	fmt.Fprintf(&b, "Author: %s\n", c.Commit.Author)
	fmt.Fprintf(&b, "Date: %s\n", c.Commit.When.Format("2006-01-02"))
	fmt.Fprintf(&b, "Message: %s\n", strings.TrimSpace(c.Commit.Body))
	fmt.Fprintf(&b, "Files changed: %d\n", c.Metrics.FilesChanged)
	fmt.Fprintf(&b, "Lines changed: %d\n", c.Metrics.Total())
	fmt.Fprintf(&b, "Insertions: %d\n", c.Metrics.Insertions)
	fmt.Fprintf(&b, "Deletions: %d\n", c.Metrics.Deletions)
	fmt.Fprintf(&b, "Impact score: %.2f\n", c.Impact)

	switch detail {
	case prompt.DetailMinimal:
		// Stats only.
	case prompt.DetailDetailed:
		b.WriteString("Detailed file changes:\n")
		for _, f := range c.Files {
			fmt.Fprintf(&b, "  - %s (%s)\n", f.Path, f.Change)
			for _, note := range f.Analysis {
				fmt.Fprintf(&b, "    * %s\n", note)
			}
		}
	default:
		b.WriteString("File changes summary:\n")
		for _, f := range c.Files {
			fmt.Fprintf(&b, "  - %s (%s)\n", f.Path, f.Change)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

package changelog

import (
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/prompt"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	mustGit(t, dir, "init", "-q")
	mustGit(t, dir, "config", "user.email", "test@example.com")
	mustGit(t, dir, "config", "user.name", "Test")
	mustGit(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func mustGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func commitFile(t *testing.T, dir, name, content, message string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	mustGit(t, dir, "add", name)
	mustGit(t, dir, "commit", "-q", "-m", message)
	return mustGit(t, dir, "rev-parse", "HEAD")
}

func changedFile(path string, change git.ChangeType, added, deleted int, lines ...string) *git.FileDiff {
	frag := &gitdiff.TextFragment{NewPosition: 1, NewLines: int64(len(lines))}
	for _, l := range lines {
		frag.Lines = append(frag.Lines, gitdiff.Line{Op: gitdiff.OpAdd, Line: l + "\n"})
	}
	return &git.FileDiff{
		Path:      path,
		Change:    change,
		Added:     added,
		Deleted:   deleted,
		Fragments: []*gitdiff.TextFragment{frag},
	}
}

func TestAnalyzeRange(t *testing.T) {
	dir := initRepo(t)
	first := commitFile(t, dir, "main.go", "package main\n", "Initial commit")
	commitFile(t, dir, "parser.go", "package main\n\nfunc Parse() error { return nil }\n", "Add parser")
	commitFile(t, dir, "README.md", "# demo\n", "Add readme")

	changes, err := Analyze(dir, first, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[0].Commit.Subject != "Add parser" {
		t.Errorf("changes[0] = %q, want oldest first", changes[0].Commit.Subject)
	}
	if changes[1].Commit.Subject != "Add readme" {
		t.Errorf("changes[1] = %q", changes[1].Commit.Subject)
	}

	parser := changes[0]
	if parser.Metrics.FilesChanged != 1 || parser.Metrics.Insertions == 0 {
		t.Errorf("parser metrics = %+v", parser.Metrics)
	}
	if len(parser.Files) != 1 || parser.Files[0].Path != "parser.go" {
		t.Fatalf("parser files = %+v", parser.Files)
	}
	if parser.Impact <= 0 {
		t.Errorf("impact = %v, want > 0", parser.Impact)
	}
	if changes[0].Impact <= changes[1].Impact {
		t.Errorf("source commit impact %v should beat doc commit impact %v", changes[0].Impact, changes[1].Impact)
	}
}

func TestAnalyzeEmptyRange(t *testing.T) {
	dir := initRepo(t)
	head := commitFile(t, dir, "a.txt", "a\n", "Only commit")

	_, err := Analyze(dir, head, "")
	if !errors.Is(err, prompt.ErrNoContext) {
		t.Fatalf("err = %v, want ErrNoContext", err)
	}
}

func TestAnalyzeBadRange(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "a\n", "Only commit")

	_, err := Analyze(dir, "no-such-ref", "")
	if !errors.Is(err, git.ErrBadRange) {
		t.Fatalf("err = %v, want ErrBadRange", err)
	}
}

func TestAnalyzeCommitMetrics(t *testing.T) {
	c := git.Commit{Hash: strings.Repeat("a", 40), Author: "Ada", Subject: "Add parser"}
	files := []*git.FileDiff{
		changedFile("parser.go", git.Added, 12, 0, "func Parse() error {", "\treturn nil", "}"),
		changedFile("parser_test.go", git.Added, 30, 2, "func TestParse(t *testing.T) {"),
	}

	change := analyzeCommit(c, files)
	if change.Metrics.FilesChanged != 2 {
		t.Errorf("files changed = %d, want 2", change.Metrics.FilesChanged)
	}
	if change.Metrics.Insertions != 42 || change.Metrics.Deletions != 2 {
		t.Errorf("metrics = %+v", change.Metrics)
	}
	if change.Metrics.Total() != 44 {
		t.Errorf("total = %d, want 44", change.Metrics.Total())
	}
	if len(change.Files[0].Analysis) == 0 {
		t.Errorf("no analysis notes for parser.go")
	}
}

func TestAnalyzeCommitSkipsExcludedAnalysis(t *testing.T) {
	c := git.Commit{Hash: strings.Repeat("b", 40)}
	lock := &git.FileDiff{Path: "package-lock.json", Change: git.Modified, Excluded: true, Added: 500}

	change := analyzeCommit(c, []*git.FileDiff{lock})
	if len(change.Files) != 1 {
		t.Fatalf("files = %+v", change.Files)
	}
	if change.Files[0].Analysis != nil {
		t.Errorf("excluded file got analysis notes: %v", change.Files[0].Analysis)
	}
}

func TestImpactScore(t *testing.T) {
	docs := AnalyzedChange{
		Files:   []FileChange{{Path: "README.md"}},
		Metrics: Metrics{FilesChanged: 1, Insertions: 5},
	}
	source := AnalyzedChange{
		Files:   []FileChange{{Path: "server.go"}, {Path: "client.go"}},
		Metrics: Metrics{FilesChanged: 2, Insertions: 120, Deletions: 30},
	}
	manifest := AnalyzedChange{
		Files:   []FileChange{{Path: "go.mod"}},
		Metrics: Metrics{FilesChanged: 1, Insertions: 2},
	}

	gotDocs := impactScore(docs)
	gotSource := impactScore(source)
	gotManifest := impactScore(manifest)

	if math.Abs(gotDocs-0.25) > 1e-9 {
		t.Errorf("docs impact = %v, want 0.25", gotDocs)
	}
	if math.Abs(gotSource-2.7) > 1e-9 {
		t.Errorf("source impact = %v, want 2.7", gotSource)
	}
	if !(gotSource > gotManifest && gotManifest > gotDocs) {
		t.Errorf("impact order source %v > manifest %v > docs %v violated", gotSource, gotManifest, gotDocs)
	}
}

func TestTotalMetrics(t *testing.T) {
	changes := []AnalyzedChange{
		{Metrics: Metrics{FilesChanged: 2, Insertions: 10, Deletions: 3}},
		{Metrics: Metrics{FilesChanged: 1, Insertions: 5, Deletions: 1}},
	}
	total := TotalMetrics(changes)
	if total.FilesChanged != 3 || total.Insertions != 15 || total.Deletions != 4 {
		t.Errorf("total = %+v", total)
	}
	if total.Total() != 19 {
		t.Errorf("total lines = %d, want 19", total.Total())
	}
}

func sampleChanges() []AnalyzedChange {
	low := AnalyzedChange{
		Commit: git.Commit{
			Hash:    strings.Repeat("a", 40),
			Author:  "Ada",
			When:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Subject: "Fix typo",
			Body:    "Fix typo",
		},
		Files:   []FileChange{{Path: "README.md", Change: git.Modified}},
		Metrics: Metrics{FilesChanged: 1, Insertions: 1, Deletions: 1},
		Impact:  0.25,
	}
	high := AnalyzedChange{
		Commit: git.Commit{
			Hash:    strings.Repeat("b", 40),
			Author:  "Grace",
			When:    time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Subject: "Add parser",
			Body:    "Add parser\n\nRecursive descent.",
		},
		Files: []FileChange{
			{Path: "parser.go", Change: git.Added, Analysis: []string{"go: adds function Parse"}},
			{Path: "parser_test.go", Change: git.Added, Analysis: []string{"go: tests added"}},
		},
		Metrics: Metrics{FilesChanged: 2, Insertions: 150, Deletions: 0},
		Impact:  2.7,
	}
	return []AnalyzedChange{low, high}
}

func TestFragments(t *testing.T) {
	frags := Fragments(sampleChanges(), "v1.0.0", "v1.1.0", prompt.DetailStandard, "A parser library.")
	if len(frags) != 4 {
		t.Fatalf("got %d fragments, want 4", len(frags))
	}

	header := frags[0]
	if header.Priority != 1500 || header.Kind != prompt.KindProjectMetadata {
		t.Errorf("header fragment = kind %v priority %d", header.Kind, header.Priority)
	}
	for _, want := range []string{
		"Changes from v1.0.0 to v1.1.0",
		"Total commits: 2",
		"Files changed: 3",
		"Total lines changed: 152",
		"Insertions: 151",
		"Deletions: 1",
	} {
		if !strings.Contains(header.Content, want) {
			t.Errorf("header missing %q:\n%s", want, header.Content)
		}
	}

	low, high := frags[1], frags[2]
	if low.Priority != 525 {
		t.Errorf("low impact priority = %d, want 525", low.Priority)
	}
	if high.Priority != 770 {
		t.Errorf("high impact priority = %d, want 770", high.Priority)
	}
	if !strings.Contains(high.Content, "Commit: "+strings.Repeat("b", 40)) {
		t.Errorf("high block missing hash:\n%s", high.Content)
	}
	if !strings.Contains(high.Content, "Impact score: 2.70") {
		t.Errorf("high block missing impact score:\n%s", high.Content)
	}
	if !strings.Contains(high.Content, "File changes summary:\n  - parser.go (added)") {
		t.Errorf("standard detail missing file summary:\n%s", high.Content)
	}
	if strings.Contains(high.Content, "    * ") {
		t.Errorf("standard detail should not include analysis bullets:\n%s", high.Content)
	}

	readme := frags[3]
	if readme.Priority != 50 || !strings.HasPrefix(readme.Content, "Project README:\n") {
		t.Errorf("readme fragment = priority %d content %q", readme.Priority, readme.Content)
	}
}

func TestFragmentsDetailLevels(t *testing.T) {
	changes := sampleChanges()

	minimal := Fragments(changes, "v1", "v2", prompt.DetailMinimal, "")
	if strings.Contains(minimal[2].Content, "File changes") {
		t.Errorf("minimal detail should omit file lists:\n%s", minimal[2].Content)
	}

	detailed := Fragments(changes, "v1", "v2", prompt.DetailDetailed, "")
	if !strings.Contains(detailed[2].Content, "Detailed file changes:") {
		t.Errorf("detailed block missing file section:\n%s", detailed[2].Content)
	}
	if !strings.Contains(detailed[2].Content, "    * go: adds function Parse") {
		t.Errorf("detailed block missing analysis bullets:\n%s", detailed[2].Content)
	}
}

func TestFragmentsImpactCap(t *testing.T) {
	changes := sampleChanges()
	changes[0].Impact = 12.5

	frags := Fragments(changes, "v1", "", prompt.DetailMinimal, "")
	if frags[1].Priority != 900 {
		t.Errorf("priority = %d, want impact boost capped at 900", frags[1].Priority)
	}
	if !strings.Contains(frags[0].Content, "to HEAD") {
		t.Errorf("empty to should default to HEAD:\n%s", frags[0].Content)
	}
}

package git

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	mustGit(t, dir, "init", "-q")
	mustGit(t, dir, "config", "user.email", "dev@example.com")
	mustGit(t, dir, "config", "user.name", "Dev")
	mustGit(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if _, err := run(dir, args...); err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	dir := initRepo(t)
	sub := filepath.Join(dir, "internal", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := Discover(sub)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// Resolve symlinks; macOS tempdirs live under /private.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("Discover = %q, want %q", got, want)
	}
}

func TestDiscoverOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := Discover(t.TempDir())
	if !errors.Is(err, ErrNotRepo) {
		t.Errorf("err = %v, want ErrNotRepo", err)
	}
}

func TestInspectStagedFile(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	mustGit(t, dir, "add", "main.go")

	snap, err := Inspect(dir, InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(snap.Staged) != 1 {
		t.Fatalf("staged = %d files, want 1", len(snap.Staged))
	}
	f := snap.Staged[0]
	if f.Path != "main.go" || f.Change != Added {
		t.Errorf("staged file = %q %v", f.Path, f.Change)
	}
	if f.Added != 3 {
		t.Errorf("added lines = %d, want 3", f.Added)
	}
	if !strings.Contains(f.Patch(), "+package main") {
		t.Errorf("patch missing content:\n%s", f.Patch())
	}
	if snap.Metadata.Language != "Go" {
		t.Errorf("metadata language = %q", snap.Metadata.Language)
	}
}

func TestInspectEmptyStage(t *testing.T) {
	dir := initRepo(t)
	snap, err := Inspect(dir, InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(snap.Staged) != 0 {
		t.Errorf("staged = %d, want 0", len(snap.Staged))
	}
}

func TestInspectExcludedFile(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "package-lock.json", "{\"lockfileVersion\": 3}\n")
	mustGit(t, dir, "add", "package-lock.json")

	snap, err := Inspect(dir, InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(snap.Staged) != 1 {
		t.Fatalf("staged = %d, want 1", len(snap.Staged))
	}
	f := snap.Staged[0]
	if !f.Excluded {
		t.Error("lockfile not marked excluded")
	}
	if f.Patch() != ExcludedPlaceholder {
		t.Errorf("Patch() = %q, want placeholder", f.Patch())
	}
}

func TestInspectBinaryFile(t *testing.T) {
	dir := initRepo(t)
	bin := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02, 0xFF}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), bin, 0o644); err != nil {
		t.Fatal(err)
	}
	mustGit(t, dir, "add", "logo.png")

	snap, err := Inspect(dir, InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(snap.Staged) != 1 {
		t.Fatalf("staged = %d, want 1", len(snap.Staged))
	}
	if !snap.Staged[0].Binary {
		t.Error("png not marked binary")
	}
	if snap.Staged[0].Patch() != BinaryPlaceholder {
		t.Errorf("Patch() = %q, want placeholder", snap.Staged[0].Patch())
	}
}

func TestCommitAndHistory(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	mustGit(t, dir, "add", "a.txt")
	hash, err := Commit(dir, "Add a.txt")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if hash == "" {
		t.Fatal("empty hash from Commit")
	}

	writeFile(t, dir, "b.txt", "two\n")
	mustGit(t, dir, "add", "b.txt")
	if _, err := Commit(dir, "Add b.txt"); err != nil {
		t.Fatalf("second Commit: %v", err)
	}

	commits, err := RecentCommits(dir, 10)
	if err != nil {
		t.Fatalf("RecentCommits: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("history = %d commits, want 2", len(commits))
	}
	if commits[0].Subject != "Add b.txt" {
		t.Errorf("newest first violated: %q", commits[0].Subject)
	}
}

func TestCommitEmptyMessage(t *testing.T) {
	dir := initRepo(t)
	if _, err := Commit(dir, "   "); err == nil {
		t.Fatal("expected error for blank message")
	}
}

func TestCommitsBetween(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	mustGit(t, dir, "add", "a.txt")
	first, err := Commit(dir, "first")
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "a.txt", "one\ntwo\n")
	mustGit(t, dir, "add", "a.txt")
	if _, err := Commit(dir, "second"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "a.txt", "one\ntwo\nthree\n")
	mustGit(t, dir, "add", "a.txt")
	if _, err := Commit(dir, "third"); err != nil {
		t.Fatal(err)
	}

	commits, err := CommitsBetween(dir, first, "")
	if err != nil {
		t.Fatalf("CommitsBetween: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("range = %d commits, want 2", len(commits))
	}
	if commits[0].Subject != "second" || commits[1].Subject != "third" {
		t.Errorf("oldest-first violated: %q, %q", commits[0].Subject, commits[1].Subject)
	}
}

func TestCommitsBetweenBadRef(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	mustGit(t, dir, "add", "a.txt")
	if _, err := Commit(dir, "first"); err != nil {
		t.Fatal(err)
	}

	_, err := CommitsBetween(dir, "no-such-tag", "")
	if !errors.Is(err, ErrBadRange) {
		t.Errorf("err = %v, want ErrBadRange", err)
	}
}

func TestCommitPatch(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.go", "package a\n")
	mustGit(t, dir, "add", "a.go")
	hash, err := Commit(dir, "add package a")
	if err != nil {
		t.Fatal(err)
	}

	files, err := CommitPatch(dir, hash, 3)
	if err != nil {
		t.Fatalf("CommitPatch: %v", err)
	}
	if len(files) != 1 || files[0].Path != "a.go" || files[0].Change != Added {
		t.Errorf("files = %+v", files)
	}
}

func TestUnstagedPaths(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	mustGit(t, dir, "add", "a.txt")
	if _, err := Commit(dir, "first"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "a.txt", "changed\n")

	paths, err := UnstagedPaths(dir)
	if err != nil {
		t.Fatalf("UnstagedPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "a.txt" {
		t.Errorf("paths = %v", paths)
	}
}

func TestReadme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# Project\n\nDoes things.\n")
	if got := Readme(dir); !strings.Contains(got, "# Project") {
		t.Errorf("Readme = %q", got)
	}
	if got := Readme(t.TempDir()); got != "" {
		t.Errorf("Readme on empty dir = %q", got)
	}
}

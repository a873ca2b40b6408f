package git

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ChangeType classifies what happened to a file.
type ChangeType int

const (
	Modified ChangeType = iota
	Added
	Deleted
	Renamed
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "modified"
	}
}

// Placeholders substituted for diff content that should not reach a
// prompt.
const (
	ExcludedPlaceholder = "[Content excluded]"
	BinaryPlaceholder   = "[Binary file changed]"
)

// Paths that add noise rather than signal: VCS internals, vendored and
// generated trees, lockfiles, editor droppings.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)\.(git|svn|hg)(/|$)`),
	regexp.MustCompile(`(^|/)\.DS_Store$`),
	regexp.MustCompile(`(^|/)node_modules(/|$)`),
	regexp.MustCompile(`(^|/)(target|build|dist)(/|$)`),
	regexp.MustCompile(`(^|/)\.(vscode|idea|vs)(/|$)`),
	regexp.MustCompile(`(^|/)package-lock\.json$`),
	regexp.MustCompile(`\.lock$`),
	regexp.MustCompile(`\.(log|tmp|temp|swp)$`),
	regexp.MustCompile(`\.min\.js$`),
}

// Excluded reports whether a path's content is withheld from prompts.
func Excluded(path string) bool {
	for _, re := range excludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// FileDiff is one file's parsed change.
type FileDiff struct {
	Path      string
	OldPath   string // set for renames
	Change    ChangeType
	Binary    bool
	Excluded  bool
	Fragments []*gitdiff.TextFragment
	Added     int
	Deleted   int
	Notes     []string // analyzer output, filled by Inspect
}

// Label returns the display name, showing both sides of a rename.
func (f *FileDiff) Label() string {
	if f.Change == Renamed && f.OldPath != "" {
		return fmt.Sprintf("%s -> %s", f.OldPath, f.Path)
	}
	return f.Path
}

// Patch reconstructs the unified diff body for this file. Excluded and
// binary files yield their placeholder instead of content.
func (f *FileDiff) Patch() string {
	if f.Excluded {
		return ExcludedPlaceholder
	}
	if f.Binary {
		return BinaryPlaceholder
	}

	var b strings.Builder
	for _, frag := range f.Fragments {
		b.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			frag.OldPosition, frag.OldLines,
			frag.NewPosition, frag.NewLines))
		if frag.Comment != "" {
			b.WriteString(" " + frag.Comment)
		}
		b.WriteString("\n")

		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpContext:
				b.WriteString(" " + line.Line)
			case gitdiff.OpDelete:
				b.WriteString("-" + line.Line)
			case gitdiff.OpAdd:
				b.WriteString("+" + line.Line)
			}
			if !strings.HasSuffix(line.Line, "\n") {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// parseDiff turns raw `git diff` output into FileDiffs.
func parseDiff(raw string) ([]*FileDiff, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	var files []*FileDiff
	for _, f := range parsed {
		fd := &FileDiff{
			Binary:    f.IsBinary,
			Fragments: f.TextFragments,
		}
		switch {
		case f.IsNew:
			fd.Change = Added
			fd.Path = f.NewName
		case f.IsDelete:
			fd.Change = Deleted
			fd.Path = f.OldName
		case f.IsRename:
			fd.Change = Renamed
			fd.Path = f.NewName
			fd.OldPath = f.OldName
		default:
			fd.Change = Modified
			fd.Path = f.NewName
			if fd.Path == "" {
				fd.Path = f.OldName
			}
		}
		fd.Excluded = Excluded(fd.Path)

		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					fd.Added++
				case gitdiff.OpDelete:
					fd.Deleted++
				}
			}
		}
		files = append(files, fd)
	}
	return files, nil
}

// StagedDiff parses the staged changes with the given context width.
func StagedDiff(root string, contextLines int) ([]*FileDiff, error) {
	raw, err := run(root, "diff", "--cached", fmt.Sprintf("-U%d", contextLines))
	if err != nil {
		return nil, err
	}
	return parseDiff(raw)
}

// CommitPatch parses the changes introduced by a single commit.
func CommitPatch(root, hash string, contextLines int) ([]*FileDiff, error) {
	raw, err := run(root, "show", fmt.Sprintf("-U%d", contextLines), "--format=", hash)
	if err != nil {
		return nil, err
	}
	return parseDiff(raw)
}

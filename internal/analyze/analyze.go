// Package analyze inspects changed files and distills what a reader (or
// a model) should know about them: per-file notes like "new exported
// API" or "dependencies updated", plus coarse project metadata derived
// from the paths involved.
package analyze

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Change describes one changed file handed to an analyzer.
type Change struct {
	Path string
	Kind string // added, modified, deleted, renamed
	Diff string // unified diff body for this file, may be empty
}

// Analyzer produces human-readable notes about a single file change.
type Analyzer interface {
	// FileType names what the analyzer understands, e.g. "Go source file".
	FileType() string
	// Analyze returns notes about the change, possibly none.
	Analyze(c Change) []string
}

// Metadata aggregates what the analyzers learn about the project.
type Metadata struct {
	Language     string
	BuildSystem  string
	Frameworks   []string
	Dependencies []string
}

// Merge fills empty fields of m from other and unions the lists.
func (m *Metadata) Merge(other Metadata) {
	if m.Language == "" {
		m.Language = other.Language
	}
	if m.BuildSystem == "" {
		m.BuildSystem = other.BuildSystem
	}
	m.Frameworks = appendUnique(m.Frameworks, other.Frameworks...)
	m.Dependencies = appendUnique(m.Dependencies, other.Dependencies...)
}

// Summary renders the metadata as a single prompt-friendly line.
func (m Metadata) Summary() string {
	var parts []string
	if m.Language != "" {
		parts = append(parts, "Language: "+m.Language)
	}
	if m.BuildSystem != "" {
		parts = append(parts, "Build system: "+m.BuildSystem)
	}
	if len(m.Frameworks) > 0 {
		parts = append(parts, "Frameworks: "+strings.Join(m.Frameworks, ", "))
	}
	if len(m.Dependencies) > 0 {
		parts = append(parts, "Dependencies touched: "+strings.Join(m.Dependencies, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ")
}

// Manifest files that identify a build system regardless of extension.
var manifestTypes = map[string]Analyzer{
	"go.mod":           goModAnalyzer{},
	"go.sum":           goModAnalyzer{},
	"Cargo.toml":       tomlAnalyzer{},
	"Cargo.lock":       tomlAnalyzer{},
	"pyproject.toml":   tomlAnalyzer{},
	"package.json":     packageJSONAnalyzer{},
	"requirements.txt": requirementsAnalyzer{},
}

// For picks the analyzer for a path, falling back to a generic one.
func For(p string) Analyzer {
	if a, ok := manifestTypes[path.Base(p)]; ok {
		return a
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".go":
		return goAnalyzer{}
	case ".rs":
		return rustAnalyzer{}
	case ".js", ".jsx", ".ts", ".tsx":
		return jsAnalyzer{}
	case ".py":
		return pythonAnalyzer{}
	case ".toml":
		return tomlAnalyzer{}
	case ".yml", ".yaml":
		return yamlAnalyzer{}
	case ".md", ".markdown", ".rst":
		return docAnalyzer{}
	default:
		return genericAnalyzer{}
	}
}

// MetadataForPaths derives project metadata from the set of changed
// paths alone. Path-based detection keeps snapshots deterministic; the
// diff-level analyzers add the finer notes.
func MetadataForPaths(paths []string) Metadata {
	var meta Metadata
	counts := map[string]int{}
	for _, p := range paths {
		switch path.Base(p) {
		case "go.mod":
			meta.Merge(Metadata{Language: "Go", BuildSystem: "Go modules"})
		case "Cargo.toml":
			meta.Merge(Metadata{Language: "Rust", BuildSystem: "Cargo"})
		case "package.json":
			meta.Merge(Metadata{Language: "JavaScript/TypeScript", BuildSystem: "npm"})
		case "pyproject.toml", "requirements.txt":
			meta.Merge(Metadata{Language: "Python"})
		case "Makefile":
			meta.Merge(Metadata{BuildSystem: "make"})
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".go":
			counts["Go"]++
		case ".rs":
			counts["Rust"]++
		case ".py":
			counts["Python"]++
		case ".js", ".jsx":
			counts["JavaScript"]++
		case ".ts", ".tsx":
			counts["TypeScript"]++
		}
		if strings.HasPrefix(p, ".github/workflows/") {
			meta.Frameworks = appendUnique(meta.Frameworks, "GitHub Actions")
		}
	}
	if meta.Language == "" && len(counts) > 0 {
		langs := make([]string, 0, len(counts))
		for l := range counts {
			langs = append(langs, l)
		}
		sort.Slice(langs, func(i, j int) bool {
			if counts[langs[i]] != counts[langs[j]] {
				return counts[langs[i]] > counts[langs[j]]
			}
			return langs[i] < langs[j]
		})
		meta.Language = langs[0]
	}
	return meta
}

// Notes runs the matching analyzer over a change and prefixes each note
// with the file type for prompt context.
func Notes(c Change) []string {
	a := For(c.Path)
	raw := a.Analyze(c)
	notes := make([]string, 0, len(raw))
	for _, n := range raw {
		notes = append(notes, fmt.Sprintf("%s: %s", a.FileType(), n))
	}
	return notes
}

// addedLines extracts the added side of a unified diff body.
func addedLines(diff string) []string {
	var out []string
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			out = append(out, strings.TrimPrefix(line, "+"))
		}
	}
	return out
}

// removedLines extracts the deleted side of a unified diff body.
func removedLines(diff string) []string {
	var out []string
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			out = append(out, strings.TrimPrefix(line, "-"))
		}
	}
	return out
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, have := range dst {
			if have == it {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, it)
		}
	}
	return dst
}

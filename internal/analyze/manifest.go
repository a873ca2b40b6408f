package analyze

import (
	"regexp"
	"strings"
)

var (
	gomodRequireRe = regexp.MustCompile(`^\s*([\w./-]+)\s+v[\w.+-]+`)
	tomlSectionRe  = regexp.MustCompile(`^\s*\[(.+)\]`)
	tomlDepRe      = regexp.MustCompile(`^\s*([\w-]+)\s*=`)
	jsonDepRe      = regexp.MustCompile(`^\s*"([@\w/.-]+)"\s*:\s*"[^"]+"\s*,?\s*$`)
	requirementRe  = regexp.MustCompile(`^\s*([A-Za-z0-9_.-]+)\s*([=<>!~]|$)`)
)

type goModAnalyzer struct{}

func (goModAnalyzer) FileType() string { return "Go module file" }

func (goModAnalyzer) Analyze(c Change) []string {
	var added []string
	for _, line := range addedLines(c.Diff) {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "module ") || strings.HasPrefix(t, "go ") {
			continue
		}
		if m := gomodRequireRe.FindStringSubmatch(t); m != nil {
			added = appendUnique(added, m[1])
		}
	}
	if len(added) > 0 {
		return []string{"dependencies updated: " + joinCapped(added, 5)}
	}
	if c.Diff != "" {
		return []string{"module definition changed"}
	}
	return nil
}

type tomlAnalyzer struct{}

func (tomlAnalyzer) FileType() string { return "TOML configuration file" }

// Analyze reports dependency edits when the touched sections look like
// dependency tables, otherwise a generic configuration note.
func (tomlAnalyzer) Analyze(c Change) []string {
	inDeps := false
	var deps []string
	for _, line := range strings.Split(c.Diff, "\n") {
		body := strings.TrimPrefix(strings.TrimPrefix(line, "+"), " ")
		if m := tomlSectionRe.FindStringSubmatch(body); m != nil {
			inDeps = strings.Contains(strings.ToLower(m[1]), "dependencies")
			continue
		}
		if !inDeps || !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		if m := tomlDepRe.FindStringSubmatch(strings.TrimPrefix(line, "+")); m != nil {
			deps = appendUnique(deps, m[1])
		}
	}
	if len(deps) > 0 {
		return []string{"dependencies updated: " + joinCapped(deps, 5)}
	}
	if c.Diff != "" {
		return []string{"configuration changed"}
	}
	return nil
}

type packageJSONAnalyzer struct{}

func (packageJSONAnalyzer) FileType() string { return "npm package manifest" }

func (packageJSONAnalyzer) Analyze(c Change) []string {
	var deps []string
	for _, line := range addedLines(c.Diff) {
		if m := jsonDepRe.FindStringSubmatch(line); m != nil {
			switch m[1] {
			case "name", "version", "description", "main", "license", "author", "type":
				continue
			}
			deps = appendUnique(deps, m[1])
		}
	}
	if len(deps) > 0 {
		return []string{"dependencies updated: " + joinCapped(deps, 5)}
	}
	if c.Diff != "" {
		return []string{"package manifest changed"}
	}
	return nil
}

type requirementsAnalyzer struct{}

func (requirementsAnalyzer) FileType() string { return "Python requirements file" }

func (requirementsAnalyzer) Analyze(c Change) []string {
	var deps []string
	for _, line := range addedLines(c.Diff) {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		if m := requirementRe.FindStringSubmatch(t); m != nil {
			deps = appendUnique(deps, m[1])
		}
	}
	if len(deps) > 0 {
		return []string{"dependencies updated: " + joinCapped(deps, 5)}
	}
	return nil
}

type yamlAnalyzer struct{}

func (yamlAnalyzer) FileType() string { return "YAML configuration file" }

func (yamlAnalyzer) Analyze(c Change) []string {
	if strings.Contains(c.Path, ".github/workflows/") {
		return []string{describeChange(c.Kind, "CI workflow")}
	}
	if c.Diff != "" {
		return []string{"configuration changed"}
	}
	return nil
}

type docAnalyzer struct{}

func (docAnalyzer) FileType() string { return "Documentation file" }

func (docAnalyzer) Analyze(c Change) []string {
	var sections []string
	for _, line := range addedLines(c.Diff) {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "#") {
			sections = appendUnique(sections, strings.TrimSpace(strings.TrimLeft(t, "#")))
		}
	}
	if len(sections) > 0 {
		return []string{"sections touched: " + joinCapped(sections, 3)}
	}
	return []string{describeChange(c.Kind, "documentation")}
}

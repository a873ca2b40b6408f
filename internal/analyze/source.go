package analyze

import (
	"fmt"
	"regexp"
	"strings"
)

// Source-level patterns scanned against added diff lines.
var (
	goFuncRe     = regexp.MustCompile(`^\s*func\s+(\([^)]+\)\s+)?([A-Za-z_][A-Za-z0-9_]*)`)
	goTypeRe     = regexp.MustCompile(`^\s*type\s+([A-Za-z_][A-Za-z0-9_]*)\s+(struct|interface)`)
	rustFnRe     = regexp.MustCompile(`^\s*(pub\s+)?(async\s+)?fn\s+([a-z_][a-z0-9_]*)`)
	rustStructRe = regexp.MustCompile(`^\s*(pub\s+)?(struct|enum|trait)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	jsFuncRe     = regexp.MustCompile(`^\s*(export\s+)?(async\s+)?function\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsClassRe    = regexp.MustCompile(`^\s*(export\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	pyDefRe      = regexp.MustCompile(`^\s*(async\s+)?def\s+([a-z_][a-z0-9_]*)`)
	pyClassRe    = regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

type goAnalyzer struct{}

func (goAnalyzer) FileType() string { return "Go source file" }

func (goAnalyzer) Analyze(c Change) []string {
	var notes []string
	if strings.HasSuffix(c.Path, "_test.go") {
		notes = append(notes, describeChange(c.Kind, "tests"))
		return notes
	}
	var funcs, exported, types []string
	for _, line := range addedLines(c.Diff) {
		if m := goFuncRe.FindStringSubmatch(line); m != nil {
			funcs = append(funcs, m[2])
			if m[2] != "" && m[2][0] >= 'A' && m[2][0] <= 'Z' {
				exported = append(exported, m[2])
			}
		}
		if m := goTypeRe.FindStringSubmatch(line); m != nil {
			types = append(types, m[1])
		}
	}
	if len(exported) > 0 {
		notes = append(notes, "new exported declarations: "+joinCapped(exported, 5))
	} else if len(funcs) > 0 {
		notes = append(notes, "functions added or modified: "+joinCapped(funcs, 5))
	}
	if len(types) > 0 {
		notes = append(notes, "types defined: "+joinCapped(types, 5))
	}
	return notes
}

type rustAnalyzer struct{}

func (rustAnalyzer) FileType() string { return "Rust source file" }

func (rustAnalyzer) Analyze(c Change) []string {
	var notes []string
	var fns, items []string
	for _, line := range addedLines(c.Diff) {
		if m := rustFnRe.FindStringSubmatch(line); m != nil {
			fns = append(fns, m[3])
		}
		if m := rustStructRe.FindStringSubmatch(line); m != nil {
			items = append(items, m[3])
		}
	}
	if len(fns) > 0 {
		notes = append(notes, "functions added or modified: "+joinCapped(fns, 5))
	}
	if len(items) > 0 {
		notes = append(notes, "items defined: "+joinCapped(items, 5))
	}
	return notes
}

type jsAnalyzer struct{}

func (jsAnalyzer) FileType() string { return "JavaScript/TypeScript file" }

func (jsAnalyzer) Analyze(c Change) []string {
	var notes []string
	var fns, classes []string
	for _, line := range addedLines(c.Diff) {
		if m := jsFuncRe.FindStringSubmatch(line); m != nil {
			fns = append(fns, m[3])
		}
		if m := jsClassRe.FindStringSubmatch(line); m != nil {
			classes = append(classes, m[2])
		}
	}
	if len(fns) > 0 {
		notes = append(notes, "functions added or modified: "+joinCapped(fns, 5))
	}
	if len(classes) > 0 {
		notes = append(notes, "classes defined: "+joinCapped(classes, 5))
	}
	return notes
}

type pythonAnalyzer struct{}

func (pythonAnalyzer) FileType() string { return "Python source file" }

func (pythonAnalyzer) Analyze(c Change) []string {
	var notes []string
	var defs, classes []string
	for _, line := range addedLines(c.Diff) {
		if m := pyDefRe.FindStringSubmatch(line); m != nil {
			defs = append(defs, m[2])
		}
		if m := pyClassRe.FindStringSubmatch(line); m != nil {
			classes = append(classes, m[1])
		}
	}
	if len(defs) > 0 {
		notes = append(notes, "functions added or modified: "+joinCapped(defs, 5))
	}
	if len(classes) > 0 {
		notes = append(notes, "classes defined: "+joinCapped(classes, 5))
	}
	return notes
}

type genericAnalyzer struct{}

func (genericAnalyzer) FileType() string { return "File" }

func (genericAnalyzer) Analyze(c Change) []string {
	if c.Kind == "" || c.Kind == "modified" {
		return nil
	}
	return []string{c.Kind}
}

func describeChange(kind, what string) string {
	switch kind {
	case "added":
		return what + " added"
	case "deleted":
		return what + " removed"
	default:
		return what + " modified"
	}
}

func joinCapped(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:max], ", "), len(items)-max)
}

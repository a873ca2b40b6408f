// Package presets provides named instruction bundles that shape the
// generated messages. Built-ins cover the common styles; users add or
// shadow presets with a YAML file next to the config.
package presets

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preset is a named set of style instructions.
type Preset struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Instructions string `yaml:"instructions"`
}

// BuiltIn returns the presets that ship with scribe.
func BuiltIn() []Preset {
	return []Preset{
		{
			Name:        "default",
			Description: "Balanced commit messages with a short body when it helps",
		},
		{
			Name:        "conventional",
			Description: "Conventional Commits format",
			Instructions: "Follow the Conventional Commits specification: a type " +
				"(feat, fix, docs, style, refactor, perf, test, build, ci, chore), " +
				"an optional scope in parentheses, then a colon and a concise " +
				"description in the imperative mood. Add a body only when the " +
				"change needs explanation, and a BREAKING CHANGE footer when " +
				"compatibility breaks.",
		},
		{
			Name:        "detailed",
			Description: "Thorough messages explaining motivation and impact",
			Instructions: "Write a complete commit message: an imperative subject " +
				"under 72 characters, a blank line, then body paragraphs covering " +
				"what changed, why it was needed, and any follow-up work or risks " +
				"a reviewer should know about.",
		},
		{
			Name:        "concise",
			Description: "Subject line only, no body",
			Instructions: "Produce only a single subject line in the imperative " +
				"mood, at most 50 characters, with no body and no trailing period.",
		},
	}
}

// DefaultPath returns the user preset file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "scribe", "presets.yaml"), nil
}

// Load reads user presets from a YAML file. A missing file is not an
// error; it just contributes nothing.
func Load(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading presets %s: %w", path, err)
	}
	var out []Preset
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing presets %s: %w", path, err)
	}
	return out, nil
}

// All merges built-ins with the user file at path; user entries shadow
// built-ins with the same name. Built-in order is preserved, new user
// presets follow.
func All(path string) ([]Preset, error) {
	user, err := Load(path)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Preset, len(user))
	for _, p := range user {
		byName[p.Name] = p
	}

	out := BuiltIn()
	seen := make(map[string]bool, len(out))
	for i, p := range out {
		seen[p.Name] = true
		if u, ok := byName[p.Name]; ok {
			out[i] = u
		}
	}
	for _, p := range user {
		if !seen[p.Name] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Find looks up a preset by name across built-ins and the user file.
func Find(name, path string) (Preset, bool) {
	all, err := All(path)
	if err != nil {
		all = BuiltIn()
	}
	for _, p := range all {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

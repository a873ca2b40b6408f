package cli

import (
	"fmt"
	"strings"

	"github.com/scribe-ai/scribe/internal/config"
	"github.com/scribe-ai/scribe/internal/presets"
	"github.com/scribe-ai/scribe/internal/provider"
)

// resolveBackend builds the retry-wrapped provider named by the flag or
// the config default. It also returns the effective model name for the
// tokenizer and the context-window limit for budgeting.
func resolveBackend(cfg *config.Config, providerFlag, modelFlag string) (provider.Provider, string, int, error) {
	name, settings, limit := cfg.Resolve(providerFlag)
	if modelFlag != "" {
		settings.Model = modelFlag
	}

	model := settings.Model
	if model == "" {
		if d, ok := provider.DefaultsFor(name); ok {
			model = d.Model
		}
	}

	p, err := provider.New(name, settings)
	if err != nil {
		return nil, "", 0, err
	}
	return provider.WithRetry(p, cfg.MaxAttempts), model, limit, nil
}

// mergeInstructions combines the preset, the configured standing
// instructions, and the per-run flag, in that order.
func mergeInstructions(cfg *config.Config, presetFlag, instructionsFlag string) (string, error) {
	var parts []string

	name := presetFlag
	if name == "" {
		name = cfg.Preset
	}
	if name != "" && name != "default" {
		path, _ := presets.DefaultPath()
		p, ok := presets.Find(name, path)
		if !ok {
			return "", fmt.Errorf("unknown preset %q (see `scribe presets`)", name)
		}
		if p.Instructions != "" {
			parts = append(parts, p.Instructions)
		}
	}

	if s := strings.TrimSpace(cfg.Instructions); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(instructionsFlag); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

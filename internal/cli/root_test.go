package cli

import (
	"strings"
	"testing"

	"github.com/scribe-ai/scribe/internal/config"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, want := range []string{"gen", "changelog", "release-notes", "config", "presets", "serve", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}
}

func TestResolveBackendMock(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultProvider = "mock"

	backend, model, limit, err := resolveBackend(cfg, "", "")
	if err != nil {
		t.Fatalf("resolveBackend: %v", err)
	}
	if backend.Name() != "mock" {
		t.Errorf("backend name = %q", backend.Name())
	}
	if model != "mock" {
		t.Errorf("model = %q", model)
	}
	if limit != 1<<20 {
		t.Errorf("limit = %d", limit)
	}
}

func TestResolveBackendUnknown(t *testing.T) {
	cfg := config.Default()
	if _, _, _, err := resolveBackend(cfg, "no-such-provider", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestMergeInstructions(t *testing.T) {
	cfg := config.Default()
	cfg.Instructions = "standing guidance"

	got, err := mergeInstructions(cfg, "", "per-run guidance")
	if err != nil {
		t.Fatalf("mergeInstructions: %v", err)
	}
	if !strings.Contains(got, "standing guidance") || !strings.Contains(got, "per-run guidance") {
		t.Errorf("merged = %q", got)
	}
	if strings.Index(got, "standing guidance") > strings.Index(got, "per-run guidance") {
		t.Error("config instructions should precede per-run instructions")
	}
}

func TestMergeInstructionsConventionalPreset(t *testing.T) {
	cfg := config.Default()
	got, err := mergeInstructions(cfg, "conventional", "")
	if err != nil {
		t.Fatalf("mergeInstructions: %v", err)
	}
	if !strings.Contains(got, "Conventional Commits") {
		t.Errorf("merged = %q", got)
	}
}

func TestMergeInstructionsUnknownPreset(t *testing.T) {
	cfg := config.Default()
	if _, err := mergeInstructions(cfg, "no-such-preset", ""); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

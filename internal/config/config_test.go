package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SCRIBE_PROVIDER", "SCRIBE_MODEL", "SCRIBE_API_KEY",
		"SCRIBE_GITMOJI", "SCRIBE_INSTRUCTIONS",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.DefaultProvider != "openai" {
		t.Errorf("DefaultProvider = %q", cfg.DefaultProvider)
	}
	if !cfg.Gitmoji {
		t.Error("gitmoji should default on")
	}
	if cfg.ContextLines != 3 || cfg.CommitHistory != 5 {
		t.Errorf("context defaults = %d/%d", cfg.ContextLines, cfg.CommitHistory)
	}
	if cfg.ReservedTokens != 1024 {
		t.Errorf("ReservedTokens = %d", cfg.ReservedTokens)
	}
	if cfg.MaxAttempts != 3 || cfg.TimeoutSeconds != 60 {
		t.Errorf("retry defaults = %d attempts, %ds timeout", cfg.MaxAttempts, cfg.TimeoutSeconds)
	}
}

func TestLoadFromMergesPartialFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_provider = "anthropic"
reserved_tokens = 2048

[providers.anthropic]
api_key = "sk-ant-test"
model = "claude-3-5-sonnet-20241022"

[providers.openai]
token_limit = 16000
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("DefaultProvider = %q", cfg.DefaultProvider)
	}
	if cfg.ReservedTokens != 2048 {
		t.Errorf("ReservedTokens = %d", cfg.ReservedTokens)
	}
	// Untouched keys keep their defaults.
	if cfg.ContextLines != 3 {
		t.Errorf("ContextLines = %d, want default 3", cfg.ContextLines)
	}
	if !cfg.Gitmoji {
		t.Error("gitmoji default lost in merge")
	}
	if cfg.Providers["anthropic"].APIKey != "sk-ant-test" {
		t.Errorf("anthropic key = %q", cfg.Providers["anthropic"].APIKey)
	}
	if cfg.Providers["openai"].TokenLimit != 16000 {
		t.Errorf("openai token_limit = %d", cfg.Providers["openai"].TokenLimit)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadFromBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("default_provider = [unterminated"), 0o600)
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCRIBE_PROVIDER", "ollama")
	t.Setenv("SCRIBE_MODEL", "qwen2.5-coder")
	t.Setenv("SCRIBE_GITMOJI", "false")

	cfg := Default()
	cfg.applyEnv()
	if cfg.DefaultProvider != "ollama" {
		t.Errorf("DefaultProvider = %q", cfg.DefaultProvider)
	}
	if cfg.Providers["ollama"].Model != "qwen2.5-coder" {
		t.Errorf("model = %q", cfg.Providers["ollama"].Model)
	}
	if cfg.Gitmoji {
		t.Error("SCRIBE_GITMOJI=false ignored")
	}
}

func TestConventionalKeyEnvFillsGapOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := Default()
	cfg.applyEnv()
	if cfg.Providers["openai"].APIKey != "sk-env" {
		t.Errorf("key = %q, want env fallback", cfg.Providers["openai"].APIKey)
	}

	cfg = Default()
	cfg.setProvider("openai", Provider{APIKey: "sk-file"})
	cfg.applyEnv()
	if cfg.Providers["openai"].APIKey != "sk-file" {
		t.Errorf("key = %q, file value should win over conventional env", cfg.Providers["openai"].APIKey)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.DefaultProvider = "ollama"
	cfg.Instructions = "Keep subjects under 50 chars"
	cfg.setProvider("ollama", Provider{Model: "llama3.2", BaseURL: "http://gpu-box:11434"})

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.DefaultProvider != "ollama" {
		t.Errorf("DefaultProvider = %q", loaded.DefaultProvider)
	}
	if loaded.Instructions != "Keep subjects under 50 chars" {
		t.Errorf("Instructions = %q", loaded.Instructions)
	}
	if loaded.Providers["ollama"].BaseURL != "http://gpu-box:11434" {
		t.Errorf("BaseURL = %q", loaded.Providers["ollama"].BaseURL)
	}
}

func TestResolve(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.TimeoutSeconds = 30
	cfg.setProvider("openai", Provider{APIKey: "sk", Model: "gpt-4o-mini"})

	name, settings, limit := cfg.Resolve("")
	if name != "openai" {
		t.Errorf("resolved name = %q", name)
	}
	if settings.Model != "gpt-4o-mini" || settings.APIKey != "sk" {
		t.Errorf("settings = %+v", settings)
	}
	if settings.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", settings.Timeout)
	}
	// Registry default for openai's window.
	if limit != 128000 {
		t.Errorf("limit = %d", limit)
	}
}

func TestResolveCustomLimitWins(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.setProvider("openai", Provider{TokenLimit: 9000})
	if _, _, limit := cfg.Resolve("openai"); limit != 9000 {
		t.Errorf("limit = %d, want custom 9000", limit)
	}
}

func TestResolveUnknownProviderFallbackLimit(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	if _, _, limit := cfg.Resolve("homegrown"); limit != 8192 {
		t.Errorf("limit = %d, want fallback 8192", limit)
	}
}

// Package config loads scribe settings. Precedence, lowest to highest:
// built-in defaults, the user config file, SCRIBE_* environment
// variables. Command-line flags override on top at the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/scribe-ai/scribe/internal/provider"
)

// Provider holds per-backend settings from the [providers.<name>]
// tables.
type Provider struct {
	APIKey     string            `toml:"api_key,omitempty"`
	Model      string            `toml:"model,omitempty"`
	BaseURL    string            `toml:"base_url,omitempty"`
	TokenLimit int               `toml:"token_limit,omitempty"`
	Params     map[string]string `toml:"params,omitempty"`
}

// Config is the resolved configuration.
type Config struct {
	DefaultProvider string              `toml:"default_provider"`
	Providers       map[string]Provider `toml:"providers"`
	Gitmoji         bool                `toml:"gitmoji"`
	Instructions    string              `toml:"instructions,omitempty"`
	Preset          string              `toml:"preset,omitempty"`
	ContextLines    int                 `toml:"context_lines"`
	CommitHistory   int                 `toml:"commit_history"`
	ReservedTokens  int                 `toml:"reserved_tokens"`
	TimeoutSeconds  int                 `toml:"timeout_seconds"`
	MaxAttempts     int                 `toml:"max_attempts"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultProvider: "openai",
		Providers:       map[string]Provider{},
		Gitmoji:         true,
		ContextLines:    3,
		CommitHistory:   5,
		ReservedTokens:  1024,
		TimeoutSeconds:  60,
		MaxAttempts:     3,
	}
}

// Path returns the user config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "scribe", "config.toml"), nil
}

// Load builds the configuration from defaults, the user config file if
// present, and the environment.
func Load() (*Config, error) {
	cfg := Default()
	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := cfg.mergeFile(path); err != nil {
				return nil, err
			}
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFrom builds the configuration from an explicit file path, which
// must exist.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// File-shape mirror with pointer fields so absent keys leave defaults
// untouched.
type fileConfig struct {
	DefaultProvider *string                 `toml:"default_provider"`
	Providers       map[string]fileProvider `toml:"providers"`
	Gitmoji         *bool                   `toml:"gitmoji"`
	Instructions    *string                 `toml:"instructions"`
	Preset          *string                 `toml:"preset"`
	ContextLines    *int                    `toml:"context_lines"`
	CommitHistory   *int                    `toml:"commit_history"`
	ReservedTokens  *int                    `toml:"reserved_tokens"`
	TimeoutSeconds  *int                    `toml:"timeout_seconds"`
	MaxAttempts     *int                    `toml:"max_attempts"`
}

type fileProvider struct {
	APIKey     *string           `toml:"api_key"`
	Model      *string           `toml:"model"`
	BaseURL    *string           `toml:"base_url"`
	TokenLimit *int              `toml:"token_limit"`
	Params     map[string]string `toml:"params"`
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var file fileConfig
	if _, err := toml.Decode(string(data), &file); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if file.DefaultProvider != nil {
		c.DefaultProvider = *file.DefaultProvider
	}
	if file.Gitmoji != nil {
		c.Gitmoji = *file.Gitmoji
	}
	if file.Instructions != nil {
		c.Instructions = *file.Instructions
	}
	if file.Preset != nil {
		c.Preset = *file.Preset
	}
	if file.ContextLines != nil {
		c.ContextLines = *file.ContextLines
	}
	if file.CommitHistory != nil {
		c.CommitHistory = *file.CommitHistory
	}
	if file.ReservedTokens != nil {
		c.ReservedTokens = *file.ReservedTokens
	}
	if file.TimeoutSeconds != nil {
		c.TimeoutSeconds = *file.TimeoutSeconds
	}
	if file.MaxAttempts != nil {
		c.MaxAttempts = *file.MaxAttempts
	}
	for name, fp := range file.Providers {
		p := c.Providers[name]
		if fp.APIKey != nil {
			p.APIKey = *fp.APIKey
		}
		if fp.Model != nil {
			p.Model = *fp.Model
		}
		if fp.BaseURL != nil {
			p.BaseURL = *fp.BaseURL
		}
		if fp.TokenLimit != nil {
			p.TokenLimit = *fp.TokenLimit
		}
		if fp.Params != nil {
			p.Params = fp.Params
		}
		c.Providers[name] = p
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCRIBE_PROVIDER"); v != "" {
		c.DefaultProvider = v
	}
	if v := os.Getenv("SCRIBE_MODEL"); v != "" {
		p := c.Providers[c.DefaultProvider]
		p.Model = v
		c.setProvider(c.DefaultProvider, p)
	}
	if v := os.Getenv("SCRIBE_API_KEY"); v != "" {
		p := c.Providers[c.DefaultProvider]
		p.APIKey = v
		c.setProvider(c.DefaultProvider, p)
	}
	if v := os.Getenv("SCRIBE_GITMOJI"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Gitmoji = b
		}
	}
	if v := os.Getenv("SCRIBE_INSTRUCTIONS"); v != "" {
		c.Instructions = v
	}

	// Conventional per-backend key variables fill gaps only.
	for name, envKey := range map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
	} {
		if p := c.Providers[name]; p.APIKey == "" {
			if v := os.Getenv(envKey); v != "" {
				p.APIKey = v
				c.setProvider(name, p)
			}
		}
	}
}

func (c *Config) setProvider(name string, p Provider) {
	if c.Providers == nil {
		c.Providers = map[string]Provider{}
	}
	c.Providers[name] = p
}

// Save writes the configuration to the user config file.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Resolve picks the provider to use (explicit name or the default) and
// returns its settings plus the context-window limit for budgeting.
func (c *Config) Resolve(name string) (string, provider.Settings, int) {
	if name == "" {
		name = c.DefaultProvider
	}
	p := c.Providers[name]
	s := provider.Settings{
		APIKey:  p.APIKey,
		Model:   p.Model,
		BaseURL: p.BaseURL,
		Timeout: time.Duration(c.TimeoutSeconds) * time.Second,
		Params:  p.Params,
	}
	limit := p.TokenLimit
	if limit <= 0 {
		if d, ok := provider.DefaultsFor(name); ok {
			limit = d.TokenLimit
		}
	}
	if limit <= 0 {
		limit = 8192
	}
	return name, s, limit
}

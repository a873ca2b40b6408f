// Package provider abstracts the model backends that turn an assembled
// prompt into candidate text. Backends self-register by name, so the
// set is open: a new backend is one Register call, no switch statements
// to touch.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	Model       string  // overrides the configured model when set
	Temperature float64 // 0 means backend default
	MaxTokens   int     // response cap, not the context window
	N           int     // requested candidate count, backends may cap it
}

// Usage reports token consumption when the backend discloses it.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response carries the generated candidates, non-empty and trimmed.
type Response struct {
	Candidates []string
	Model      string
	Usage      Usage
}

// Provider is one model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Error classes. Only ErrUnavailable is retryable: configuration
// problems and malformed responses will not fix themselves.
var (
	ErrConfig      = errors.New("provider configuration error")
	ErrUnavailable = errors.New("provider unavailable")
	ErrResponse    = errors.New("provider returned an unusable response")
)

// DefaultTimeout bounds a single completion call when config does not
// say otherwise. Calls never hang indefinitely.
const DefaultTimeout = 60 * time.Second

// Settings configure a backend instance.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Params  map[string]string
}

// Defaults are per-backend fallbacks applied when settings leave a
// field empty.
type Defaults struct {
	Model      string
	TokenLimit int // context window of the default model
	BaseURL    string
}

// Factory builds a backend from settings.
type Factory func(Settings) (Provider, error)

type entry struct {
	factory  Factory
	defaults Defaults
}

// Registry maps backend names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a backend under name, replacing any previous entry.
func (r *Registry) Register(name string, f Factory, d Defaults) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry{factory: f, defaults: d}
}

// New builds the named backend, filling empty settings from its
// defaults and wrapping it with the per-call timeout.
func (r *Registry) New(name string, s Settings) (Provider, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q (available: %s)",
			ErrConfig, name, strings.Join(r.Names(), ", "))
	}
	if s.Model == "" {
		s.Model = e.defaults.Model
	}
	if s.BaseURL == "" {
		s.BaseURL = e.defaults.BaseURL
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	p, err := e.factory(s)
	if err != nil {
		return nil, err
	}
	return &withTimeout{p: p, d: s.Timeout}, nil
}

// Names lists the registered backends, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultsFor returns the registered defaults for name.
func (r *Registry) DefaultsFor(name string) (Defaults, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.defaults, ok
}

// DefaultRegistry holds the built-in backends; they register in init.
var DefaultRegistry = NewRegistry()

// Register adds a backend to the default registry.
func Register(name string, f Factory, d Defaults) {
	DefaultRegistry.Register(name, f, d)
}

// New builds a backend from the default registry.
func New(name string, s Settings) (Provider, error) {
	return DefaultRegistry.New(name, s)
}

// Names lists the default registry's backends.
func Names() []string {
	return DefaultRegistry.Names()
}

// DefaultsFor looks up defaults in the default registry.
func DefaultsFor(name string) (Defaults, bool) {
	return DefaultRegistry.DefaultsFor(name)
}

// withTimeout bounds each Complete call independently so one slow call
// cannot eat the whole session.
type withTimeout struct {
	p Provider
	d time.Duration
}

func (w *withTimeout) Name() string { return w.p.Name() }

func (w *withTimeout) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, w.d)
	defer cancel()
	return w.p.Complete(ctx, req)
}

// classifyStatus maps an HTTP status to the error taxonomy.
func classifyStatus(name string, status int, detail string) error {
	detail = strings.TrimSpace(detail)
	if len(detail) > 200 {
		detail = detail[:200]
	}
	switch {
	case status == 429 || status >= 500:
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrUnavailable, name, status, detail)
	default:
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrConfig, name, status, detail)
	}
}

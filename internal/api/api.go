// Package api exposes the generation pipeline over HTTP: one-shot
// commit-message and changelog endpoints, plus a WebSocket surface that
// drives a full review session per connection.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/scribe-ai/scribe/internal/config"
	"github.com/scribe-ai/scribe/internal/provider"
)

// Server is the scribe HTTP API server.
type Server struct {
	addr   string
	mux    *http.ServeMux
	server *http.Server

	cfg  *config.Config
	root string // repository root for range endpoints; empty disables them

	// newBackend builds the provider for a request. Tests swap it for
	// a mock.
	newBackend func(name, model string) (provider.Provider, string, int, error)
}

// New creates an API server. root may be empty when the server does not
// run inside a repository; the changelog endpoint then returns an error.
func New(addr string, cfg *config.Config, root string) *Server {
	s := &Server{addr: addr, cfg: cfg, root: root}
	s.newBackend = s.configuredBackend
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/commit-message", s.handleCommitMessage)
	s.mux.HandleFunc("POST /api/changelog", s.handleChangelog)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// configuredBackend resolves a retry-wrapped provider from the server
// config, also returning the effective model name and context window.
func (s *Server) configuredBackend(name, model string) (provider.Provider, string, int, error) {
	name, settings, limit := s.cfg.Resolve(name)
	if model != "" {
		settings.Model = model
	}
	effective := settings.Model
	if effective == "" {
		if d, ok := provider.DefaultsFor(name); ok {
			effective = d.Model
		}
	}
	p, err := provider.New(name, settings)
	if err != nil {
		return nil, "", 0, err
	}
	return provider.WithRetry(p, s.cfg.MaxAttempts), effective, limit, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("scribe API server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

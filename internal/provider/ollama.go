package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func init() {
	Register("ollama", newOllama, Defaults{
		Model:      "llama3.2",
		TokenLimit: 8192,
		BaseURL:    "http://localhost:11434",
	})
}

// ollama talks to a local Ollama daemon. No API key involved.
type ollama struct {
	model   string
	baseURL string
	client  *http.Client
}

func newOllama(s Settings) (Provider, error) {
	return &ollama{
		model:   s.Model,
		baseURL: strings.TrimRight(s.BaseURL, "/"),
		client:  &http.Client{},
	}, nil
}

func (o *ollama) Name() string { return "ollama" }

type ollamaRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (o *ollama) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}
	body := ollamaRequest{Model: model, System: req.System, Prompt: req.Prompt}
	opts := map[string]any{}
	if req.Temperature > 0 {
		opts["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}
	if len(opts) > 0 {
		body.Options = opts
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %v", ErrConfig, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %v", ErrConfig, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: is the daemon running? %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: ollama: model %q not found, try `ollama pull %s`", ErrConfig, model, model)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("ollama", resp.StatusCode, string(data))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: ollama: %v", ErrResponse, err)
	}
	text := strings.TrimSpace(parsed.Response)
	if text == "" {
		return nil, fmt.Errorf("%w: ollama: empty generation", ErrResponse)
	}
	return &Response{
		Candidates: []string{text},
		Model:      parsed.Model,
		Usage:      Usage{InputTokens: parsed.PromptEvalCount, OutputTokens: parsed.EvalCount},
	}, nil
}

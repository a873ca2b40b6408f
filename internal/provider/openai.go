package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func init() {
	Register("openai", newOpenAI, Defaults{Model: "gpt-4o", TokenLimit: 128000})
}

type openAI struct {
	client openai.Client
	model  string
}

func newOpenAI(s Settings) (Provider, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: missing API key (set providers.openai.api_key or OPENAI_API_KEY)", ErrConfig)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		// Retry policy lives in WithRetry, not in the SDK.
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &openAI{client: openai.NewClient(opts...), model: s.Model}, nil
}

func (o *openAI) Name() string { return "openai" }

func (o *openAI) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.N > 1 {
		params.N = openai.Int(int64(req.N))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyOpenAI(err)
	}

	out := &Response{
		Model: resp.Model,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}
	for _, choice := range resp.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			out.Candidates = append(out.Candidates, text)
		}
	}
	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("%w: openai: completion had no text", ErrResponse)
	}
	return out, nil
}

func classifyOpenAI(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == 429 || apierr.StatusCode >= 500:
			return fmt.Errorf("%w: openai: %v", ErrUnavailable, err)
		default:
			return fmt.Errorf("%w: openai: %v", ErrConfig, err)
		}
	}
	// Transport failures and timeouts.
	return fmt.Errorf("%w: openai: %v", ErrUnavailable, err)
}

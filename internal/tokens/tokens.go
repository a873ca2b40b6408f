// Package tokens estimates prompt sizes in model tokens.
//
// Estimates are treated as upper bounds when packing context into a
// budget: overcounting wastes a little room, undercounting causes
// truncated completions. The byte heuristic therefore carries a margin,
// and the BPE path adds one for model families whose tokenizer the
// encoding only approximates.
package tokens

import (
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator counts tokens for a model family and cuts text to fit.
type Estimator interface {
	// Estimate returns an upper-bound token count for text.
	Estimate(text string) int
	// Truncate returns text reduced so that Estimate(result) <= maxTokens.
	// The cut never splits a rune.
	Truncate(text string, maxTokens int) string
}

// charsPerToken is the usual prose average for BPE vocabularies.
const charsPerToken = 4

// heuristicMarginPct inflates byte-based estimates; diffs and code
// tokenize denser than prose.
const heuristicMarginPct = 10

// Heuristic estimates from byte length alone. It is the fallback for
// model families without a known encoding, and for environments where
// the encoding data cannot be loaded.
type Heuristic struct{}

func (Heuristic) Estimate(text string) int {
	if text == "" {
		return 0
	}
	base := (len(text) + charsPerToken - 1) / charsPerToken
	return base + base*heuristicMarginPct/100
}

func (h Heuristic) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if h.Estimate(text) <= maxTokens {
		return text
	}
	cut := maxTokens * charsPerToken * 100 / (100 + heuristicMarginPct)
	if cut > len(text) {
		cut = len(text)
	}
	for cut > 0 && h.Estimate(text[:cut]) > maxTokens {
		cut -= charsPerToken
	}
	if cut <= 0 {
		return ""
	}
	for cut > 0 && cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// bpe wraps a tiktoken encoding, optionally padded for families the
// encoding only approximates.
type bpe struct {
	enc       *tiktoken.Tiktoken
	marginPct int
}

func (b *bpe) Estimate(text string) int {
	if text == "" {
		return 0
	}
	n := len(b.enc.Encode(text, nil, nil))
	return n + n*b.marginPct/100
}

func (b *bpe) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	toks := b.enc.Encode(text, nil, nil)
	keep := maxTokens * 100 / (100 + b.marginPct)
	for keep > 0 && keep+keep*b.marginPct/100 > maxTokens {
		keep--
	}
	if keep >= len(toks) {
		return text
	}
	if keep <= 0 {
		return ""
	}
	// A token prefix can end mid-rune; drop the partial bytes.
	return strings.ToValidUTF8(b.enc.Decode(toks[:keep]), "")
}

// claudeMarginPct pads cl100k counts for Claude models, whose own
// tokenizer runs a little denser.
const claudeMarginPct = 15

// ForModel returns the estimator for a model name. OpenAI-family names
// get their exact encoding, Claude models get cl100k with a margin, and
// everything else (local Ollama models, unknown names) falls back to the
// byte heuristic. Loading an encoding can fail offline; the heuristic
// covers that too.
func ForModel(model string) Estimator {
	name := strings.ToLower(strings.TrimSpace(model))
	switch {
	case hasAnyPrefix(name, "gpt-", "o1", "o3", "o4", "chatgpt"):
		if enc, err := tiktoken.EncodingForModel(name); err == nil {
			return &bpe{enc: enc}
		}
		if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
			return &bpe{enc: enc}
		}
	case strings.HasPrefix(name, "claude"):
		if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
			return &bpe{enc: enc, marginPct: claudeMarginPct}
		}
	}
	return Heuristic{}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

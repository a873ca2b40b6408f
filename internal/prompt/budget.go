package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scribe-ai/scribe/internal/tokens"
)

// Budget bounds one assembled prompt.
type Budget struct {
	MaxTokens           int // the model's context window for this call
	ReservedForResponse int // slice held back for the completion
}

var (
	// ErrNoContext means there is nothing to describe. Callers decide
	// how loudly to say so.
	ErrNoContext = errors.New("no staged changes to describe")

	// ErrBudgetTooSmall means not even the highest-priority fragment
	// fits the usable window.
	ErrBudgetTooSmall = errors.New("token budget too small for any context")
)

func (b Budget) validate() error {
	if b.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens %d", ErrBudgetTooSmall, b.MaxTokens)
	}
	if b.ReservedForResponse < 0 || b.ReservedForResponse >= b.MaxTokens {
		return fmt.Errorf("%w: reserved %d of %d", ErrBudgetTooSmall, b.ReservedForResponse, b.MaxTokens)
	}
	return nil
}

// minTruncate is the smallest truncated fragment worth keeping. Below
// this the fragment is skipped so smaller fragments further down still
// get a chance, and inclusion stays monotone in the budget.
const minTruncate = 16

const truncationMarker = "\n[diff truncated]"

// allocate greedily packs fragments into the usable window in the order
// given (callers sort by priority first). A fragment that does not fit
// whole is truncated when its kind supports it, otherwise skipped. The
// result is deterministic for identical inputs.
func allocate(frags []Fragment, usable int, est tokens.Estimator) ([]Fragment, int, error) {
	if usable <= 0 {
		return nil, 0, fmt.Errorf("%w: usable window is %d", ErrBudgetTooSmall, usable)
	}

	remaining := usable
	var kept []Fragment
	for _, f := range frags {
		cost := est.Estimate(f.Content)
		if cost <= remaining {
			f.Tokens = cost
			kept = append(kept, f)
			remaining -= cost
			continue
		}
		if f.Kind == KindUserInstruction {
			// Instructions are never silently dropped; a budget that
			// cannot hold them is unusable.
			return nil, 0, fmt.Errorf("%w: user instructions need %d tokens, %d left", ErrBudgetTooSmall, cost, remaining)
		}
		if !truncatable(f.Kind) || remaining < minTruncate {
			continue
		}
		cut, ok := truncateFragment(f, remaining, est)
		if !ok {
			continue
		}
		cut.Tokens = est.Estimate(cut.Content)
		if cut.Tokens > remaining {
			continue
		}
		kept = append(kept, cut)
		remaining -= cut.Tokens
	}
	if len(kept) == 0 {
		return nil, 0, fmt.Errorf("%w: nothing fits in %d tokens", ErrBudgetTooSmall, usable)
	}
	return kept, usable - remaining, nil
}

func truncatable(k Kind) bool {
	return k == KindFileDiff || k == KindCommitMessage
}

// truncateFragment cuts a fragment down to maxTokens. Diffs keep their
// head (header and leading hunk lines) up to a whole line, with a
// marker noting the cut; commit messages fall back to their subject.
func truncateFragment(f Fragment, maxTokens int, est tokens.Estimator) (Fragment, bool) {
	switch f.Kind {
	case KindCommitMessage:
		subject, _, _ := strings.Cut(f.Content, "\n")
		if subject == "" || est.Estimate(subject) > maxTokens {
			return Fragment{}, false
		}
		f.Content = subject
		return f, true

	case KindFileDiff:
		budget := maxTokens - est.Estimate(truncationMarker) - 2
		if budget <= 0 {
			return Fragment{}, false
		}
		head := est.Truncate(f.Content, budget)
		if idx := strings.LastIndexByte(head, '\n'); idx > 0 {
			head = head[:idx]
		}
		if strings.TrimSpace(head) == "" {
			return Fragment{}, false
		}
		f.Content = head + truncationMarker
		return f, true
	}
	return Fragment{}, false
}

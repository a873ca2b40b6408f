package prompt

import (
	"strings"

	"github.com/scribe-ai/scribe/internal/tokens"
)

// Options configure assembly.
type Options struct {
	Task        Task
	Detail      DetailLevel
	Gitmoji     bool
	Refinements []string // review-loop guidance, oldest first
}

// Assembled is a prompt ready for a provider call.
type Assembled struct {
	System    string
	User      string
	Fragments []Fragment // what survived allocation, in packed order
	Tokens    int        // estimated prompt-side total
}

// frameOverhead covers the joins between fragments and message framing
// the estimator never sees.
const frameOverhead = 16

// Assemble renders the task's system prompt, packs fragments under the
// budget, and renders the user prompt. The estimated total plus the
// response reservation never exceeds the budget ceiling; assembly of
// identical inputs yields identical output.
func Assemble(frags []Fragment, b Budget, est tokens.Estimator, opts Options) (*Assembled, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if len(frags) == 0 {
		return nil, ErrNoContext
	}

	system := systemText(opts)
	header := userHeader(opts)
	overhead := est.Estimate(system) + est.Estimate(header) + frameOverhead

	usable := b.MaxTokens - b.ReservedForResponse - overhead
	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	SortByPriority(sorted)

	kept, used, err := allocate(sorted, usable, est)
	if err != nil {
		return nil, err
	}

	var u strings.Builder
	u.WriteString(header)
	for _, f := range kept {
		u.WriteString("\n\n")
		u.WriteString(f.Content)
	}

	return &Assembled{
		System:    system,
		User:      u.String(),
		Fragments: kept,
		Tokens:    overhead + used,
	}, nil
}

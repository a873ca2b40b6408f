// Package prompt turns repository context into model prompts that fit a
// token budget. Context arrives as prioritized fragments; the allocator
// packs as much high-priority material as the window allows and the
// assembler renders the result for a provider call.
package prompt

import "sort"

// Kind classifies a fragment for prioritisation and truncation.
type Kind int

const (
	KindFileDiff Kind = iota
	KindCommitMessage
	KindProjectMetadata
	KindUserInstruction
)

func (k Kind) String() string {
	switch k {
	case KindFileDiff:
		return "file_diff"
	case KindCommitMessage:
		return "commit_message"
	case KindProjectMetadata:
		return "project_metadata"
	case KindUserInstruction:
		return "user_instruction"
	default:
		return "unknown"
	}
}

// Fragment is one candidate piece of prompt context.
type Fragment struct {
	Kind     Kind
	Content  string
	Priority int // higher is packed first
	Tokens   int // estimated cost, set during allocation
}

// SortByPriority orders fragments highest priority first. The sort is
// stable so equal priorities keep their build order, which keeps
// assembly deterministic.
func SortByPriority(frags []Fragment) {
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Priority > frags[j].Priority
	})
}

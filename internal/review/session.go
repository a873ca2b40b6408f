// Package review drives the interactive accept/regenerate/edit loop
// over generated candidates.
package review

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrAborted reports that the user ended the session without accepting
// a candidate. It is a normal outcome, not a failure.
var ErrAborted = errors.New("review aborted")

// State is the review session's position in its lifecycle.
type State int

const (
	// Presenting shows the current candidate and waits for a decision.
	Presenting State = iota
	// Regenerating waits on a provider call for a replacement.
	Regenerating
	// Editing lets the user rewrite the candidate by hand.
	Editing
	// Accepted and Aborted are terminal.
	Accepted
	Aborted
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case Regenerating:
		return "regenerating"
	case Editing:
		return "editing"
	case Accepted:
		return "accepted"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Session tracks the current candidate and every one it replaced.
// It is not safe for concurrent use; one goroutine owns a session.
type Session struct {
	ID      string
	Current string
	History []string
	State   State
}

// NewSession starts a session presenting the first candidate.
func NewSession(first string) *Session {
	return &Session{
		ID:      uuid.NewString(),
		Current: first,
		State:   Presenting,
	}
}

// BeginRegenerate marks a provider call in flight.
func (s *Session) BeginRegenerate() {
	s.State = Regenerating
}

// FailRegenerate returns to presenting with the current candidate
// intact. Nothing is appended to history.
func (s *Session) FailRegenerate() {
	s.State = Presenting
}

// Push archives the current candidate and presents the replacement.
func (s *Session) Push(candidate string) {
	if s.Current != "" {
		s.History = append(s.History, s.Current)
	}
	s.Current = candidate
	s.State = Presenting
}

// Previous cycles back through archived candidates. The current one is
// reinserted at the front of history, so repeated calls walk the whole
// ring. It reports whether there was anything to recall.
func (s *Session) Previous() bool {
	if len(s.History) == 0 {
		return false
	}
	last := s.History[len(s.History)-1]
	copy(s.History[1:], s.History[:len(s.History)-1])
	s.History[0] = s.Current
	s.Current = last
	return true
}

// BeginEdit opens the current candidate for manual rewriting.
func (s *Session) BeginEdit() {
	s.State = Editing
}

// CancelEdit returns to presenting without changing the candidate.
func (s *Session) CancelEdit() {
	s.State = Presenting
}

// FinishEdit validates and installs the edited text. Blank text is
// rejected and the session stays in Editing.
func (s *Session) FinishEdit(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.New("message cannot be empty")
	}
	if trimmed == s.Current {
		s.State = Presenting
		return nil
	}
	s.Push(trimmed)
	return nil
}

// Accept ends the session; Current is the result.
func (s *Session) Accept() {
	s.State = Accepted
}

// Abort ends the session without a result.
func (s *Session) Abort() {
	s.State = Aborted
}

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	return s.State == Accepted || s.State == Aborted
}

package review

import (
	"reflect"
	"testing"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("first draft")
	if s.State != Presenting {
		t.Errorf("state = %v, want Presenting", s.State)
	}
	if s.Current != "first draft" {
		t.Errorf("current = %q", s.Current)
	}
	if len(s.History) != 0 {
		t.Errorf("history = %v, want empty", s.History)
	}
	if s.ID == "" {
		t.Error("session has no ID")
	}
	if s.Done() {
		t.Error("fresh session should not be done")
	}
}

func TestPushArchivesInOrder(t *testing.T) {
	s := NewSession("first")
	s.BeginRegenerate()
	s.Push("second")
	s.BeginRegenerate()
	s.Push("third")

	want := []string{"first", "second"}
	if !reflect.DeepEqual(s.History, want) {
		t.Errorf("history = %v, want %v", s.History, want)
	}
	if s.Current != "third" {
		t.Errorf("current = %q, want third", s.Current)
	}
	if s.State != Presenting {
		t.Errorf("state = %v, want Presenting", s.State)
	}

	s.Accept()
	if s.State != Accepted || s.Current != "third" {
		t.Errorf("accept changed the candidate: state %v current %q", s.State, s.Current)
	}
}

func TestPushFromEmptyCurrent(t *testing.T) {
	s := NewSession("")
	s.Push("generated")
	if len(s.History) != 0 {
		t.Errorf("empty candidate archived: %v", s.History)
	}
	if s.Current != "generated" {
		t.Errorf("current = %q", s.Current)
	}
}

func TestFailRegenerateKeepsCandidate(t *testing.T) {
	s := NewSession("only draft")
	s.BeginRegenerate()
	if s.State != Regenerating {
		t.Fatalf("state = %v", s.State)
	}

	s.FailRegenerate()
	if s.State != Presenting {
		t.Errorf("state = %v, want Presenting", s.State)
	}
	if s.Current != "only draft" {
		t.Errorf("current = %q, failure must not replace it", s.Current)
	}
	if len(s.History) != 0 {
		t.Errorf("failure appended to history: %v", s.History)
	}
}

func TestPreviousCyclesThroughCandidates(t *testing.T) {
	s := NewSession("a")
	s.Push("b")
	s.Push("c")

	steps := []struct {
		current string
		history []string
	}{
		{"b", []string{"c", "a"}},
		{"a", []string{"b", "c"}},
		{"c", []string{"a", "b"}},
	}
	for i, step := range steps {
		if !s.Previous() {
			t.Fatalf("step %d: Previous returned false", i)
		}
		if s.Current != step.current {
			t.Errorf("step %d: current = %q, want %q", i, s.Current, step.current)
		}
		if !reflect.DeepEqual(s.History, step.history) {
			t.Errorf("step %d: history = %v, want %v", i, s.History, step.history)
		}
	}
}

func TestPreviousWithoutHistory(t *testing.T) {
	s := NewSession("only")
	if s.Previous() {
		t.Error("Previous succeeded with empty history")
	}
	if s.Current != "only" {
		t.Errorf("current = %q", s.Current)
	}
}

func TestFinishEditValidatesNonEmpty(t *testing.T) {
	s := NewSession("draft")
	s.BeginEdit()

	if err := s.FinishEdit("   \n\t"); err == nil {
		t.Fatal("blank edit accepted")
	}
	if s.State != Editing {
		t.Errorf("state = %v, want Editing after rejected edit", s.State)
	}

	if err := s.FinishEdit("rewritten by hand"); err != nil {
		t.Fatalf("FinishEdit: %v", err)
	}
	if s.State != Presenting || s.Current != "rewritten by hand" {
		t.Errorf("state %v current %q", s.State, s.Current)
	}
	if !reflect.DeepEqual(s.History, []string{"draft"}) {
		t.Errorf("history = %v", s.History)
	}
}

func TestFinishEditUnchangedSkipsHistory(t *testing.T) {
	s := NewSession("draft")
	s.BeginEdit()
	if err := s.FinishEdit("draft"); err != nil {
		t.Fatalf("FinishEdit: %v", err)
	}
	if s.State != Presenting {
		t.Errorf("state = %v", s.State)
	}
	if len(s.History) != 0 {
		t.Errorf("unchanged edit archived: %v", s.History)
	}
}

func TestAbortIsTerminal(t *testing.T) {
	s := NewSession("a")
	s.Push("b")
	s.Push("c")
	s.Abort()
	if s.State != Aborted || !s.Done() {
		t.Errorf("state = %v", s.State)
	}
}

func TestStateStrings(t *testing.T) {
	cases := map[State]string{
		Presenting:   "presenting",
		Regenerating: "regenerating",
		Editing:      "editing",
		Accepted:     "accepted",
		Aborted:      "aborted",
		State(99):    "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

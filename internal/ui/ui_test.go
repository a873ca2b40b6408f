package ui

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	old := Out
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name   string
		fn     func()
		marker string
		body   string
	}{
		{"success", func() { Success("staged %d files", 3) }, "✓", "staged 3 files"},
		{"error", func() { Error("no API key") }, "✗", "no API key"},
		{"warn", func() { Warn("nothing staged") }, "!", "nothing staged"},
		{"info", func() { Info("using %s", "openai") }, "·", "using openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capture(t, tt.fn)
			if !strings.Contains(got, tt.marker) {
				t.Errorf("output %q missing marker %q", got, tt.marker)
			}
			if !strings.Contains(got, tt.body) {
				t.Errorf("output %q missing body %q", got, tt.body)
			}
		})
	}
}

func TestHintIndented(t *testing.T) {
	got := capture(t, func() { Hint("run git add first") })
	if !strings.Contains(got, "run git add first") {
		t.Errorf("hint body missing from %q", got)
	}
}

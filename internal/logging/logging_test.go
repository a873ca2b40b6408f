package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledByDefault(t *testing.T) {
	if Enabled() {
		t.Fatal("logging should start disabled")
	}
	// Must not panic with no file open.
	Debugf("dropped %d", 1)
}

func TestEnableWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	Debugf("running %s", "git diff")
	Errorf("provider said no")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "DEBUG running git diff") {
		t.Errorf("missing debug line, log = %q", got)
	}
	if !strings.Contains(got, "ERROR provider said no") {
		t.Errorf("missing error line, log = %q", got)
	}
}

func TestEnableAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Debugf("first")
	Disable()

	if err := Enable(path); err != nil {
		t.Fatalf("re-Enable: %v", err)
	}
	Debugf("second")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("expected both sessions in log, got %q", got)
	}
}

func TestDisableStopsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Disable()
	Debugf("should not appear")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if strings.Contains(string(data), "should not appear") {
		t.Error("write happened after Disable")
	}
}

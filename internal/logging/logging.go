// Package logging provides an opt-in debug log for troubleshooting
// provider calls and git plumbing without polluting the terminal.
// Logging is disabled until Enable is called with a file path; every
// write appends a timestamped line.
package logging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	out     *os.File
	enabled bool
)

// Enable opens path for appending and turns debug logging on.
// A previously opened log file is closed first.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if out != nil {
		out.Close()
		out = nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	out = f
	enabled = true
	return nil
}

// Disable turns logging off and closes the log file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if out != nil {
		out.Close()
		out = nil
	}
	enabled = false
}

// Enabled reports whether debug logging is active.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Debugf writes a formatted line to the debug log. It is a no-op when
// logging is disabled.
func Debugf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || out == nil {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(out, "%s DEBUG %s\n", ts, fmt.Sprintf(format, args...))
}

// Errorf writes a formatted error line to the debug log. It is a no-op
// when logging is disabled.
func Errorf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || out == nil {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(out, "%s ERROR %s\n", ts, fmt.Sprintf(format, args...))
}

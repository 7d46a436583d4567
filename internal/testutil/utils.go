package testutil

import (
	"log"
	"testing"
)

type testLogWriter struct {
	t *testing.T
}

func (w *testLogWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}

// TestLogger returns a logger whose output is attached to the test that
// produced it, so log lines only surface for failing or verbose runs.
func TestLogger(t *testing.T) *log.Logger {
	return log.New(&testLogWriter{t: t}, "[storyroom] ", log.LstdFlags)
}

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

type entry struct {
	level slog.Level
	msg   string
}

// captureHandler records every log record so tests can assert exact lines.
type captureHandler struct {
	mu      sync.Mutex
	entries []entry
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry{level: r.Level, msg: r.Message})
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) at(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var msgs []string
	for _, e := range h.entries {
		if e.level == level {
			msgs = append(msgs, e.msg)
		}
	}
	return msgs
}

func newCapture() (*captureHandler, *slog.Logger) {
	h := &captureHandler{}
	return h, slog.New(h)
}

type fakePayload struct {
	name string
	size int64
	err  error
}

func (p fakePayload) String() string { return p.name }

func (p fakePayload) DownloadSize() (int64, error) { return p.size, p.err }

var errBadSize = errors.New("invalid size")

func assertLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines %q, got %d: %q", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

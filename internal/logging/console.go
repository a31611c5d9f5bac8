package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ConsoleHandler renders records as human-readable lines:
//
//	[WARNING] [component] message key=value
//
// Level tags are colored when the output is a terminal.
type ConsoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     slog.Leveler
	component string
	attrs     []slog.Attr
	prefix    string
	colors    map[slog.Level]*color.Color
}

// NewConsoleHandler creates a ConsoleHandler writing to out at the given minimum level.
func NewConsoleHandler(out io.Writer, level slog.Leveler) *ConsoleHandler {
	colors := map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgBlue),
		slog.LevelInfo:  color.New(color.Reset),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}

	// Only a bare terminal gets colors. An *Output that also feeds the log
	// file is not an *os.File, so escape codes never reach the file.
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	for _, c := range colors {
		if tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return &ConsoleHandler{
		mu:     &sync.Mutex{},
		out:    out,
		level:  level,
		colors: colors,
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder

	sb.WriteString(h.levelTag(record.Level))
	if h.component != "" {
		sb.WriteString(" [")
		sb.WriteString(h.component)
		sb.WriteString("]")
	}
	sb.WriteString(" ")
	sb.WriteString(record.Message)

	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if a.Key == KeyComponent && h.prefix == "" {
			clone.component = a.Value.String()
			continue
		}
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *ConsoleHandler) levelTag(level slog.Level) string {
	name := "INFO"
	key := slog.LevelInfo
	switch {
	case level >= slog.LevelError:
		name, key = "ERROR", slog.LevelError
	case level >= slog.LevelWarn:
		name, key = "WARNING", slog.LevelWarn
	case level < slog.LevelInfo:
		name, key = "DEBUG", slog.LevelDebug
	}
	return h.colors[key].Sprintf("[%s]", name)
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(sb, " %s%s=%v", prefix, a.Key, a.Value.Resolve().Any())
}

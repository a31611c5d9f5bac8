package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPreInitLoggerUsesConfiguredHandler(t *testing.T) {
	logger := L("specialcases")

	var buf bytes.Buffer
	Init("text", "info", &buf)

	logger.Info("checking firmware", "package", "iwl7260-firmware")

	out := buf.String()
	if !strings.Contains(out, `msg="checking firmware"`) {
		t.Fatalf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=specialcases") {
		t.Fatalf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "package=iwl7260-firmware") {
		t.Fatalf("expected package field, got: %s", out)
	}
}

func TestPreInitLoggerRespectsConfiguredLevel(t *testing.T) {
	logger := L("handlers")

	var buf bytes.Buffer
	Init("json", "warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info log should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("warn log should be emitted as json: %s", out)
	}
}

func TestConsoleHandlerFormatsLevelAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, slog.LevelDebug)).With(slog.String(KeyComponent, "transaction"))

	logger.Warn("Scriptlet output: done")
	logger.Debug("ignored action", "code", 42)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "[WARNING] [transaction] Scriptlet output: done" {
		t.Fatalf("unexpected warning line: %q", lines[0])
	}
	if lines[1] != "[DEBUG] [transaction] ignored action code=42" {
		t.Fatalf("unexpected debug line: %q", lines[1])
	}
}

func TestConsoleHandlerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Error("Transaction error: boom")

	if got := buf.String(); got != "[ERROR] Transaction error: boom\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitSwitchesBetweenHandlerTypes(t *testing.T) {
	logger := L("handlers")
	t.Cleanup(func() { Init(FormatConsole, "info", nil) })

	for _, format := range []string{FormatJSON, FormatText, FormatConsole, FormatJSON} {
		var buf bytes.Buffer
		Init(format, "info", &buf)
		logger.Info("switched")
		if !strings.Contains(buf.String(), "switched") {
			t.Fatalf("format %s: expected output, got %q", format, buf.String())
		}
	}
}

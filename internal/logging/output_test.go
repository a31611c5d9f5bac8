package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func openTestOutput(t *testing.T, console *bytes.Buffer, backups int) (*Output, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "rhelconvert.log")
	out, err := OpenOutput(console, FileOptions{Path: path, MaxSizeMB: 1, MaxBackups: backups})
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	t.Cleanup(func() { out.Close() })
	// Keep the test well under a megabyte.
	out.limit = 16
	return out, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestOutputWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	out, path := openTestOutput(t, &console, 2)

	if _, err := out.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if console.String() != "hello\n" {
		t.Fatalf("console = %q", console.String())
	}
	if got := readFile(t, path); got != "hello\n" {
		t.Fatalf("file = %q", got)
	}
}

func TestOutputRollsWhenFull(t *testing.T) {
	var console bytes.Buffer
	out, path := openTestOutput(t, &console, 2)

	for _, line := range []string{"first line 0001\n", "second line 002\n", "third line 0003\n", "fourth line 004\n"} {
		if _, err := out.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if got := readFile(t, path); got != "fourth line 004\n" {
		t.Fatalf("current = %q", got)
	}
	if got := readFile(t, path+".1"); got != "third line 0003\n" {
		t.Fatalf("backup 1 = %q", got)
	}
	if got := readFile(t, path+".2"); got != "second line 002\n" {
		t.Fatalf("backup 2 = %q", got)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected no third backup, stat err = %v", err)
	}
	if !strings.HasPrefix(console.String(), "first line") {
		t.Fatalf("console should see every line, got %q", console.String())
	}
}

func TestOutputZeroBackupsKeepsNoRolledFiles(t *testing.T) {
	var console bytes.Buffer
	out, path := openTestOutput(t, &console, 0)

	for _, line := range []string{"first line 0001\n", "second line 002\n"} {
		if _, err := out.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if got := readFile(t, path); got != "second line 002\n" {
		t.Fatalf("current = %q", got)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Fatalf("expected no backup with MaxBackups 0, stat err = %v", err)
	}
}

func TestOutputAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rhelconvert.log")
	if err := os.WriteFile(path, []byte("previous run\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var console bytes.Buffer
	out, err := OpenOutput(&console, FileOptions{Path: path})
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if out.written != int64(len("previous run\n")) {
		t.Fatalf("written = %d, want existing size", out.written)
	}
	if out.limit != DefaultMaxSizeMB<<20 {
		t.Fatalf("limit = %d, want default", out.limit)
	}
	if _, err := out.Write([]byte("this run\n")); err != nil {
		t.Fatal(err)
	}
	out.Close()

	if got := readFile(t, path); got != "previous run\nthis run\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestOutputWithoutPathIsConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	out, err := OpenOutput(&console, FileOptions{})
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if out.HasFile() {
		t.Fatal("expected no log file")
	}
	if n, err := out.Write([]byte("only console\n")); err != nil || n != len("only console\n") {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if console.String() != "only console\n" {
		t.Fatalf("console = %q", console.String())
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestConsoleHandlerKeepsEscapeCodesOutOfLogFile(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = saved })

	var console bytes.Buffer
	out, path := openTestOutput(t, &console, 1)
	out.limit = 1 << 20

	slog.New(NewConsoleHandler(out, slog.LevelDebug)).Error("rpm failed")

	if got := readFile(t, path); strings.Contains(got, "\x1b[") || !strings.Contains(got, "[ERROR] rpm failed") {
		t.Fatalf("file = %q", got)
	}
}

package handlers

import (
	"log/slog"
	"testing"

	"github.com/lanternops/rhelconvert/internal/pkgmanager"
)

func TestTransactionReporterSuppressesConsecutiveDuplicates(t *testing.T) {
	h, logger := newCapture()
	r := NewTransactionReporter(logger)

	a := pkgmanager.Name("A")
	b := pkgmanager.Name("B")
	r.Progress(a, pkgmanager.ActionInstall, 1, 10, 1, 3)
	r.Progress(a, pkgmanager.ActionInstall, 5, 10, 1, 3)
	r.Progress(b, pkgmanager.ActionInstall, 1, 10, 2, 3)
	r.Progress(a, pkgmanager.ActionRemove, 1, 10, 3, 3)

	assertLines(t, h.at(slog.LevelInfo),
		"Installing: A [1/3]",
		"Installing: B [2/3]",
		"Erasing: A [3/3]",
	)
}

func TestTransactionReporterSamePackageDifferentActionIsSuppressed(t *testing.T) {
	h, logger := newCapture()
	r := NewTransactionReporter(logger)

	pkg := pkgmanager.Name("kernel")
	r.Progress(pkg, pkgmanager.ActionUpgrade, 1, 1, 1, 2)
	r.Progress(pkg, pkgmanager.ActionUpgraded, 1, 1, 2, 2)

	assertLines(t, h.at(slog.LevelInfo), "Upgrading: kernel [1/2]")
}

func TestTransactionReporterUnknownActionLabel(t *testing.T) {
	h, logger := newCapture()
	NewTransactionReporter(logger).Progress(pkgmanager.Name("foo"), pkgmanager.Action(77), 0, 0, 1, 1)
	assertLines(t, h.at(slog.LevelInfo), "Unknown: foo [1/1]")
}

func TestTransactionReporterMissingPackageOrAction(t *testing.T) {
	h, logger := newCapture()
	r := NewTransactionReporter(logger)

	r.Progress(nil, pkgmanager.ActionInstall, 0, 0, 0, 0)
	r.Progress(pkgmanager.Name("foo"), pkgmanager.ActionNone, 0, 0, 0, 0)

	if info := h.at(slog.LevelInfo); len(info) != 0 {
		t.Fatalf("unexpected info lines %q", info)
	}
	assertLines(t, h.at(slog.LevelDebug),
		"No action or package was provided in the callback.",
		"No action or package was provided in the callback.",
	)

	// An ignored callback must not update the suppression state.
	r.Progress(pkgmanager.Name("foo"), pkgmanager.ActionInstall, 0, 0, 1, 1)
	assertLines(t, h.at(slog.LevelInfo), "Installing: foo [1/1]")
}

func TestTransactionReporterScriptOut(t *testing.T) {
	h, logger := newCapture()
	r := NewTransactionReporter(logger)

	r.ScriptOut(nil)
	r.ScriptOut([]byte{})
	r.ScriptOut([]byte("warning: /etc/foo created as /etc/foo.rpmnew"))

	assertLines(t, h.at(slog.LevelWarn), "Scriptlet output: warning: /etc/foo created as /etc/foo.rpmnew")
}

func TestTransactionReporterScriptOutInvalidUTF8(t *testing.T) {
	h, logger := newCapture()
	NewTransactionReporter(logger).ScriptOut([]byte{'o', 'k', 0xff})
	assertLines(t, h.at(slog.LevelWarn), "Scriptlet output: ok�")
}

func TestTransactionReporterErrorAlwaysLogged(t *testing.T) {
	h, logger := newCapture()
	r := NewTransactionReporter(logger)

	r.Error("file /usr/lib/firmware conflicts")
	r.Error("file /usr/lib/firmware conflicts")

	assertLines(t, h.at(slog.LevelError),
		"Transaction error: file /usr/lib/firmware conflicts",
		"Transaction error: file /usr/lib/firmware conflicts",
	)
}

func TestNewCallbacksBuildsAllReporters(t *testing.T) {
	cb := NewCallbacks(nil)
	if cb.Depsolve == nil || cb.Download == nil || cb.Transaction == nil {
		t.Fatalf("expected all callbacks to be set: %+v", cb)
	}
}

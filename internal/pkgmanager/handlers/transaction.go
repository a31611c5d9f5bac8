package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lanternops/rhelconvert/internal/pkgmanager"
)

// TransactionReporter logs rpm transaction steps. The engine calls Progress
// many times per package, so a line is only logged when the package differs
// from the previous call. Only the package is compared, not the action.
type TransactionReporter struct {
	log      *slog.Logger
	lastSeen string
	seen     bool
}

var _ pkgmanager.TransactionDisplay = (*TransactionReporter)(nil)

func NewTransactionReporter(logger *slog.Logger) *TransactionReporter {
	return &TransactionReporter{log: loggerOrDefault(logger)}
}

func (r *TransactionReporter) Progress(pkg pkgmanager.Package, action pkgmanager.Action, tiDone, tiTotal, tsDone, tsTotal int64) {
	if pkg == nil || action == pkgmanager.ActionNone {
		r.log.Debug("No action or package was provided in the callback.")
		return
	}

	name := pkg.String()
	if !r.seen || name != r.lastSeen {
		r.log.Info(fmt.Sprintf("%s: %s [%d/%d]", action.Label(), name, tsDone, tsTotal))
	}

	r.lastSeen = name
	r.seen = true
}

// ScriptOut logs scriptlet output. The engine passes empty output after
// scriptlets that printed nothing.
func (r *TransactionReporter) ScriptOut(msgs []byte) {
	if len(msgs) == 0 {
		return
	}
	r.log.Warn("Scriptlet output: " + strings.ToValidUTF8(string(msgs), "�"))
}

func (r *TransactionReporter) Error(message string) {
	r.log.Error("Transaction error: " + message)
}

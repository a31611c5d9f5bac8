// Package handlers turns package-manager engine callbacks into log lines.
//
// Message text is matched by log consumers; keep the formats stable.
package handlers

import (
	"log/slog"

	"github.com/lanternops/rhelconvert/internal/logging"
	"github.com/lanternops/rhelconvert/internal/pkgmanager"
)

// NewCallbacks returns a fresh set of reporters for one transaction. A nil
// logger uses the "pkgmanager" component logger.
func NewCallbacks(logger *slog.Logger) pkgmanager.Callbacks {
	return pkgmanager.Callbacks{
		Depsolve:    NewDepsolveReporter(logger),
		Download:    NewDownloadReporter(logger),
		Transaction: NewTransactionReporter(logger),
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return logging.L("pkgmanager")
	}
	return logger
}

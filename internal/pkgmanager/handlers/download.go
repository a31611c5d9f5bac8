package handlers

import (
	"fmt"
	"log/slog"

	"github.com/lanternops/rhelconvert/internal/pkgmanager"
)

// DownloadCounters is a snapshot of download progress.
type DownloadCounters struct {
	TotalFiles int
	TotalSize  int64
	TotalDRPMs int
	DoneFiles  int
	DoneSize   int64
	DoneDRPMs  int
}

// DownloadReporter aggregates per-payload completions into progress lines
// such as "(3/10): kernel-4.18.0-1.el8.x86_64".
type DownloadReporter struct {
	log *slog.Logger
	c   DownloadCounters
}

var _ pkgmanager.DownloadProgress = (*DownloadReporter)(nil)

func NewDownloadReporter(logger *slog.Logger) *DownloadReporter {
	return &DownloadReporter{log: loggerOrDefault(logger)}
}

// Start records the totals for a new download session. Done counters are
// kept as they are; the engine creates a new reporter per transaction.
func (r *DownloadReporter) Start(totalFiles int, totalSize int64, totalDRPMs int) {
	r.c.TotalFiles = totalFiles
	r.c.TotalSize = totalSize
	r.c.TotalDRPMs = totalDRPMs
}

// End accounts for one finished payload and logs its progress line. The
// only error is an unreadable payload size, in which case nothing changes.
func (r *DownloadReporter) End(payload pkgmanager.Payload, status pkgmanager.DownloadStatus, errMsg string) error {
	size, err := payload.DownloadSize()
	if err != nil {
		return fmt.Errorf("download size of %s: %w", payload, err)
	}

	switch status {
	case pkgmanager.StatusMirror:
		// The real download of this payload is still pending.
	case pkgmanager.StatusDRPM:
		r.c.DoneDRPMs++
	default:
		r.c.DoneFiles++
		r.c.DoneSize += size
	}

	if msg := r.message(payload.String(), status, errMsg); msg != "" {
		r.log.Info(msg)
	}
	return nil
}

// Counters returns the current totals and done counters.
func (r *DownloadReporter) Counters() DownloadCounters {
	return r.c
}

func (r *DownloadReporter) message(pkg string, status pkgmanager.DownloadStatus, errMsg string) string {
	if status != pkgmanager.StatusOK {
		if status == pkgmanager.StatusDRPM && r.c.TotalDRPMs > 1 {
			return fmt.Sprintf("(%d/%d) [%s %d/%d]: %s - %s",
				r.c.DoneFiles, r.c.TotalFiles, status.Label(), r.c.DoneDRPMs, r.c.TotalDRPMs, pkg, errMsg)
		}
		return fmt.Sprintf("(%d/%d) [%s]: %s", r.c.DoneFiles, r.c.TotalFiles, status.Label(), pkg)
	}

	if r.c.TotalFiles > 1 {
		return fmt.Sprintf("(%d/%d): %s", r.c.DoneFiles, r.c.TotalFiles, pkg)
	}
	return ""
}

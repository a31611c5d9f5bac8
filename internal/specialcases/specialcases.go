// Package specialcases fixes known per-distribution problems that would
// otherwise break the package replacement step of a conversion.
package specialcases

import (
	"context"
	"log/slog"

	"github.com/lanternops/rhelconvert/internal/executor"
	"github.com/lanternops/rhelconvert/internal/logging"
)

// SystemInfo is the part of the host description the special cases need.
type SystemInfo interface {
	OSID() string
	MajorVersion() int
	IsRPMInstalled(ctx context.Context, name string) (bool, error)
}

// Resolver runs the special cases against one host.
type Resolver struct {
	sys    SystemInfo
	runner executor.Runner
	log    *slog.Logger
}

// NewResolver creates a Resolver. A nil logger uses the "specialcases" component logger.
func NewResolver(sys SystemInfo, runner executor.Runner, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.L("specialcases")
	}
	return &Resolver{sys: sys, runner: runner, log: logger}
}

// CheckAndResolve runs every special case. Failures are logged and never
// stop the conversion.
func (r *Resolver) CheckAndResolve(ctx context.Context) {
	r.RemoveIwlax2xxFirmware(ctx)
}

func (r *Resolver) isInstalled(ctx context.Context, name string) bool {
	installed, err := r.sys.IsRPMInstalled(ctx, name)
	if err != nil {
		r.log.Warn("Unable to query package state, assuming it is not installed.", logging.KeyPackage, name, logging.KeyError, err)
		return false
	}
	return installed
}

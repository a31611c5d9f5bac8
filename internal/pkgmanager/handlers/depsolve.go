package handlers

import (
	"fmt"
	"log/slog"

	"github.com/lanternops/rhelconvert/internal/pkgmanager"
)

var depsolveModes = map[string]string{
	"i":  "%s will be installed.",
	"u":  "%s will be an update.",
	"e":  "%s will be erased.",
	"r":  "%s will be reinstalled.",
	"d":  "%s will be an downgrade.",
	"dd": "%s will be downgraded.",
	"o":  "%s will obsolete another package.",
	"ud": "%s will be updated.",
	"od": "%s will be obsoleted.",
}

// DepsolveReporter logs what the resolver decided to do with each package.
type DepsolveReporter struct {
	log *slog.Logger
}

var _ pkgmanager.DepsolveCallback = (*DepsolveReporter)(nil)

func NewDepsolveReporter(logger *slog.Logger) *DepsolveReporter {
	return &DepsolveReporter{log: loggerOrDefault(logger)}
}

// PackageAdded logs the decision for pkg. Unknown modes only produce a debug line.
func (r *DepsolveReporter) PackageAdded(pkg pkgmanager.Package, mode string) {
	template, ok := depsolveModes[mode]
	if !ok {
		r.log.Debug(fmt.Sprintf("Unknown operation (%s) for package '%s'.", mode, pkg))
		return
	}
	r.log.Info(fmt.Sprintf(template, pkg))
}

func (r *DepsolveReporter) Start() {
	r.log.Info("Starting dependency resolution process.")
}

func (r *DepsolveReporter) End() {
	r.log.Info("Finished dependency resolution process.")
}

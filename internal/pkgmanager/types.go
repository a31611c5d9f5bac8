// Package pkgmanager describes the callback surface a package-management
// engine drives while it resolves, downloads and applies a transaction.
package pkgmanager

import "fmt"

// Package is a package handed to a callback by the engine. Its string form
// is the identity used in messages.
type Package interface {
	fmt.Stringer
}

// Payload is a downloadable item. DownloadSize fails when the engine reports
// a size that cannot be read as a byte count.
type Payload interface {
	fmt.Stringer
	DownloadSize() (int64, error)
}

// DownloadStatus is the engine's outcome code for one downloaded payload.
type DownloadStatus int

const (
	StatusOK            DownloadStatus = 0
	StatusFailed        DownloadStatus = 1
	StatusAlreadyExists DownloadStatus = 2
	StatusMirror        DownloadStatus = 3
	StatusDRPM          DownloadStatus = 4
)

var statusLabels = map[DownloadStatus]string{
	StatusFailed:        "FAILED",
	StatusAlreadyExists: "SKIPPED",
	StatusMirror:        "MIRROR",
	StatusDRPM:          "DRPM",
}

// Label returns the display label for the status, or "Unknown".
func (s DownloadStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// Action is the transaction step being applied to a package.
type Action int

const (
	ActionNone Action = iota
	ActionDowngrade
	ActionDowngraded
	ActionInstall
	ActionObsolete
	ActionObsoleted
	ActionReinstall
	ActionReinstalled
	ActionRemove
	ActionUpgrade
	ActionUpgraded
	ActionCleanup
	ActionVerify
	ActionScriptlet
	ActionPreparation
	ActionPost
)

var actionLabels = map[Action]string{
	ActionDowngrade:   "Downgrading",
	ActionDowngraded:  "Cleanup",
	ActionInstall:     "Installing",
	ActionObsolete:    "Obsoleting",
	ActionObsoleted:   "Obsoleting",
	ActionReinstall:   "Reinstalling",
	ActionReinstalled: "Cleanup",
	ActionRemove:      "Erasing",
	ActionUpgrade:     "Upgrading",
	ActionUpgraded:    "Cleanup",
	ActionCleanup:     "Cleanup",
	ActionVerify:      "Verifying",
	ActionScriptlet:   "Running scriptlet",
	ActionPreparation: "Preparing",
	ActionPost:        "Running scriptlet",
}

// Label returns the display label for the action, or "Unknown".
func (a Action) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return "Unknown"
}

// ParseAction maps a lowercase action name ("install", "erase",
// "upgrade", ...) back to its code.
func ParseAction(name string) (Action, bool) {
	a, ok := actionNames[name]
	return a, ok
}

var actionNames = map[string]Action{
	"downgrade":   ActionDowngrade,
	"downgraded":  ActionDowngraded,
	"install":     ActionInstall,
	"obsolete":    ActionObsolete,
	"obsoleted":   ActionObsoleted,
	"reinstall":   ActionReinstall,
	"reinstalled": ActionReinstalled,
	"erase":       ActionRemove,
	"remove":      ActionRemove,
	"upgrade":     ActionUpgrade,
	"upgraded":    ActionUpgraded,
	"cleanup":     ActionCleanup,
	"verify":      ActionVerify,
	"scriptlet":   ActionScriptlet,
	"preparation": ActionPreparation,
	"post":        ActionPost,
}

// DepsolveCallback receives dependency resolution decisions.
type DepsolveCallback interface {
	Start()
	PackageAdded(pkg Package, mode string)
	End()
}

// DownloadProgress receives download totals and per-payload completions.
type DownloadProgress interface {
	Start(totalFiles int, totalSize int64, totalDRPMs int)
	End(payload Payload, status DownloadStatus, errMsg string) error
}

// TransactionDisplay receives per-package transaction steps and rpm output.
// A nil pkg or ActionNone marks an empty callback from the engine.
type TransactionDisplay interface {
	Progress(pkg Package, action Action, tiDone, tiTotal, tsDone, tsTotal int64)
	ScriptOut(msgs []byte)
	Error(message string)
}

// Callbacks bundles the handlers registered for one transaction.
type Callbacks struct {
	Depsolve    DepsolveCallback
	Download    DownloadProgress
	Transaction TransactionDisplay
}

// Name is a Package identified only by its string form.
type Name string

func (n Name) String() string { return string(n) }

// Package replay drives package-manager callbacks from a recorded session.
//
// A session file lists engine callbacks in the order they fired:
//
//	id: 9d1c7c8e-...
//	events:
//	  - type: depsolve_start
//	  - type: package_added
//	    package: bash-5.1.8-6.el9.x86_64
//	    mode: u
//	  - type: download_start
//	    total_files: 2
//	    total_size: 4096
//	  - type: download_end
//	    package: bash-5.1.8-6.el9.x86_64
//	    size: "2048"
//	  - type: progress
//	    package: bash-5.1.8-6.el9.x86_64
//	    action: upgrade
//	    ts_done: 1
//	    ts_total: 2
package replay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/lanternops/rhelconvert/internal/pkgmanager"
)

// Event types understood by Replay.
const (
	EventDepsolveStart    = "depsolve_start"
	EventPackageAdded     = "package_added"
	EventDepsolveEnd      = "depsolve_end"
	EventDownloadStart    = "download_start"
	EventDownloadEnd      = "download_end"
	EventProgress         = "progress"
	EventScriptOut        = "scriptout"
	EventTransactionError = "error"
)

// Event is one recorded callback. Only the fields used by its type are set.
type Event struct {
	Type    string `yaml:"type"`
	Package string `yaml:"package,omitempty"`
	Mode    string `yaml:"mode,omitempty"`

	TotalFiles int   `yaml:"total_files,omitempty"`
	TotalSize  int64 `yaml:"total_size,omitempty"`
	TotalDRPMs int   `yaml:"total_drpms,omitempty"`

	// Size is kept as recorded; it is only read as a number when the
	// download callback asks for it.
	Size   string `yaml:"size,omitempty"`
	Status int    `yaml:"status,omitempty"`
	Error  string `yaml:"error,omitempty"`

	Action  string `yaml:"action,omitempty"`
	TIDone  int64  `yaml:"ti_done,omitempty"`
	TITotal int64  `yaml:"ti_total,omitempty"`
	TSDone  int64  `yaml:"ts_done,omitempty"`
	TSTotal int64  `yaml:"ts_total,omitempty"`

	Output  string `yaml:"output,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// Session is a recorded transaction.
type Session struct {
	ID     string  `yaml:"id,omitempty"`
	Events []Event `yaml:"events"`
}

// EventError reports the event that stopped a replay.
type EventError struct {
	Index int
	Type  string
	Err   error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// ErrUnknownEvent is returned for event types Replay does not know.
var ErrUnknownEvent = errors.New("unknown event type")

// Load reads a session file. Sessions without an id get a random one.
func Load(fs afero.Fs, path string) (*Session, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return &s, nil
}

// Replay invokes the callbacks for each event in order and stops at the
// first event that cannot be delivered.
func Replay(events []Event, cb pkgmanager.Callbacks) error {
	for i, ev := range events {
		if err := dispatch(ev, cb); err != nil {
			return &EventError{Index: i, Type: ev.Type, Err: err}
		}
	}
	return nil
}

func dispatch(ev Event, cb pkgmanager.Callbacks) error {
	switch ev.Type {
	case EventDepsolveStart:
		cb.Depsolve.Start()
	case EventPackageAdded:
		cb.Depsolve.PackageAdded(pkgmanager.Name(ev.Package), ev.Mode)
	case EventDepsolveEnd:
		cb.Depsolve.End()
	case EventDownloadStart:
		cb.Download.Start(ev.TotalFiles, ev.TotalSize, ev.TotalDRPMs)
	case EventDownloadEnd:
		payload := recordedPayload{name: ev.Package, size: ev.Size}
		return cb.Download.End(payload, pkgmanager.DownloadStatus(ev.Status), ev.Error)
	case EventProgress:
		action := pkgmanager.ActionNone
		if ev.Action != "" {
			a, ok := pkgmanager.ParseAction(strings.ToLower(ev.Action))
			if !ok {
				return fmt.Errorf("unknown action %q", ev.Action)
			}
			action = a
		}
		var pkg pkgmanager.Package
		if ev.Package != "" {
			pkg = pkgmanager.Name(ev.Package)
		}
		cb.Transaction.Progress(pkg, action, ev.TIDone, ev.TITotal, ev.TSDone, ev.TSTotal)
	case EventScriptOut:
		cb.Transaction.ScriptOut([]byte(ev.Output))
	case EventTransactionError:
		cb.Transaction.Error(ev.Message)
	default:
		return fmt.Errorf("%w %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

type recordedPayload struct {
	name string
	size string
}

func (p recordedPayload) String() string { return p.name }

func (p recordedPayload) DownloadSize() (int64, error) {
	if p.size == "" {
		return 0, nil
	}
	return strconv.ParseInt(strings.TrimSpace(p.size), 10, 64)
}

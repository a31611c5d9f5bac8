package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DefaultMaxSizeMB caps the log file when FileOptions.MaxSizeMB is unset.
const DefaultMaxSizeMB = 20

// FileOptions describes the log file kept next to the console output.
type FileOptions struct {
	Path      string
	MaxSizeMB int
	// MaxBackups is the number of rolled files (path.1 ... path.N) kept.
	// Zero keeps none: a full log file is truncated.
	MaxBackups int
}

// Output sends every write to the console and, when a log file is open,
// to that file as well. The file is rolled once it would exceed its cap.
type Output struct {
	console io.Writer

	mu      sync.Mutex
	file    *os.File
	opts    FileOptions
	limit   int64
	written int64
}

// OpenOutput returns an Output writing to console. An empty opts.Path
// disables the log file.
func OpenOutput(console io.Writer, opts FileOptions) (*Output, error) {
	o := &Output{console: console, opts: opts}
	if opts.Path == "" {
		return o, nil
	}

	if o.opts.MaxSizeMB <= 0 {
		o.opts.MaxSizeMB = DefaultMaxSizeMB
	}
	if o.opts.MaxBackups < 0 {
		o.opts.MaxBackups = 0
	}
	o.limit = int64(o.opts.MaxSizeMB) << 20

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

// HasFile reports whether a log file is attached.
func (o *Output) HasFile() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.file != nil
}

// Write writes p to the console first. A console failure is returned
// without touching the file.
func (o *Output) Write(p []byte) (int, error) {
	if _, err := o.console.Write(p); err != nil {
		return 0, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file == nil {
		return len(p), nil
	}

	if o.written > 0 && o.written+int64(len(p)) > o.limit {
		if err := o.roll(); err != nil {
			return 0, fmt.Errorf("roll log file: %w", err)
		}
	}
	n, err := o.file.Write(p)
	o.written += int64(n)
	return n, err
}

// Close closes the log file, if any. The console is left open.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	o.file = nil
	return err
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	o.file = f
	o.written = info.Size()
	return nil
}

// roll closes the full file, shifts path.i to path.i+1 (dropping the
// oldest) and starts a fresh file at the configured path.
func (o *Output) roll() error {
	if err := o.file.Close(); err != nil {
		return err
	}
	o.file = nil

	keep := o.opts.MaxBackups
	if keep == 0 {
		if err := os.Remove(o.opts.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return o.open()
	}

	if err := os.Remove(o.rolledName(keep)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for i := keep - 1; i >= 0; i-- {
		if err := os.Rename(o.rolledName(i), o.rolledName(i+1)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return o.open()
}

// rolledName returns path for 0 and path.i otherwise.
func (o *Output) rolledName(i int) string {
	if i == 0 {
		return o.opts.Path
	}
	return fmt.Sprintf("%s.%d", o.opts.Path, i)
}

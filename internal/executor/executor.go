package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/lanternops/rhelconvert/internal/config"
	"github.com/lanternops/rhelconvert/internal/logging"
)

var log = logging.L("executor")

const (
	// DefaultTimeout applies when the config does not set one.
	DefaultTimeout = 600 * time.Second

	// MaxOutputSize is the maximum size of combined stdout/stderr to capture
	MaxOutputSize = 1024 * 1024 // 1MB
)

// Result is the outcome of a finished command.
type Result struct {
	Args     []string
	ExitCode int
	Output   string
	Duration time.Duration
	TimedOut bool
}

// Runner runs a command to completion and reports its output and exit status.
type Runner interface {
	Run(ctx context.Context, args []string) (Result, error)
}

// Executor runs external commands with a timeout and bounded output capture.
type Executor struct {
	timeout   time.Duration
	maxOutput int
}

var _ Runner = (*Executor)(nil)

// New creates an Executor using the configured command timeout.
func New(cfg *config.Config) *Executor {
	timeout := DefaultTimeout
	if cfg != nil && cfg.CommandTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.CommandTimeoutSeconds) * time.Second
	}
	return &Executor{
		timeout:   timeout,
		maxOutput: MaxOutputSize,
	}
}

// Run executes args[0] with the remaining arguments. A non-zero exit status is
// reported through Result.ExitCode, not as an error; errors mean the command
// could not be started or was cut off by the timeout or ctx.
func (e *Executor) Run(ctx context.Context, args []string) (Result, error) {
	result := Result{Args: args, ExitCode: -1}
	if len(args) == 0 {
		return result, fmt.Errorf("no command given")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	log.Debug("calling command", "command", strings.Join(args, " "))

	var output bytes.Buffer
	w := &limitedWriter{buf: &output, limit: e.maxOutput}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = w
	cmd.Stderr = w
	// Output is parsed by callers; keep it untranslated.
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}

	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Output = output.String()

	if err == nil {
		result.ExitCode = 0
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.TimedOut = errors.Is(ctxErr, context.DeadlineExceeded)
		log.Warn("command interrupted", "command", args[0], "timedOut", result.TimedOut, "error", ctxErr)
		return result, fmt.Errorf("%s interrupted: %w", args[0], ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		log.Debug("command finished", "command", args[0], "exitCode", result.ExitCode)
		return result, nil
	}

	return result, fmt.Errorf("run %s: %w", args[0], err)
}

// limitedWriter wraps a buffer with a size limit
type limitedWriter struct {
	buf     *bytes.Buffer
	limit   int
	written int
}

// Write always reports len(p) so the copy goroutine in os/exec keeps
// draining the pipe once the limit is reached.
func (w *limitedWriter) Write(p []byte) (int, error) {
	total := len(p)
	if w.written >= w.limit {
		return total, nil
	}

	if remaining := w.limit - w.written; total > remaining {
		p = p[:remaining]
	}

	n, err := w.buf.Write(p)
	w.written += n
	if err != nil {
		return n, err
	}
	return total, nil
}

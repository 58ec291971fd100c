// Package runner executes shell command lines with a hard time limit.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	TimedOutMsg    = "Command timed out"

	// waitDelay bounds how long Wait blocks on pipes still held open by
	// children after the shell itself has been killed.
	waitDelay = 2 * time.Second
)

var (
	ErrTimeout     = errors.New("command timed out")
	ErrNonZeroExit = errors.New("command exited with non-zero status")
	ErrSpawn       = errors.New("command could not be run")
)

// Result is the outcome of a single command run. Stdout survives a
// non-zero exit but not a timeout or spawn fault; Stderr is only set on
// failure.
type Result struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	Err       error
}

// Runner abstracts command execution so handlers can be tested without
// docker or the scion CLI on the host.
type Runner interface {
	Run(ctx context.Context, command, dir string) Result
}

// ShellRunner runs command lines through `sh -c`.
type ShellRunner struct {
	Shell   string
	Dir     string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewShellRunner returns a runner rooted at dir. A zero timeout means
// DefaultTimeout.
func NewShellRunner(dir string, timeout time.Duration, logger *slog.Logger) *ShellRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShellRunner{
		Shell:   "sh",
		Dir:     dir,
		Timeout: timeout,
		Logger:  logger,
	}
}

// Run executes command in dir, or in the runner's Dir when dir is empty.
func (r *ShellRunner) Run(ctx context.Context, command, dir string) Result {
	if dir == "" {
		dir = r.Dir
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := r.result(ctx, err, stdout.String(), stderr.String())

	logger := r.Logger.With("command", command, "dir", dir, "duration", time.Since(start).Round(time.Millisecond))
	if res.Err != nil {
		logger.Warn("command failed", "error", res.Err)
	} else {
		logger.Debug("command finished")
	}
	return res
}

func (r *ShellRunner) result(ctx context.Context, err error, stdout, stderr string) Result {
	if err == nil {
		return Result{Succeeded: true, Stdout: stdout}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{
			Stderr: TimedOutMsg,
			Err:    fmt.Errorf("%w after %s", ErrTimeout, r.Timeout),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{
			Stdout: stdout,
			Stderr: stderr,
			Err:    fmt.Errorf("%w: exit code %d", ErrNonZeroExit, exitErr.ExitCode()),
		}
	}

	msg := err.Error()
	if s := strings.TrimSpace(stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	return Result{
		Stderr: msg,
		Err:    fmt.Errorf("%w: %v", ErrSpawn, err),
	}
}

// Package shell runs external commands and captures their outcome. It is
// the process boundary consumed by concrete state changers; the engine
// only ever sees the ChangeResult a changer builds from a shell.Result.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result captures the outcome of one command invocation.
type Result struct {
	// ExitCode is the command's exit code. Zero on success.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Duration is how long the command ran.
	Duration time.Duration
}

// Ok reports whether the command exited zero.
func (r *Result) Ok() bool {
	return r.ExitCode == 0
}

// ErrorText returns the most useful error text for a failed command:
// stderr when present, otherwise stdout.
func (r *Result) ErrorText() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner executes external commands. Changers depend on the interface so
// tests can substitute a fake that reports arbitrary exit codes.
type Runner interface {
	// Run executes name with args and captures the outcome. A non-zero
	// exit code is reported in the Result, not as an error; the error is
	// non-nil only when the command could not be started at all.
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// ExecRunner runs commands on the local machine via os/exec.
type ExecRunner struct{}

// NewExecRunner creates a local command runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (e *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("failed to execute %s: %w", name, err)
	}

	return result, nil
}

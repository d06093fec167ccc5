// Package exec runs external commands for the SDK: solver processes driven by
// the wire process transport and build commands issued by the validation
// harness. It wraps os/exec with a context-aware API that reports a non-zero
// exit code as data rather than an error, so callers can map exit status onto
// their own outcome taxonomy.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command describes one external process invocation.
type Command struct {
	// Path is the name or path of the executable (required).
	Path string

	// Args are the command-line arguments, not including the executable.
	Args []string

	// Dir is the working directory. Empty means the caller's directory.
	Dir string

	// Env holds environment variables in "KEY=value" form. Nil inherits the
	// parent environment.
	Env []string

	// Timeout bounds the execution. Zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration
}

// String renders the full command line for logs and failure reports.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Result holds the observable output of a completed process.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte

	// Stderr is the captured standard error.
	Stderr []byte

	// ExitCode is the process exit code; 0 means the process reported
	// success.
	ExitCode int

	// Duration is the wall-clock execution time.
	Duration time.Duration
}

// Run executes the command and waits for it to finish.
//
// A process that starts and exits non-zero is not an error: the Result comes
// back with the exit code populated and the caller decides what that means.
// Run returns an error only when the process could not run at all (binary
// missing, permission denied) or when the context deadline or cancellation
// killed it.
func Run(ctx context.Context, c Command) (*Result, error) {
	if c.Path == "" {
		return nil, errors.New("exec: command path is required")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		// deadline and cancellation win over whatever exit state the kill
		// produced
		switch ctx.Err() {
		case context.DeadlineExceeded:
			return result, fmt.Errorf("exec: %s timed out after %v", c.Path, c.Timeout)
		case context.Canceled:
			return result, fmt.Errorf("exec: %s cancelled", c.Path)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		return result, fmt.Errorf("exec: %s failed to start: %w", c.Path, err)
	}

	return result, nil
}

// BinaryExists reports whether an executable is resolvable via the PATH.
func BinaryExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// BinaryPath resolves an executable name to its full path via the PATH.
func BinaryPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("exec: binary %q not found in PATH: %w", name, err)
	}
	return path, nil
}

package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/exec"
)

// BuildFunc produces a solver executable for a symbolic target name, or
// fails with an error the harness treats as fatal before any solve.
type BuildFunc func(ctx context.Context, target string) (string, error)

// BuildStep is the reference BuildFunc implementation: run a build command,
// then hand back the artifact path it is expected to produce. The target
// name is appended to the command line when non-empty.
//
// Example, building a solver with cargo:
//
//	step := harness.BuildStep{
//	    Command:  []string{"cargo", "build", "--profile", "ci", "--bin"},
//	    Artifact: "target/ci/up-server",
//	}
//	exe, err := step.Build(ctx, "up-server")
type BuildStep struct {
	// Command is the build command and its arguments (required).
	Command []string

	// Artifact is the executable path the build produces (required).
	Artifact string

	// Dir is the working directory for the build. Empty means the
	// caller's directory.
	Dir string

	// Timeout bounds the build. Zero means no timeout.
	Timeout time.Duration

	// Logger receives build logging. Nil uses slog.Default().
	Logger *slog.Logger
}

// Build runs the build command and returns the artifact path. A non-zero
// build status or a missing artifact is fatal.
func (b BuildStep) Build(ctx context.Context, target string) (string, error) {
	const op = "BuildStep.Build"

	if len(b.Command) == 0 {
		return "", sdk.NewConfigurationError(op,
			fmt.Errorf("%w: build command is required", sdk.ErrInvalidConfig))
	}
	if b.Artifact == "" {
		return "", sdk.NewConfigurationError(op,
			fmt.Errorf("%w: build artifact path is required", sdk.ErrInvalidConfig))
	}

	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	args := append([]string{}, b.Command[1:]...)
	if target != "" {
		args = append(args, target)
	}
	cmd := exec.Command{
		Path:    b.Command[0],
		Args:    args,
		Dir:     b.Dir,
		Timeout: b.Timeout,
	}

	logger.Info("building solver", "command", cmd.String(), "artifact", b.Artifact)

	result, err := exec.Run(ctx, cmd)
	if err != nil {
		return "", sdk.NewTransportError(op, err).
			WithContext(map[string]any{"command": cmd.String()})
	}
	if result.ExitCode != 0 {
		detail := strings.TrimSpace(string(result.Stderr))
		return "", sdk.NewTransportError(op,
			fmt.Errorf("build exited with status %d: %s", result.ExitCode, detail)).
			WithContext(map[string]any{"command": cmd.String()})
	}

	if _, err := os.Stat(b.Artifact); err != nil {
		return "", sdk.NewTransportError(op,
			fmt.Errorf("build succeeded but artifact is missing: %w", err)).
			WithContext(map[string]any{"command": cmd.String(), "artifact": b.Artifact})
	}

	return b.Artifact, nil
}

package wire

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/exec"
	"github.com/upf-go/sdk/solver"
)

// ProcessTransport speaks the solve protocol by launching a solver executable
// once per request:
//
//	<executable> --address <addr> --file-path <problem>
//
// The process exit status is the minimal response channel: exit 0 means the
// solver accepted the problem and produced a plan, non-zero means it did not.
// A solver that prints a JSON outcome envelope on stdout upgrades the signal
// to the full outcome taxonomy; the envelope wins over the exit status.
//
// ProcessTransport implements Transport.
type ProcessTransport struct {
	// Executable is the solver binary to launch (required).
	Executable string

	// Timeout bounds each solve process. Zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration

	// Logger receives per-request debug logging. Nil uses slog.Default().
	Logger *slog.Logger
}

// Command returns the command line issued for a request, as reported in
// harness failure output.
func (t *ProcessTransport) Command(req SolveRequest) exec.Command {
	return exec.Command{
		Path: t.Executable,
		Args: []string{
			"--address", req.Address,
			"--file-path", req.ProblemPath,
		},
		Timeout: t.Timeout,
	}
}

// Solve launches one solver process for the request and maps its observable
// behavior onto an outcome. A process that could not start at all is a
// transport error, never an outcome.
func (t *ProcessTransport) Solve(ctx context.Context, req SolveRequest) (solver.Outcome, error) {
	const op = "ProcessTransport.Solve"

	if t.Executable == "" {
		return solver.Outcome{}, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: executable is required", sdk.ErrInvalidConfig))
	}

	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := t.Command(req)
	logger.Debug("launching solver process",
		"command", cmd.String(),
		"address", req.Address,
		"file_path", req.ProblemPath)

	result, err := exec.Run(ctx, cmd)
	if err != nil {
		return solver.Outcome{}, sdk.NewTransportError(op, err).
			WithContext(map[string]any{
				"address":   req.Address,
				"file_path": req.ProblemPath,
				"command":   cmd.String(),
			})
	}

	if out, ok := parseEnvelope(result.Stdout); ok {
		logger.Debug("solver reported structured outcome",
			"status", out.Status.String(),
			"exit_code", result.ExitCode)
		return out, nil
	}

	if result.ExitCode == 0 {
		// coarse channel: the process accepted the problem and ran to plan
		return solver.PlanFound(nil), nil
	}

	reason := fmt.Sprintf("exit status %d", result.ExitCode)
	if detail := strings.TrimSpace(string(result.Stderr)); detail != "" {
		reason = fmt.Sprintf("%s: %s", reason, lastLine(detail))
	}
	return solver.Failed(reason), nil
}

// parseEnvelope scans process stdout for a JSON outcome envelope, last line
// first so progress output ahead of the envelope is ignored.
func parseEnvelope(stdout []byte) (solver.Outcome, bool) {
	lines := bytes.Split(bytes.TrimSpace(stdout), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		out, err := UnmarshalOutcome(line)
		if err != nil {
			continue
		}
		return out, true
	}
	return solver.Outcome{}, false
}

func lastLine(s string) string {
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}

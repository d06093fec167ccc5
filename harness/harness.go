package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/caps"
	"github.com/upf-go/sdk/solver"
	"github.com/upf-go/sdk/wire"
)

// DefaultAddress is the endpoint address handed to solver processes when the
// configuration does not override it.
const DefaultAddress = "0.0.0.0:2222"

// Config describes one validation run.
type Config struct {
	// Address is the endpoint address passed in each solve request.
	// Empty means DefaultAddress.
	Address string

	// Corpus is the set of problem instances to validate against
	// (required).
	Corpus Corpus

	// Transport carries solve requests to the solver. Nil means a
	// wire.ProcessTransport over Executable.
	Transport wire.Transport

	// Executable is the solver binary for the default process transport.
	// Required when Transport is nil and Build is nil.
	Executable string

	// Build, when set, runs before any solve and its artifact replaces
	// Executable. A build failure is fatal.
	Build BuildFunc

	// BuildTarget is the symbolic target name handed to Build.
	BuildTarget string

	// KindOf, when set, computes the capability descriptor attached to
	// each solve request from the instance name. Nil sends no descriptor.
	KindOf func(instance string) *caps.Kind

	// Timeout bounds each individual solve. Zero means no per-instance
	// timeout beyond the run context.
	Timeout time.Duration

	// Logger receives run progress. Nil uses slog.Default().
	Logger *slog.Logger

	// Tracer, when set, opens one span per instance.
	Tracer trace.Tracer
}

// InstanceResult records one instance attempt.
type InstanceResult struct {
	// Instance is the corpus name of the problem.
	Instance string

	// Path is the problem file handed to the solver.
	Path string

	// Command is the command line issued, when the transport launches
	// processes. Empty otherwise.
	Command string

	// Outcome is what the solver reported.
	Outcome solver.Outcome

	// Duration is wall-clock time spent on the attempt.
	Duration time.Duration
}

// Report is the record of one validation run. Results holds every instance
// attempted, in corpus order; a halted run holds fewer entries than the
// corpus has instances.
type Report struct {
	// RunID uniquely identifies the run in logs and artifacts.
	RunID string

	// Executable is the solver binary exercised, after any build step.
	Executable string

	// Results holds the attempts made, in order.
	Results []InstanceResult

	// Failed points at the result that halted the run, nil when every
	// instance passed.
	Failed *InstanceResult

	// Duration is wall-clock time of the whole run.
	Duration time.Duration
}

// Passed reports whether every corpus instance was attempted and produced a
// plan.
func (r *Report) Passed() bool {
	return r != nil && r.Failed == nil
}

// Harness drives one solver through the corpus, strictly in order, one
// instance at a time, halting at the first instance that does not produce a
// plan.
type Harness struct {
	config Config
}

// New validates the configuration and returns a harness.
func New(config Config) (*Harness, error) {
	const op = "harness.New"

	if err := config.Corpus.Validate(); err != nil {
		return nil, err
	}
	if config.Transport == nil && config.Executable == "" && config.Build == nil {
		return nil, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: one of transport, executable, or build is required", sdk.ErrInvalidConfig))
	}
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Harness{config: config}, nil
}

// Run executes the validation sequence. The returned error is non-nil exactly
// when the run did not pass: a build failure, a transport failure, or a first
// instance whose outcome is anything but a plan. The report is returned in
// every case that reaches the solve loop, so callers can see how far the run
// got.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	const op = "Harness.Run"

	cfg := h.config
	logger := cfg.Logger
	started := time.Now()

	report := &Report{
		RunID:      uuid.New().String(),
		Executable: cfg.Executable,
	}
	logger.Info("validation run starting",
		"run_id", report.RunID,
		"instances", len(cfg.Corpus.Instances))

	if cfg.Build != nil {
		artifact, err := cfg.Build(ctx, cfg.BuildTarget)
		if err != nil {
			return nil, sdk.NewTransportError(op, err).
				WithContext(map[string]any{"run_id": report.RunID})
		}
		cfg.Executable = artifact
		report.Executable = artifact
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &wire.ProcessTransport{
			Executable: cfg.Executable,
			Timeout:    cfg.Timeout,
			Logger:     logger,
		}
	}

	for _, instance := range cfg.Corpus.Instances {
		result, err := h.runInstance(ctx, transport, instance)
		report.Results = append(report.Results, result)

		if err != nil {
			report.Failed = &report.Results[len(report.Results)-1]
			report.Duration = time.Since(started)
			return report, sdk.NewTransportError(op, err).
				WithContext(map[string]any{
					"run_id":   report.RunID,
					"instance": instance,
				})
		}
		if !result.Outcome.Success() {
			report.Failed = &report.Results[len(report.Results)-1]
			report.Duration = time.Since(started)
			logger.Error("instance failed, halting run",
				"run_id", report.RunID,
				"instance", instance,
				"status", result.Outcome.Status.String(),
				"reason", result.Outcome.Reason)
			return report, sdk.NewSolveError(op,
				fmt.Errorf("instance %q: %s", instance, result.Outcome)).
				WithContext(map[string]any{
					"run_id":   report.RunID,
					"instance": instance,
					"status":   result.Outcome.Status.String(),
				})
		}

		logger.Info("instance passed",
			"run_id", report.RunID,
			"instance", instance,
			"duration", result.Duration)
	}

	report.Duration = time.Since(started)
	logger.Info("validation run passed",
		"run_id", report.RunID,
		"instances", len(report.Results),
		"duration", report.Duration)
	return report, nil
}

func (h *Harness) runInstance(ctx context.Context, transport wire.Transport, instance string) (InstanceResult, error) {
	cfg := h.config

	req := wire.SolveRequest{
		Address:     cfg.Address,
		ProblemPath: cfg.Corpus.Path(instance),
	}
	if cfg.KindOf != nil {
		req.Kind = cfg.KindOf(instance)
	}

	result := InstanceResult{
		Instance: instance,
		Path:     req.ProblemPath,
	}
	if pt, ok := transport.(*wire.ProcessTransport); ok {
		result.Command = pt.Command(req).String()
	}

	cfg.Logger.Info("solving instance",
		"instance", instance,
		"file_path", req.ProblemPath,
		"address", req.Address)

	if cfg.Tracer != nil {
		var span trace.Span
		ctx, span = cfg.Tracer.Start(ctx, "harness.solve")
		defer span.End()
	}

	solveCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	started := time.Now()
	outcome, err := transport.Solve(solveCtx, req)
	result.Duration = time.Since(started)
	result.Outcome = outcome
	return result, err
}

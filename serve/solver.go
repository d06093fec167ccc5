package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/solver"
	"github.com/upf-go/sdk/wire"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Solver starts a gRPC endpoint for a solver and serves requests until a
// shutdown signal is received or an error occurs. The solver is destroyed
// when serving stops, so the endpoint never leaks the backing process or
// connection.
//
// Example:
//
//	err := serve.Solver(mySolver,
//	    serve.WithAddress("0.0.0.0:2222"),
//	    serve.WithGracefulShutdown(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Solver(s solver.Solver, opts ...Option) error {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := RegisterSolver(srv, s); err != nil {
		srv.Stop()
		return err
	}

	defer func() {
		if err := s.Destroy(); err != nil {
			cfg.logger().Warn("failed to destroy solver", "solver", s.Name(), "error", err)
		}
	}()

	return srv.Serve(context.Background())
}

// RegisterSolver registers the upf.v1.Solver service backed by s on an
// existing Server and marks the service as serving. The solver must
// advertise the oneshot planner role; exposing any other solver behind the
// solve RPC is a configuration error.
func RegisterSolver(srv *Server, s solver.Solver) error {
	const op = "serve.RegisterSolver"

	if s == nil {
		return sdk.NewConfigurationError(op,
			fmt.Errorf("%w: solver cannot be nil", sdk.ErrInvalidConfig))
	}
	if !s.Roles().OneshotPlanner {
		return sdk.NewConfigurationError(op, sdk.ErrRoleMismatch).
			WithContext(map[string]any{"solver": s.Name(), "role": "oneshot_planner"})
	}

	svc := &solverService{
		solver: s,
		logger: srv.config.logger().With("solver", s.Name()),
		tracer: srv.config.Tracer,
	}
	srv.GRPCServer().RegisterService(&wire.ServiceDesc, svc)
	srv.HealthServer().SetServingStatus(wire.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return nil
}

// solverService adapts a solver.Solver to the upf.v1.Solver wire contract.
type solverService struct {
	solver solver.Solver
	logger *slog.Logger
	tracer trace.Tracer
}

// Solve handles one solve RPC: decode the request envelope, build the
// problem, run the solver, encode the outcome. Capability mismatches come
// back inside the outcome; only malformed envelopes and solver-side errors
// become RPC errors.
func (svc *solverService) Solve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := wire.DecodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if svc.tracer != nil {
		var span trace.Span
		ctx, span = svc.tracer.Start(ctx, "Solver.Solve")
		span.SetAttributes(
			attribute.String("upf.solver", svc.solver.Name()),
			attribute.String("upf.file_path", req.ProblemPath),
		)
		defer span.End()
	}

	problem := solver.Problem{
		Name: instanceName(req.ProblemPath),
		Path: req.ProblemPath,
		Kind: req.Kind,
	}

	outcome, err := svc.solver.Solve(ctx, problem)
	if err != nil {
		svc.logger.Error("solve failed", "instance", problem.Name, "error", err)
		if errors.Is(err, &sdk.Error{Kind: sdk.KindContract}) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	svc.logger.Info("solve request handled",
		"instance", problem.Name,
		"status", outcome.Status.String())

	return wire.EncodeOutcome(outcome)
}

// instanceName derives the instance name from a problem locator:
// "problems/matchcellar.bin" -> "matchcellar".
func instanceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package serve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/caps"
	"github.com/upf-go/sdk/solver"
	"github.com/upf-go/sdk/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func planningKind(t *testing.T) *caps.Kind {
	t.Helper()
	k := caps.NewKind()
	require.NoError(t, k.Set(caps.CategoryTyping, caps.TagFlatTyping))
	require.NoError(t, k.Set(caps.CategoryTyping, caps.TagHierarchicalTyping))
	require.NoError(t, k.Set(caps.CategoryConditions, caps.TagEqualityConditions))
	require.NoError(t, k.Set(caps.CategoryConditions, caps.TagUniversalConditions))
	return k.Finalize()
}

// startSolverEndpoint serves a solver on an ephemeral port and returns the
// bound address.
func startSolverEndpoint(t *testing.T, s solver.Solver) string {
	t.Helper()

	srv, err := NewServer(&Config{Address: "127.0.0.1:0", GracefulTimeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, RegisterSolver(srv, s))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return srv.Addr()
}

func newEndpointSolver(t *testing.T) solver.Solver {
	t.Helper()
	s, err := solver.New(solver.NewConfig().
		SetName("aries").
		SetCapabilities(planningKind(t)).
		SetRoles(solver.Roles{OneshotPlanner: true}).
		SetSolveFunc(func(ctx context.Context, p solver.Problem) (solver.Outcome, error) {
			switch p.Name {
			case "impossible":
				return solver.Unsolvable(), nil
			case "crash":
				return solver.Outcome{}, errors.New("search aborted")
			default:
				return solver.PlanFound([]byte("plan for " + p.Name)), nil
			}
		}))
	require.NoError(t, err)
	return s
}

func TestRegisterSolverValidates(t *testing.T) {
	srv, err := NewServer(&Config{Address: "127.0.0.1:0"})
	require.NoError(t, err)
	defer srv.Stop()

	err = RegisterSolver(srv, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrInvalidConfig))

	validator, err := solver.New(solver.NewConfig().
		SetName("val").
		SetRoles(solver.Roles{PlanValidator: true}))
	require.NoError(t, err)

	err = RegisterSolver(srv, validator)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrRoleMismatch))
	assert.True(t, errors.Is(err, &sdk.Error{Kind: sdk.KindConfiguration}))
}

func TestEndpointSolveRoundTrip(t *testing.T) {
	s := newEndpointSolver(t)
	addr := startSolverEndpoint(t, s)

	client, err := wire.Dial(addr)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.WaitReady(ctx))

	// a supported problem produces a plan
	needs := caps.NewKind()
	require.NoError(t, needs.Set(caps.CategoryTyping, caps.TagHierarchicalTyping))
	out, err := client.Solve(ctx, wire.SolveRequest{
		ProblemPath: "problems/hierarchical_blocks_world.bin",
		Kind:        needs.Finalize(),
	})
	require.NoError(t, err)
	assert.Equal(t, solver.StatusPlan, out.Status)
	assert.Equal(t, []byte("plan for hierarchical_blocks_world"), out.Plan)

	// an unsolvable instance stays distinguishable from a failure
	out, err = client.Solve(ctx, wire.SolveRequest{ProblemPath: "problems/impossible.bin"})
	require.NoError(t, err)
	assert.Equal(t, solver.StatusUnsolvable, out.Status)
}

func TestEndpointRejectsUnsupportedProblemAsOutcome(t *testing.T) {
	s := newEndpointSolver(t)
	addr := startSolverEndpoint(t, s)

	client, err := wire.Dial(addr)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.WaitReady(ctx))

	needs := caps.NewKind()
	require.NoError(t, needs.Set(caps.CategoryTime, caps.TagDurativeTime))

	out, err := client.Solve(ctx, wire.SolveRequest{
		ProblemPath: "problems/matchcellar.bin",
		Kind:        needs.Finalize(),
	})
	require.NoError(t, err, "unsupported is an outcome, not an RPC error")
	assert.Equal(t, solver.StatusUnsupported, out.Status)
	assert.NotEmpty(t, out.Reason)
}

func TestEndpointMapsSolverErrorsToRPCStatus(t *testing.T) {
	s := newEndpointSolver(t)
	addr := startSolverEndpoint(t, s)

	client, err := wire.Dial(addr)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.WaitReady(ctx))

	_, err = client.Solve(ctx, wire.SolveRequest{ProblemPath: "problems/crash.bin"})
	require.Error(t, err)

	var sdkErr *sdk.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, sdk.KindTransport, sdkErr.Kind)
	assert.Equal(t, codes.Internal, status.Code(sdkErr.Err))
}

func TestEndpointRejectsMalformedEnvelope(t *testing.T) {
	s := newEndpointSolver(t)
	addr := startSolverEndpoint(t, s)

	client, err := wire.Dial(addr)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.WaitReady(ctx))

	// an envelope without a file path
	_, err = client.Solve(ctx, wire.SolveRequest{})
	require.Error(t, err)

	var sdkErr *sdk.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, codes.InvalidArgument, status.Code(sdkErr.Err))
}

func TestInstanceName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"problems/matchcellar.bin", "matchcellar"},
		{"./planning/ext/up/bins/problems/basic.bin", "basic"},
		{"basic", "basic"},
		{"dir/nested/name.tar.gz", "name.tar"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, instanceName(tt.path), tt.path)
	}
}

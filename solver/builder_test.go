package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/caps"
)

func plannerKind(t *testing.T) *caps.Kind {
	t.Helper()
	k := caps.NewKind()
	require.NoError(t, k.Set(caps.CategoryTyping, caps.TagFlatTyping))
	require.NoError(t, k.Set(caps.CategoryTyping, caps.TagHierarchicalTyping))
	require.NoError(t, k.Set(caps.CategoryConditions, caps.TagEqualityConditions))
	require.NoError(t, k.Set(caps.CategoryConditions, caps.TagUniversalConditions))
	return k.Finalize()
}

func noopSolve(ctx context.Context, p Problem) (Outcome, error) {
	return PlanFound([]byte("plan")), nil
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{
			name: "nil config",
			cfg:  nil,
		},
		{
			name: "missing name",
			cfg: NewConfig().
				SetRoles(Roles{OneshotPlanner: true}).
				SetSolveFunc(noopSolve),
		},
		{
			name: "no roles",
			cfg: NewConfig().
				SetName("aries").
				SetSolveFunc(noopSolve),
		},
		{
			name: "oneshot planner without solve func",
			cfg: NewConfig().
				SetName("aries").
				SetRoles(Roles{OneshotPlanner: true}),
		},
		{
			name: "non-finalized capabilities",
			cfg: NewConfig().
				SetName("aries").
				SetRoles(Roles{OneshotPlanner: true}).
				SetSolveFunc(noopSolve).
				SetCapabilities(caps.NewKind()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, sdk.ErrInvalidConfig))
			assert.True(t, errors.Is(err, &sdk.Error{Kind: sdk.KindConfiguration}))
		})
	}
}

func TestNewRejectsUnrecognizedOptions(t *testing.T) {
	cfg := NewConfig().
		SetName("aries").
		SetRoles(Roles{OneshotPlanner: true}).
		SetSolveFunc(noopSolve).
		SetOption("heuristic", "hmax").
		SetOption("weightt", 1.5)

	s, err := New(cfg)
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrInvalidConfig))
	// both offending keys are reported
	assert.Contains(t, err.Error(), "heuristic")
	assert.Contains(t, err.Error(), "weightt")
}

func TestNewRejectsWrongOptionType(t *testing.T) {
	cfg := NewConfig().
		SetName("aries").
		SetRoles(Roles{OneshotPlanner: true}).
		SetSolveFunc(noopSolve).
		SetOption(OptionSolveTimeout, "30s")

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrInvalidConfig))
}

func TestNewBuildsReadySolver(t *testing.T) {
	kind := plannerKind(t)
	s, err := New(NewConfig().
		SetName("aries").
		SetDescription("test planner").
		SetCapabilities(kind).
		SetRoles(Roles{OneshotPlanner: true}).
		SetSolveFunc(noopSolve).
		SetOption(OptionSolveTimeout, 5*time.Second))
	require.NoError(t, err)

	assert.Equal(t, "aries", s.Name())
	assert.Equal(t, Roles{OneshotPlanner: true}, s.Roles())
	assert.Same(t, kind, s.Capabilities())

	out, err := s.Solve(context.Background(), Problem{Name: "basic"})
	require.NoError(t, err)
	assert.True(t, out.Success())

	require.NoError(t, s.Destroy())
}

func TestSolveTimeoutBoundsTheCall(t *testing.T) {
	s, err := New(NewConfig().
		SetName("slow").
		SetRoles(Roles{OneshotPlanner: true}).
		SetSolveFunc(func(ctx context.Context, p Problem) (Outcome, error) {
			<-ctx.Done()
			return Outcome{}, ctx.Err()
		}).
		SetOption(OptionSolveTimeout, 20*time.Millisecond))
	require.NoError(t, err)
	defer s.Destroy()

	start := time.Now()
	_, err = s.Solve(context.Background(), Problem{Name: "basic"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}

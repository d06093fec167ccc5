package sdk

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestSentinelErrors verifies that all sentinel errors are defined correctly.
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "ErrInvalidConfig",
			err:  ErrInvalidConfig,
			want: "invalid configuration",
		},
		{
			name: "ErrDuplicateSolver",
			err:  ErrDuplicateSolver,
			want: "duplicate solver name",
		},
		{
			name: "ErrSolverNotFound",
			err:  ErrSolverNotFound,
			want: "solver not found",
		},
		{
			name: "ErrUnsupportedProblem",
			err:  ErrUnsupportedProblem,
			want: "problem not supported by solver",
		},
		{
			name: "ErrSolverDestroyed",
			err:  ErrSolverDestroyed,
			want: "solver already destroyed",
		},
		{
			name: "ErrRoleMismatch",
			err:  ErrRoleMismatch,
			want: "solver does not advertise this role",
		},
		{
			name: "ErrNoPlan",
			err:  ErrNoPlan,
			want: "no plan produced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("sentinel error %s is nil", tt.name)
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("error message = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestErrorFormatting verifies the Error() method formatting.
func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "basic error",
			err: &Error{
				Op:   "Client.Solve",
				Kind: KindTransport,
				Err:  errors.New("connection refused"),
			},
			want: "sdk: Client.Solve (transport): connection refused",
		},
		{
			name: "nil underlying error",
			err: &Error{
				Op:   "Harness.Run",
				Kind: KindInternal,
			},
			want: "sdk: Harness.Run: internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorContextFormatting(t *testing.T) {
	err := NewTransportError("Client.Solve", errors.New("connection refused")).
		WithContext(map[string]any{"address": "127.0.0.1:2222"})

	msg := err.Error()
	if !strings.Contains(msg, "address:127.0.0.1:2222") {
		t.Errorf("expected context in message, got %q", msg)
	}
	if !strings.Contains(msg, "(transport)") {
		t.Errorf("expected kind in message, got %q", msg)
	}
}

// TestErrorIs verifies errors.Is matching on sentinels and kinds.
func TestErrorIs(t *testing.T) {
	destroyed := NewContractError("Solver.Solve", ErrSolverDestroyed)

	if !errors.Is(destroyed, ErrSolverDestroyed) {
		t.Error("expected match on wrapped sentinel")
	}
	if errors.Is(destroyed, ErrRoleMismatch) {
		t.Error("did not expect match on unrelated sentinel")
	}

	// Kind-only target matches any operation with that kind
	if !errors.Is(destroyed, &Error{Kind: KindContract}) {
		t.Error("expected match on kind-only target")
	}
	if errors.Is(destroyed, &Error{Kind: KindTransport}) {
		t.Error("did not expect match on a different kind")
	}

	// Op-qualified target matches only that operation
	if !errors.Is(destroyed, &Error{Op: "Solver.Solve", Kind: KindContract}) {
		t.Error("expected match on op-qualified target")
	}
	if errors.Is(destroyed, &Error{Op: "Solver.Destroy", Kind: KindContract}) {
		t.Error("did not expect match on a different op")
	}
}

// TestErrorUnwrap verifies errors.As and Unwrap through wrapping layers.
func TestErrorUnwrap(t *testing.T) {
	inner := NewUnsupportedError("Solver.Solve", ErrUnsupportedProblem)
	wrapped := fmt.Errorf("instance basic: %w", inner)

	var sdkErr *Error
	if !errors.As(wrapped, &sdkErr) {
		t.Fatal("expected errors.As to find *Error")
	}
	if sdkErr.Kind != KindUnsupported {
		t.Errorf("kind = %q, want %q", sdkErr.Kind, KindUnsupported)
	}
	if !errors.Is(wrapped, ErrUnsupportedProblem) {
		t.Error("expected sentinel to be reachable through wrapping")
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	orig := NewSolveError("Solver.Solve", ErrNoPlan)
	derived := orig.WithContext(map[string]any{"instance": "matchcellar"})

	if len(orig.Context) != 0 {
		t.Errorf("original context mutated: %+v", orig.Context)
	}
	if derived.Context["instance"] != "matchcellar" {
		t.Errorf("derived context missing entry: %+v", derived.Context)
	}
}

package solver

import (
	"context"

	"github.com/upf-go/sdk/caps"
)

// Roles describes which planning roles a solver fulfills. A solver advertises
// its roles once, at construction, and must not be invoked for a role it does
// not advertise.
type Roles struct {
	// OneshotPlanner indicates the solver accepts a problem and produces a
	// plan-or-failure outcome in a single call.
	OneshotPlanner bool

	// PlanValidator indicates the solver can check an existing plan against
	// a problem.
	PlanValidator bool

	// Grounder indicates the solver can ground a lifted problem.
	Grounder bool
}

// Any reports whether at least one role is advertised.
func (r Roles) Any() bool {
	return r.OneshotPlanner || r.PlanValidator || r.Grounder
}

// Problem identifies one planning problem instance to solve. The payload
// itself stays opaque to the SDK: Path locates the serialized encoding, and
// Kind carries the capability requirements computed from it.
type Problem struct {
	// Name is the instance name, used in logs and failure reports.
	Name string

	// Path locates the serialized problem payload (a file path in the
	// reference deployment, an opaque locator in general).
	Path string

	// Kind is the capability descriptor computed from the problem.
	// A nil Kind asserts no requirements.
	Kind *caps.Kind
}

// Solver is the interface a pluggable planning solver implements.
//
// Name and Capabilities are static: deterministic, callable before any solve,
// stable for the lifetime of the instance. Solve may block for the duration
// of external computation and must honor context cancellation where the
// backend permits it. Destroy releases any process, socket, or file handle
// the solver holds; it is safe to call at most once per instance, and a
// second call is an idempotent no-op.
type Solver interface {
	// Name returns the unique identifier for the solver. Non-empty, stable,
	// used as the registry key.
	Name() string

	// Capabilities returns the solver's static capability advertisement.
	Capabilities() *caps.Kind

	// Roles returns the roles this solver advertises.
	Roles() Roles

	// Solve attempts the problem and returns a tagged outcome.
	// The returned error is reserved for contract violations and solver
	// crashes; "no plan exists" and "problem unsupported" are outcomes,
	// not errors.
	Solve(ctx context.Context, p Problem) (Outcome, error)

	// Destroy releases resources held by the solver.
	Destroy() error
}

// SolveFunc is the function a built solver runs for each supported problem.
type SolveFunc func(ctx context.Context, p Problem) (Outcome, error)

// DestroyFunc releases backend resources when a built solver is destroyed.
type DestroyFunc func() error

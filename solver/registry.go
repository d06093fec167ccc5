package solver

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/upf-go/sdk"
)

// Registry tracks solvers by name within a process.
//
// Registration resolves each solver's roles and capability advertisement
// once, so clients can select a solver for a problem without touching the
// backend. A duplicate name is a configuration error at registration time.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	solvers map[string]Solver
}

// NewRegistry creates an empty solver registry.
func NewRegistry() *Registry {
	return &Registry{solvers: make(map[string]Solver)}
}

// Register adds a solver under its name. An empty name, a solver with no
// advertised role, or a name already taken is rejected.
func (r *Registry) Register(s Solver) error {
	const op = "Registry.Register"

	if s == nil {
		return sdk.NewConfigurationError(op,
			fmt.Errorf("%w: solver cannot be nil", sdk.ErrInvalidConfig))
	}
	name := s.Name()
	if name == "" {
		return sdk.NewConfigurationError(op,
			fmt.Errorf("%w: solver name cannot be empty", sdk.ErrInvalidConfig))
	}
	if !s.Roles().Any() {
		return sdk.NewConfigurationError(op,
			fmt.Errorf("%w: solver %q advertises no role", sdk.ErrInvalidConfig, name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.solvers[name]; exists {
		return sdk.NewConfigurationError(op, sdk.ErrDuplicateSolver).
			WithContext(map[string]any{"solver": name})
	}
	r.solvers[name] = s
	return nil
}

// Lookup returns the solver registered under name.
func (r *Registry) Lookup(name string) (Solver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.solvers[name]
	if !ok {
		return nil, &sdk.Error{
			Op:      "Registry.Lookup",
			Kind:    sdk.KindConfiguration,
			Err:     sdk.ErrSolverNotFound,
			Context: map[string]any{"solver": name},
		}
	}
	return s, nil
}

// List returns all registered solvers sorted by name.
func (r *Registry) List() []Solver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.solvers))
	for name := range r.solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Solver, 0, len(names))
	for _, name := range names {
		out = append(out, r.solvers[name])
	}
	return out
}

// Select returns the registered oneshot planners whose advertisement supports
// the given problem kind, sorted by name. An empty result is not an error;
// the caller decides whether that is fatal.
func (r *Registry) Select(p Problem) []Solver {
	var out []Solver
	for _, s := range r.List() {
		if !s.Roles().OneshotPlanner {
			continue
		}
		if s.Capabilities().Supports(p.Kind) {
			out = append(out, s)
		}
	}
	return out
}

// DestroyAll destroys every registered solver and empties the registry.
// Destruction continues past individual failures; the joined error reports
// all of them.
func (r *Registry) DestroyAll() error {
	r.mu.Lock()
	solvers := r.solvers
	r.solvers = make(map[string]Solver)
	r.mu.Unlock()

	var errs []error
	for name, s := range solvers {
		if err := s.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

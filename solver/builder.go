package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/caps"
)

// Recognized keys for Config.SetOption. Anything else fails construction.
const (
	// OptionSolveTimeout bounds each Solve call. Value: time.Duration.
	OptionSolveTimeout = "solve_timeout"
)

// Config holds the configuration for building a solver.
// Use NewConfig to create a new configuration, then use the setter methods
// to configure the solver before calling New to build it.
type Config struct {
	name        string
	description string
	kind        *caps.Kind
	roles       Roles
	solveFunc   SolveFunc
	destroyFunc DestroyFunc
	options     map[string]any
}

// NewConfig creates a new solver configuration with default values.
func NewConfig() *Config {
	return &Config{options: make(map[string]any)}
}

// SetName sets the solver's unique name.
func (c *Config) SetName(name string) *Config {
	c.name = name
	return c
}

// SetDescription sets the solver's human-readable description.
func (c *Config) SetDescription(desc string) *Config {
	c.description = desc
	return c
}

// SetCapabilities sets the solver's static capability advertisement.
// The Kind must be finalized before the solver is built.
func (c *Config) SetCapabilities(kind *caps.Kind) *Config {
	c.kind = kind
	return c
}

// SetRoles sets the roles the solver advertises.
func (c *Config) SetRoles(roles Roles) *Config {
	c.roles = roles
	return c
}

// SetSolveFunc sets the function run for each supported problem.
// Required when the solver advertises the oneshot planner role.
func (c *Config) SetSolveFunc(fn SolveFunc) *Config {
	c.solveFunc = fn
	return c
}

// SetDestroyFunc sets the function run once when the solver is destroyed.
func (c *Config) SetDestroyFunc(fn DestroyFunc) *Config {
	c.destroyFunc = fn
	return c
}

// SetOption sets a named configuration option. Keys outside the recognized
// set make New fail; they are never silently ignored.
func (c *Config) SetOption(key string, value any) *Config {
	c.options[key] = value
	return c
}

// New builds a Solver from the configuration, validating it fail-fast.
// A configuration with an unrecognized option key, a missing name, no
// advertised role, or a non-finalized capability kind is rejected before
// any solve can be attempted.
func New(cfg *Config) (Solver, error) {
	const op = "solver.New"

	if cfg == nil {
		return nil, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: config cannot be nil", sdk.ErrInvalidConfig))
	}
	if cfg.name == "" {
		return nil, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: solver name is required", sdk.ErrInvalidConfig))
	}
	if !cfg.roles.Any() {
		return nil, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: solver %q advertises no role", sdk.ErrInvalidConfig, cfg.name))
	}
	if cfg.roles.OneshotPlanner && cfg.solveFunc == nil {
		return nil, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: solver %q is a oneshot planner but has no solve function",
				sdk.ErrInvalidConfig, cfg.name))
	}
	if cfg.kind != nil && !cfg.kind.Final() {
		return nil, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: capability kind of solver %q is not finalized",
				sdk.ErrInvalidConfig, cfg.name))
	}

	s := &builtSolver{
		name:        cfg.name,
		description: cfg.description,
		kind:        cfg.kind,
		roles:       cfg.roles,
		solveFunc:   cfg.solveFunc,
		destroyFunc: cfg.destroyFunc,
	}

	var unknown []string
	for key, value := range cfg.options {
		switch key {
		case OptionSolveTimeout:
			d, ok := value.(time.Duration)
			if !ok {
				return nil, sdk.NewConfigurationError(op,
					fmt.Errorf("%w: option %s wants a time.Duration, got %T",
						sdk.ErrInvalidConfig, key, value))
			}
			s.timeout = d
		default:
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: unrecognized options %v for solver %q",
				sdk.ErrInvalidConfig, unknown, cfg.name))
	}

	return s, nil
}

// builtSolver is the Solver produced by New. It owns the lifecycle state
// machine: Ready after New, Destroyed after the first Destroy.
type builtSolver struct {
	name        string
	description string
	kind        *caps.Kind
	roles       Roles
	solveFunc   SolveFunc
	destroyFunc DestroyFunc
	timeout     time.Duration

	mu        sync.Mutex
	destroyed bool
}

func (s *builtSolver) Name() string {
	return s.name
}

func (s *builtSolver) Description() string {
	return s.description
}

func (s *builtSolver) Capabilities() *caps.Kind {
	return s.kind
}

func (s *builtSolver) Roles() Roles {
	return s.roles
}

// Solve runs the configured solve function for a supported problem.
//
// Calls on a destroyed solver or on a solver that is not a oneshot planner
// are contract violations and return an error. A problem whose requirements
// are not subsumed by the advertisement returns an Unsupported outcome with
// a nil error: the capability gate holds even when the caller skipped it.
func (s *builtSolver) Solve(ctx context.Context, p Problem) (Outcome, error) {
	const op = "Solver.Solve"

	s.mu.Lock()
	destroyed := s.destroyed
	s.mu.Unlock()
	if destroyed {
		return Outcome{}, sdk.NewContractError(op, sdk.ErrSolverDestroyed).
			WithContext(map[string]any{"solver": s.name})
	}
	if !s.roles.OneshotPlanner {
		return Outcome{}, sdk.NewContractError(op, sdk.ErrRoleMismatch).
			WithContext(map[string]any{"solver": s.name, "role": "oneshot_planner"})
	}

	if !s.kind.Supports(p.Kind) {
		return Unsupported(fmt.Sprintf("problem %q requires [%s], solver %q supports [%s]",
			p.Name, p.Kind, s.name, s.kind)), nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.solveFunc(ctx, p)
	if err != nil {
		var sdkErr *sdk.Error
		if errors.As(err, &sdkErr) {
			return out, err
		}
		return out, sdk.NewSolveError(op, err).
			WithContext(map[string]any{"solver": s.name, "instance": p.Name})
	}
	return out, nil
}

// Destroy releases the solver's resources. The first call runs the
// configured destroy function; subsequent calls are no-ops.
func (s *builtSolver) Destroy() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil
	}
	s.destroyed = true
	s.mu.Unlock()

	if s.destroyFunc == nil {
		return nil
	}
	if err := s.destroyFunc(); err != nil {
		return sdk.NewSolveError("Solver.Destroy", err).
			WithContext(map[string]any{"solver": s.name})
	}
	return nil
}

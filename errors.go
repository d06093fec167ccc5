package sdk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common SDK error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates a constructor was given an invalid or
	// unrecognized configuration option.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDuplicateSolver indicates a solver name was registered twice.
	ErrDuplicateSolver = errors.New("duplicate solver name")

	// ErrSolverNotFound indicates the requested solver is not registered.
	ErrSolverNotFound = errors.New("solver not found")

	// ErrUnsupportedProblem indicates a problem's required capabilities are
	// not subsumed by the solver's advertised capabilities.
	ErrUnsupportedProblem = errors.New("problem not supported by solver")

	// ErrSolverDestroyed indicates a call was made on a solver after Destroy.
	ErrSolverDestroyed = errors.New("solver already destroyed")

	// ErrRoleMismatch indicates a solver was invoked for a role it does not
	// advertise, such as calling Solve on a solver that is not a oneshot planner.
	ErrRoleMismatch = errors.New("solver does not advertise this role")

	// ErrNoPlan indicates the solver ran to completion without producing a plan.
	ErrNoPlan = errors.New("no plan produced")
)

// Error kinds categorize errors by their type.
const (
	// KindConfiguration represents construction-time errors: unrecognized
	// options, missing required fields, duplicate registrations.
	KindConfiguration = "configuration"

	// KindUnsupported represents capability mismatches between a problem and
	// a solver.
	KindUnsupported = "unsupported"

	// KindSolve represents errors raised while a solver was running a problem.
	KindSolve = "solve"

	// KindTransport represents errors reaching a solver endpoint: failed
	// dials, failed process launches, broken connections.
	KindTransport = "transport"

	// KindContract represents programming errors: calls on destroyed solvers
	// or invocations of unadvertised roles.
	KindContract = "contract"

	// KindInternal represents internal SDK errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of error.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &Error{
//		Op:   "Registry.Register",
//		Kind: KindConfiguration,
//		Err:  ErrDuplicateSolver,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Client.Solve", "Harness.Run").
	Op string

	// Kind categorizes the error (e.g., KindConfiguration, KindTransport).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include the endpoint address, the problem locator, or other
	// information needed to reproduce the failure.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sdk: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("sdk: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("sdk: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on
// the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	// A target Error with a Kind (and optionally an Op) matches on those fields
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	// Delegate to underlying error
	return errors.Is(e.Err, target)
}

// WithContext returns a new Error with the provided context added.
// This is useful for attaching the information needed to reproduce a failure.
//
// Example:
//
//	err = err.WithContext(map[string]any{
//		"address":   "127.0.0.1:2222",
//		"file_path": "problems/matchcellar.bin",
//	})
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindConfiguration,
		Err:  err,
	}
}

// NewUnsupportedError creates a new Error with KindUnsupported.
func NewUnsupportedError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindUnsupported,
		Err:  err,
	}
}

// NewSolveError creates a new Error with KindSolve.
func NewSolveError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindSolve,
		Err:  err,
	}
}

// NewTransportError creates a new Error with KindTransport.
func NewTransportError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindTransport,
		Err:  err,
	}
}

// NewContractError creates a new Error with KindContract.
func NewContractError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindContract,
		Err:  err,
	}
}

// NewInternalError creates a new Error with KindInternal.
func NewInternalError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindInternal,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "connection", "solver"). If logger is nil, slog.Default() is used.
//
// Example usage:
//
//	defer sdk.CloseWithLog(client, logger, "gRPC connection")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}

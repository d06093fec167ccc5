// Package solver defines the pluggable solver abstraction.
//
// A Solver couples a stable identity with a static capability advertisement
// and an explicit solve/destroy lifecycle. Concrete backends are built with
// the Config builder and New, which rejects unrecognized configuration options
// at construction time, or by implementing the Solver interface directly.
//
// Solvers advertise the roles they fulfill (oneshot planner, plan validator,
// grounder) once, at construction. Invoking a role the solver never advertised
// is a contract violation reported as an error, as is any call after Destroy.
// A problem whose capability requirements are not subsumed by the solver's
// advertisement yields an Unsupported outcome even when the caller skipped the
// client-side capability gate.
//
// The Registry tracks solvers by name within a process. Duplicate names are a
// configuration error, not a runtime surprise.
package solver

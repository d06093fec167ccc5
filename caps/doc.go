// Package caps models the capability language spoken between planning problems
// and solvers.
//
// A Kind is a structured set of feature tags grouped by category: a problem's
// Kind states which features the problem requires, and a solver's Kind states
// which features the solver supports. Tags are drawn from a fixed, closed
// vocabulary per category; unknown categories or tags are rejected when set.
//
// Kinds are ordered by subsumption. A.SubsumedBy(B) holds when every category
// present in A has its tag set contained in B's set for that category, with
// categories absent from A passing trivially. A solver supports a problem
// exactly when the problem's Kind is subsumed by the solver's.
//
// A Kind is mutable only during its builder phase. Finalize marks the end of
// construction; subsequent Set calls fail, and the subsumption check never
// modifies either operand.
package caps

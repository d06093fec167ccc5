package solver

import (
	"fmt"

	"github.com/upf-go/sdk"
)

// Status tags the variant of a solve outcome. The four classes are
// distinguishable end to end; in particular "no plan exists" is never
// conflated with an empty plan or with a crash.
type Status int

const (
	// StatusFailure: the solver ran but crashed or could not produce a plan.
	// This is the zero value, so an Outcome that was never filled in reads
	// as a failure rather than a silent success.
	StatusFailure Status = iota

	// StatusPlan: the solver produced a plan.
	StatusPlan

	// StatusUnsolvable: the solver proved no plan exists.
	StatusUnsolvable

	// StatusUnsupported: the solver rejected the problem because its
	// required capabilities are not subsumed by the advertisement.
	StatusUnsupported
)

var statusNames = map[Status]string{
	StatusFailure:     "failure",
	StatusPlan:        "plan",
	StatusUnsolvable:  "unsolvable",
	StatusUnsupported: "unsupported",
}

// String returns the wire name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return StatusFailure, sdk.NewInternalError("ParseStatus",
		fmt.Errorf("unknown outcome status %q", name))
}

// Outcome is the tagged result of a solve attempt.
type Outcome struct {
	// Status selects the variant.
	Status Status

	// Plan is the serialized plan payload, present only for StatusPlan.
	// The SDK treats it as opaque bytes.
	Plan []byte

	// Reason carries detail for StatusUnsupported and StatusFailure.
	Reason string
}

// PlanFound builds a StatusPlan outcome carrying the serialized plan.
func PlanFound(plan []byte) Outcome {
	return Outcome{Status: StatusPlan, Plan: plan}
}

// Unsolvable builds a StatusUnsolvable outcome.
func Unsolvable() Outcome {
	return Outcome{Status: StatusUnsolvable}
}

// Unsupported builds a StatusUnsupported outcome with the given reason.
func Unsupported(reason string) Outcome {
	return Outcome{Status: StatusUnsupported, Reason: reason}
}

// Failed builds a StatusFailure outcome with the given reason.
func Failed(reason string) Outcome {
	return Outcome{Status: StatusFailure, Reason: reason}
}

// Success reports whether the solver produced a plan.
func (o Outcome) Success() bool {
	return o.Status == StatusPlan
}

// String renders the outcome for logs and failure reports.
func (o Outcome) String() string {
	switch o.Status {
	case StatusPlan:
		return fmt.Sprintf("plan (%d bytes)", len(o.Plan))
	case StatusUnsolvable:
		return "unsolvable"
	case StatusUnsupported:
		if o.Reason != "" {
			return "unsupported: " + o.Reason
		}
		return "unsupported"
	default:
		if o.Reason != "" {
			return "failure: " + o.Reason
		}
		return "failure"
	}
}

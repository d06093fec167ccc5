// Package harness validates a solver endpoint against a fixed corpus of
// serialized problem instances.
//
// The harness is strictly sequential: each instance is fully resolved before
// the next is submitted, each instance is attempted exactly once, and the run
// halts at the first instance that does not produce a plan. The failure
// report names the instance, the command or request issued, and the observed
// outcome, so a failing run can be reproduced by hand.
//
// An endpoint can be handed to the harness as an existing executable, as a
// build step that produces one, or as any wire.Transport for in-process
// validation.
package harness

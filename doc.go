// Package sdk provides a pluggable planning-solver protocol for Go.
//
// The SDK connects planning clients to heterogeneous solver backends. A client
// describes the features a problem requires, each solver advertises the features
// it supports, and the SDK negotiates between the two before any solve is
// attempted. Solves are exchanged with a running solver endpoint over a small
// request/response protocol, and a validation harness exercises an endpoint
// end-to-end against a fixed corpus of serialized problem instances.
//
// # Core Concepts
//
//   - Capability kinds: structured sets of feature tags describing what a
//     problem requires or a solver supports, ordered by subsumption (caps)
//   - Solvers: pluggable backends with a stable name, a static capability
//     advertisement, and an explicit solve/destroy lifecycle (solver)
//   - Solve protocol: the address + problem-locator request shape and the
//     tagged plan/unsolvable/unsupported/failure outcome (wire)
//   - Endpoints: long-running gRPC servers that expose a solver (serve)
//   - Validation: a strictly sequential harness that drives an endpoint
//     through a problem corpus and halts on the first failure (harness)
//
// # Getting Started
//
// A minimal solver endpoint:
//
//	kind := caps.NewKind()
//	kind.Set(caps.CategoryTyping, caps.TagFlatTyping)
//
//	s, err := solver.New(solver.NewConfig().
//		SetName("echo").
//		SetCapabilities(kind.Finalize()).
//		SetRoles(solver.Roles{OneshotPlanner: true}).
//		SetSolveFunc(mySolve))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Destroy()
//
//	err = serve.Solver(s, serve.WithAddress("127.0.0.1:2222"))
//
// And a client solving one problem against it:
//
//	client, err := wire.Dial("127.0.0.1:2222")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	outcome, err := client.Solve(ctx, wire.SolveRequest{
//		Address:     "127.0.0.1:2222",
//		ProblemPath: "problems/basic.bin",
//		Kind:        kind,
//	})
//
// All failures surface as *sdk.Error values that categorize the condition
// (configuration, unsupported, solve, transport, contract) and wrap a sentinel
// usable with errors.Is.
package sdk

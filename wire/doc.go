// Package wire implements the solve protocol between a client and a running
// solver endpoint.
//
// A request names an endpoint address and the locator of a serialized problem
// payload, plus the capability kind computed from that problem. The response
// is a tagged outcome: plan found, no plan exists, problem unsupported, or
// solver failure. The four classes never collapse into one signal.
//
// Two transports speak the protocol:
//
//   - Client exchanges structured request and outcome envelopes with a gRPC
//     endpoint (service upf.v1.Solver), so the full outcome survives the
//     process boundary.
//   - ProcessTransport drives a solver executable one process per request
//     with "--address <addr> --file-path <path>" and reads the exit status
//     as a coarse outcome signal. A solver that additionally prints a JSON
//     outcome envelope on stdout gets the same fidelity as the gRPC path.
//
// Both transports are synchronous: a request is fully resolved before the
// caller can submit the next one on the same value.
package wire

package wire

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/caps"
	"github.com/upf-go/sdk/solver"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service identity of a solver endpoint.
const (
	// ServiceName is the gRPC service exposed by a solver endpoint.
	ServiceName = "upf.v1.Solver"

	// SolveFullMethod is the full method name of the solve RPC.
	SolveFullMethod = "/upf.v1.Solver/Solve"
)

// Envelope field names shared by the gRPC and JSON encodings.
const (
	fieldAddress  = "address"
	fieldFilePath = "file_path"
	fieldKind     = "kind"
)

// SolveRequest is one solve exchange: where the solver endpoint lives, where
// the serialized problem lives, and what the problem requires. A request is
// constructed fresh per solve call and not retained.
type SolveRequest struct {
	// Address is the endpoint identifier, host:port in the reference
	// deployment.
	Address string

	// ProblemPath is the opaque locator of the serialized problem payload.
	ProblemPath string

	// Kind is the capability descriptor computed from the problem.
	Kind *caps.Kind
}

// Transport submits solve requests to an endpoint. Implementations are
// synchronous; Solve blocks for the duration of external computation with no
// implicit timeout beyond the caller's context.
//
// The error return is reserved for transport-level trouble (endpoint
// unreachable, process failed to launch). Everything the solver itself had
// to say comes back in the Outcome.
type Transport interface {
	Solve(ctx context.Context, req SolveRequest) (solver.Outcome, error)
}

// SolverServer is the server-side contract of the upf.v1.Solver service.
// The serve package implements it on top of a solver.Solver.
type SolverServer interface {
	Solve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc is the gRPC service descriptor of a solver endpoint. Request
// and response travel as structpb.Struct envelopes, so the service needs no
// generated message types on either side.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Solve",
			Handler:    solveHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "upf/v1/solver.proto",
}

func solveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SolverServer).Solve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SolveFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SolverServer).Solve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// EncodeRequest renders a SolveRequest as a wire envelope.
func EncodeRequest(req SolveRequest) (*structpb.Struct, error) {
	payload := map[string]any{
		fieldAddress:  req.Address,
		fieldFilePath: req.ProblemPath,
	}
	if req.Kind != nil {
		kind := make(map[string]any)
		for cat, tags := range req.Kind.ToMap() {
			list := make([]any, len(tags))
			for i, tag := range tags {
				list[i] = tag
			}
			kind[cat] = list
		}
		payload[fieldKind] = kind
	}
	s, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, sdk.NewInternalError("wire.EncodeRequest", err)
	}
	return s, nil
}

// DecodeRequest parses a wire envelope back into a SolveRequest, validating
// the capability kind against the closed vocabulary.
func DecodeRequest(s *structpb.Struct) (SolveRequest, error) {
	const op = "wire.DecodeRequest"

	if s == nil {
		return SolveRequest{}, sdk.NewInternalError(op, fmt.Errorf("nil request envelope"))
	}
	fields := s.AsMap()

	req := SolveRequest{}
	req.Address, _ = fields[fieldAddress].(string)
	req.ProblemPath, _ = fields[fieldFilePath].(string)
	if req.ProblemPath == "" {
		return SolveRequest{}, sdk.NewInternalError(op, fmt.Errorf("request envelope has no %s", fieldFilePath))
	}

	if raw, ok := fields[fieldKind]; ok {
		rawKind, ok := raw.(map[string]any)
		if !ok {
			return SolveRequest{}, sdk.NewInternalError(op, fmt.Errorf("malformed %s field", fieldKind))
		}
		m := make(map[string][]string, len(rawKind))
		for cat, rawTags := range rawKind {
			list, ok := rawTags.([]any)
			if !ok {
				return SolveRequest{}, sdk.NewInternalError(op, fmt.Errorf("malformed tag list for category %q", cat))
			}
			tags := make([]string, 0, len(list))
			for _, rawTag := range list {
				tag, ok := rawTag.(string)
				if !ok {
					return SolveRequest{}, sdk.NewInternalError(op, fmt.Errorf("malformed tag in category %q", cat))
				}
				tags = append(tags, tag)
			}
			m[cat] = tags
		}
		kind, err := caps.FromMap(m)
		if err != nil {
			return SolveRequest{}, err
		}
		req.Kind = kind
	}

	return req, nil
}

// EncodeOutcome renders a solve outcome as a wire envelope.
func EncodeOutcome(o solver.Outcome) (*structpb.Struct, error) {
	payload := map[string]any{
		"status": o.Status.String(),
	}
	if len(o.Plan) > 0 {
		// structpb has no bytes value; the plan crosses as base64 the same
		// way encoding/json renders it
		payload["plan"] = base64Encode(o.Plan)
	}
	if o.Reason != "" {
		payload["reason"] = o.Reason
	}
	s, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, sdk.NewInternalError("wire.EncodeOutcome", err)
	}
	return s, nil
}

// DecodeOutcome parses a wire envelope back into a solve outcome.
func DecodeOutcome(s *structpb.Struct) (solver.Outcome, error) {
	const op = "wire.DecodeOutcome"

	if s == nil {
		return solver.Outcome{}, sdk.NewInternalError(op, fmt.Errorf("nil outcome envelope"))
	}
	fields := s.AsMap()

	name, _ := fields["status"].(string)
	status, err := solver.ParseStatus(name)
	if err != nil {
		return solver.Outcome{}, err
	}

	out := solver.Outcome{Status: status}
	out.Reason, _ = fields["reason"].(string)
	if encoded, ok := fields["plan"].(string); ok {
		plan, err := base64Decode(encoded)
		if err != nil {
			return solver.Outcome{}, sdk.NewInternalError(op, fmt.Errorf("malformed plan payload: %w", err))
		}
		out.Plan = plan
	}
	return out, nil
}

func base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// Envelope is the JSON form of a solve outcome, printed on stdout by solver
// processes that want to report more than their exit status.
type Envelope struct {
	Status string `json:"status"`
	Plan   []byte `json:"plan,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// MarshalOutcome renders a solve outcome as a single-line JSON envelope.
func MarshalOutcome(o solver.Outcome) ([]byte, error) {
	return json.Marshal(Envelope{
		Status: o.Status.String(),
		Plan:   o.Plan,
		Reason: o.Reason,
	})
}

// UnmarshalOutcome parses a JSON envelope back into a solve outcome.
func UnmarshalOutcome(data []byte) (solver.Outcome, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return solver.Outcome{}, sdk.NewInternalError("wire.UnmarshalOutcome", err)
	}
	status, err := solver.ParseStatus(env.Status)
	if err != nil {
		return solver.Outcome{}, err
	}
	return solver.Outcome{Status: status, Plan: env.Plan, Reason: env.Reason}, nil
}

package wire

import (
	"context"
	"time"

	"github.com/upf-go/sdk"
	"github.com/upf-go/sdk/solver"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client speaks the solve protocol with one gRPC solver endpoint. A Client
// owns its connection exclusively; Close releases it. Client implements
// Transport.
type Client struct {
	address string
	conn    *grpc.ClientConn
	health  grpc_health_v1.HealthClient
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	dialOptions []grpc.DialOption
}

// WithDialOptions appends extra gRPC dial options, e.g. TLS credentials.
// By default the client dials with insecure transport credentials, matching
// the reference deployment on localhost.
func WithDialOptions(opts ...grpc.DialOption) ClientOption {
	return func(c *clientConfig) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// Dial creates a client for the endpoint at address. The connection is
// established lazily; use WaitReady to block until the endpoint serves.
func Dial(address string, opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		dialOptions: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	conn, err := grpc.NewClient(address, cfg.dialOptions...)
	if err != nil {
		return nil, sdk.NewTransportError("wire.Dial", err).
			WithContext(map[string]any{"address": address})
	}

	return &Client{
		address: address,
		conn:    conn,
		health:  grpc_health_v1.NewHealthClient(conn),
	}, nil
}

// Address returns the endpoint address the client dials.
func (c *Client) Address() string {
	return c.address
}

// WaitReady blocks until the endpoint reports the solver service as serving,
// polling its health service. It returns a transport error when the context
// expires first.
func (c *Client) WaitReady(ctx context.Context) error {
	const op = "Client.WaitReady"

	for {
		resp, err := c.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{
			Service: ServiceName,
		})
		if err == nil && resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING {
			return nil
		}

		select {
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
			return sdk.NewTransportError(op, err).
				WithContext(map[string]any{"address": c.address})
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Solve submits one request and returns the endpoint's outcome. A request
// with an empty Address inherits the client's. RPC-level failures come back
// as transport errors carrying the address and problem locator.
func (c *Client) Solve(ctx context.Context, req SolveRequest) (solver.Outcome, error) {
	const op = "Client.Solve"

	if req.Address == "" {
		req.Address = c.address
	}

	in, err := EncodeRequest(req)
	if err != nil {
		return solver.Outcome{}, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, SolveFullMethod, in, out); err != nil {
		return solver.Outcome{}, sdk.NewTransportError(op, err).
			WithContext(map[string]any{
				"address":   req.Address,
				"file_path": req.ProblemPath,
			})
	}

	return DecodeOutcome(out)
}

// Close releases the client's connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

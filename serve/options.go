package serve

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a solver endpoint.
type Option func(*Config)

// WithAddress sets the host:port the endpoint binds.
// Use port 0 to automatically select an available port.
//
// Example:
//
//	serve.Solver(mySolver, serve.WithAddress("0.0.0.0:2222"))
func WithAddress(address string) Option {
	return func(c *Config) {
		c.Address = address
	}
}

// WithGracefulShutdown sets the maximum duration to wait for active
// requests to complete during graceful shutdown.
// After this timeout, the server will force shutdown.
//
// Example:
//
//	serve.Solver(mySolver, serve.WithGracefulShutdown(60*time.Second))
func WithGracefulShutdown(timeout time.Duration) Option {
	return func(c *Config) {
		c.GracefulTimeout = timeout
	}
}

// WithTLS enables TLS encryption for the gRPC server.
// Both certFile and keyFile must be valid paths to PEM-encoded files.
// If either path is empty, TLS will be disabled.
//
// Example:
//
//	serve.Solver(mySolver, serve.WithTLS("/etc/certs/server.crt", "/etc/certs/server.key"))
func WithTLS(certFile, keyFile string) Option {
	return func(c *Config) {
		c.TLSCertFile = certFile
		c.TLSKeyFile = keyFile
	}
}

// WithLogger sets the logger for endpoint lifecycle and per-request logging.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer recording one span per solve
// request. If not provided, tracing is disabled.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

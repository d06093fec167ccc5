// Package serve exposes a solver as a long-running gRPC endpoint.
//
// Solver() is the high-level entry point: it wraps a solver.Solver in the
// upf.v1.Solver service, registers the gRPC health service, and serves until
// a shutdown signal arrives. Server gives lower-level control over the same
// lifecycle for callers that register additional services.
//
// The address an endpoint binds must be free for the lifetime of one solver
// instance; it is released when the server stops and the solver is destroyed.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultAddress is the bind address of the reference localhost deployment.
const DefaultAddress = "127.0.0.1:2222"

// Config holds serve configuration: the bind address, graceful shutdown
// behavior, and optional TLS settings.
type Config struct {
	// Address is the host:port the endpoint binds. Use port 0 to let the
	// kernel pick one, then read it back with Server.Addr().
	// Default: 127.0.0.1:2222
	Address string

	// GracefulTimeout is the maximum duration to wait for active requests
	// to complete during graceful shutdown.
	// Default: 30 seconds
	GracefulTimeout time.Duration

	// TLSCertFile is the path to the TLS certificate file.
	// If empty, TLS is disabled.
	TLSCertFile string

	// TLSKeyFile is the path to the TLS private key file.
	// If empty, TLS is disabled.
	TLSKeyFile string

	// Logger receives lifecycle logging. Nil uses slog.Default().
	Logger *slog.Logger

	// Tracer records a span per solve request. Nil disables tracing.
	Tracer trace.Tracer
}

// DefaultConfig returns default serve configuration, suitable for the
// reference localhost deployment.
func DefaultConfig() *Config {
	return &Config{
		Address:         DefaultAddress,
		GracefulTimeout: 30 * time.Second,
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Server wraps a gRPC server with lifecycle management: startup, health
// registration, graceful shutdown.
type Server struct {
	grpcServer   *grpc.Server
	listener     net.Listener
	config       *Config
	healthServer *health.Server
}

// NewServer creates a gRPC server bound to the configured address and
// registers the health check service.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Address == "" {
		cfg.Address = DefaultConfig().Address
	}
	if cfg.GracefulTimeout == 0 {
		cfg.GracefulTimeout = DefaultConfig().GracefulTimeout
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	var opts []grpc.ServerOption
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to load TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer:   grpcServer,
		listener:     listener,
		config:       cfg,
		healthServer: healthServer,
	}, nil
}

// GRPCServer returns the underlying gRPC server so callers can register
// additional services before Serve.
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpcServer
}

// HealthServer returns the health check server so callers can set service
// health status.
func (s *Server) HealthServer() *health.Server {
	return s.healthServer
}

// Serve starts the gRPC server and blocks until shutdown.
// It handles graceful shutdown on SIGINT/SIGTERM; the context can be used
// to initiate shutdown programmatically.
func (s *Server) Serve(ctx context.Context) error {
	logger := s.config.logger()

	errCh := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	logger.Info("solver endpoint serving", "address", s.Addr())

	select {
	case <-ctx.Done():
		s.GracefulStop()
		return ctx.Err()
	case sig := <-sigCh:
		logger.Info("received signal, shutting down gracefully", "signal", sig.String())
		s.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop immediately stops the gRPC server, terminating active RPCs.
func (s *Server) Stop() {
	s.grpcServer.Stop()
}

// GracefulStop stops accepting new connections and waits for active RPCs to
// complete within the configured timeout, then forces a stop.
func (s *Server) GracefulStop() {
	logger := s.config.logger()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.GracefulTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Warn("graceful shutdown timeout, forcing stop")
		s.grpcServer.Stop()
	}
}

// Addr returns the address the server is listening on. This is the way to
// learn the bound port when the configured address used port 0.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Address
}

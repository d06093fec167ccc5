package serve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:2222", cfg.Address)
	assert.Equal(t, 30*time.Second, cfg.GracefulTimeout)
	assert.Empty(t, cfg.TLSCertFile)
	assert.Empty(t, cfg.TLSKeyFile)
}

func TestOptionsApply(t *testing.T) {
	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithAddress("0.0.0.0:2222"),
		WithGracefulShutdown(5 * time.Second),
		WithTLS("cert.pem", "key.pem"),
	} {
		opt(cfg)
	}

	assert.Equal(t, "0.0.0.0:2222", cfg.Address)
	assert.Equal(t, 5*time.Second, cfg.GracefulTimeout)
	assert.Equal(t, "cert.pem", cfg.TLSCertFile)
	assert.Equal(t, "key.pem", cfg.TLSKeyFile)
}

func TestNewServerBindsEphemeralPort(t *testing.T) {
	srv, err := NewServer(&Config{Address: "127.0.0.1:0"})
	require.NoError(t, err)
	defer srv.Stop()

	addr := srv.Addr()
	assert.NotEmpty(t, addr)
	assert.NotEqual(t, "127.0.0.1:0", addr, "Addr must report the bound port")
	assert.NotNil(t, srv.GRPCServer())
	assert.NotNil(t, srv.HealthServer())
}

func TestNewServerNilConfigUsesDefaults(t *testing.T) {
	// the default port may be taken; the assertion is only that nil config
	// does not panic and yields the default address
	srv, err := NewServer(nil)
	if err != nil {
		t.Skipf("default address unavailable: %v", err)
	}
	defer srv.Stop()
	assert.Contains(t, srv.Addr(), ":2222")
}

func TestNewServerFailsOnTakenAddress(t *testing.T) {
	first, err := NewServer(&Config{Address: "127.0.0.1:0"})
	require.NoError(t, err)
	defer first.Stop()

	_, err = NewServer(&Config{Address: first.Addr()})
	require.Error(t, err)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	srv, err := NewServer(&Config{Address: "127.0.0.1:0", GracefulTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	globetls "github.com/dd0wney/cluso-globe/pkg/tls"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func startServer(t *testing.T, gs *GracefulServer) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	addrCtx, addrCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer addrCancel()
	addr, err := gs.Addr(addrCtx)
	require.NoError(t, err)
	return fmt.Sprintf("http://%s", addr), cancel, done
}

func TestGracefulServer_RunAndCancel(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), WithShutdownTimeout(time.Second))
	base, cancel, done := startServer(t, gs)

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, gs.IsShuttingDown())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, gs.IsShuttingDown())
	select {
	case <-gs.ShutdownChannel():
	default:
		t.Error("shutdown channel not closed")
	}
}

func TestGracefulServer_SIGHUPReloads(t *testing.T) {
	reloaded := make(chan struct{}, 1)
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), WithReloadFunc(func() error {
		reloaded <- struct{}{}
		return nil
	}))
	_, cancel, done := startServer(t, gs)
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload function not called on SIGHUP")
	}
	assert.False(t, gs.IsShuttingDown(), "SIGHUP must not stop the server")
}

func TestGracefulServer_Reload(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler())

	assert.NoError(t, gs.Reload(), "no reload function is not an error")

	calls := 0
	gs.SetReloadFunc(func() error {
		calls++
		return nil
	})
	assert.NoError(t, gs.Reload())
	assert.Equal(t, 1, calls)

	boom := errors.New("dataset invalid")
	gs.SetReloadFunc(func() error { return boom })
	assert.ErrorIs(t, gs.Reload(), boom)
}

func TestGracefulServer_ShutdownIdempotent(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler())
	assert.NoError(t, gs.Shutdown(time.Second))
	assert.NoError(t, gs.Shutdown(time.Second))
	assert.True(t, gs.IsShuttingDown())
}

func TestGracefulServer_ListenError(t *testing.T) {
	gs := NewGracefulServer("256.0.0.1:bad", okHandler())
	err := gs.Run(context.Background())
	assert.Error(t, err)
}

func TestGracefulServer_ServesTLS(t *testing.T) {
	cert, err := globetls.GenerateSelfSigned([]string{"127.0.0.1"}, time.Hour)
	require.NoError(t, err)

	gs := NewGracefulServer("127.0.0.1:0", okHandler(),
		WithTLSConfig(&tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}))
	base, cancel, done := startServer(t, gs)
	defer func() {
		cancel()
		<-done
	}()

	roots := x509.NewCertPool()
	roots.AddCert(cert.Leaf)
	client := &http.Client{
		Timeout:   2 * time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: roots}},
	}

	resp, err := client.Get("https" + base[len("http"):] + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.TLS)
}

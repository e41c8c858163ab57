package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-globe/pkg/logging"
)

// DefaultShutdownTimeout bounds how long in-flight requests may drain.
const DefaultShutdownTimeout = 15 * time.Second

// ReloadFunc reloads configuration or data on SIGHUP.
type ReloadFunc func() error

// GracefulServer wraps an HTTP server with signal-driven graceful shutdown.
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
	shutdownTimeout time.Duration
	reloadFn        ReloadFunc
	reloadMu        sync.RWMutex
	addrCh          chan net.Addr
}

// Option customizes a GracefulServer.
type Option func(*GracefulServer)

// WithLogger sets the logger; defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(gs *GracefulServer) { gs.logger = l }
}

// WithShutdownTimeout overrides DefaultShutdownTimeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(gs *GracefulServer) { gs.shutdownTimeout = d }
}

// WithReloadFunc installs the SIGHUP handler.
func WithReloadFunc(fn ReloadFunc) Option {
	return func(gs *GracefulServer) { gs.reloadFn = fn }
}

// WithTLSConfig serves HTTPS with cfg; nil keeps plain HTTP.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(gs *GracefulServer) { gs.server.TLSConfig = cfg }
}

// NewGracefulServer creates a new graceful HTTP server. WriteTimeout leaves room
// for handlers that simulate latency.
func NewGracefulServer(addr string, handler http.Handler, opts ...Option) *GracefulServer {
	gs := &GracefulServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger:          logging.NewNopLogger(),
		shutdownCh:      make(chan struct{}),
		shutdownTimeout: DefaultShutdownTimeout,
		addrCh:          make(chan net.Addr, 1),
	}
	for _, opt := range opts {
		opt(gs)
	}
	return gs
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains.
// SIGHUP triggers Reload without stopping the server.
func (gs *GracefulServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", gs.server.Addr, err)
	}
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	gs.addrCh <- ln.Addr()

	errCh := make(chan error, 1)
	go func() {
		gs.logger.Info("HTTP server listening",
			logging.String("addr", ln.Addr().String()),
			logging.Bool("tls", gs.server.TLSConfig != nil))

		var err error
		if gs.server.TLSConfig != nil {
			// Certificates come from TLSConfig.
			err = gs.server.ServeTLS(ln, "", "")
		} else {
			err = gs.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-hupCh:
			gs.logger.Info("Received SIGHUP, reloading")
			_ = gs.Reload()
		case <-sigCtx.Done():
			gs.logger.Info("Shutdown requested")
			return gs.Shutdown(gs.shutdownTimeout)
		}
	}
}

// Addr blocks until the listener is bound and returns its address.
func (gs *GracefulServer) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case addr := <-gs.addrCh:
		gs.addrCh <- addr
		return addr, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown initiates a graceful shutdown. Only the first call has effect.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("Initiating graceful shutdown", logging.Duration("timeout", timeout))
		if err = gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("Error during shutdown", logging.Error(err))
			return
		}
		gs.logger.Info("Server shutdown complete")
	})
	return err
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetReloadFunc replaces the SIGHUP handler.
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// Reload runs the reload function, if any.
func (gs *GracefulServer) Reload() error {
	gs.reloadMu.RLock()
	fn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if fn == nil {
		gs.logger.Warn("Reload requested, but no reload function configured")
		return nil
	}

	timer := logging.StartTimer(gs.logger, "reload")
	if err := fn(); err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()
	return nil
}

// Package server runs the dashboard HTTP server with signal handling:
// SIGINT and SIGTERM drain connections and stop, SIGHUP reloads data.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/logging"
)

// DefaultShutdownTimeout bounds connection draining when none is configured
const DefaultShutdownTimeout = 30 * time.Second

// ReloadFunc reloads whatever the server presents, typically the data files
type ReloadFunc func() error

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	shutdownErr  error

	reloadFn ReloadFunc
	reloadMu sync.RWMutex

	addrMu sync.Mutex
	addr   net.Addr
	ready  chan struct{}
}

// NewGracefulServer wraps srv. A nil logger discards output; a
// non-positive timeout falls back to DefaultShutdownTimeout.
func NewGracefulServer(srv *http.Server, logger logging.Logger, shutdownTimeout time.Duration) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &GracefulServer{
		server:          srv,
		logger:          logger.With(logging.Component("server")),
		shutdownTimeout: shutdownTimeout,
		shutdownCh:      make(chan struct{}),
		ready:           make(chan struct{}),
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, a termination signal arrives or the listener fails. It
// returns once shutdown has completed.
func (gs *GracefulServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	return gs.Serve(ctx, ln)
}

// Serve is Start over an existing listener
func (gs *GracefulServer) Serve(ctx context.Context, ln net.Listener) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,  // Ctrl+C
		syscall.SIGTERM, // Termination signal (systemd, docker, k8s)
		syscall.SIGHUP,  // Reload data
	)
	defer signal.Stop(sigCh)

	// Signals are routed before Addr unblocks
	gs.addrMu.Lock()
	gs.addr = ln.Addr()
	gs.addrMu.Unlock()
	close(gs.ready)

	errCh := make(chan error, 1)
	go func() {
		gs.logger.Info("starting HTTP server", logging.String("addr", ln.Addr().String()))
		if err := gs.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return err
			}
			// Closed by an external Shutdown call
			<-gs.shutdownCh
			return gs.shutdownErr

		case <-ctx.Done():
			gs.logger.Info("context cancelled, starting graceful shutdown")
			return gs.Shutdown()

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				gs.logger.Info("received SIGHUP, reloading")
				if err := gs.Reload(); err != nil {
					gs.logger.Warn("reload failed", logging.Error(err))
				}
			default:
				gs.logger.Info("received signal, starting graceful shutdown", logging.String("signal", sig.String()))
				return gs.Shutdown()
			}
		}
	}
}

// Addr returns the listening address once Serve has started
func (gs *GracefulServer) Addr() net.Addr {
	<-gs.ready
	gs.addrMu.Lock()
	defer gs.addrMu.Unlock()
	return gs.addr
}

// Shutdown drains connections within the shutdown timeout. Later calls
// return the result of the first.
func (gs *GracefulServer) Shutdown() error {
	gs.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), gs.shutdownTimeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", gs.shutdownTimeout))

		if err := gs.server.Shutdown(ctx); err != nil {
			gs.shutdownErr = err
			gs.logger.Error("error during shutdown", logging.Error(err))
		} else {
			gs.logger.Info("server shutdown complete")
		}
		close(gs.shutdownCh)
	})
	<-gs.shutdownCh
	return gs.shutdownErr
}

// IsShuttingDown returns true if shutdown has completed
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown completes
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetReloadFunc sets the function to call on SIGHUP
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// Reload runs the configured reload function
func (gs *GracefulServer) Reload() error {
	gs.reloadMu.RLock()
	reloadFn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Info("reload requested, but no reload function configured")
		return nil
	}

	op := logging.StartTimer(gs.logger, "reload")
	if err := reloadFn(); err != nil {
		op.EndError(err)
		return err
	}
	op.End()
	return nil
}

// Package server implements the platform daemon: the gRPC PlatformService
// plus its HTTP surface (grpc-web, metrics and the admin plane).
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/kruzic-io/kruzic/internal/api/platformv1"
	"github.com/kruzic-io/kruzic/internal/daemon/identity"
	"github.com/kruzic-io/kruzic/internal/daemon/store"
	"github.com/kruzic-io/kruzic/internal/daemon/telemetry"
)

// Options configures a Server.
type Options struct {
	Host string
	// Port is the gRPC port; 0 picks a free one.
	Port int
	// HTTPPort is the grpc-web/admin port; 0 picks a free one, -1 disables it.
	HTTPPort  int
	Store     store.Store
	Players   *identity.Directory
	Tokens    *identity.Tokens
	Telemetry telemetry.Sink
	Logger    *zap.Logger
}

// Server is the daemon's gRPC and HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	listener     net.Listener
	httpListener net.Listener
	port         int
	httpPort     int

	opts      Options
	store     store.Store
	players   *identity.Directory
	faults    *FaultRegistry
	metrics   *Metrics
	telemetry telemetry.Sink
	ready     atomic.Int64
	logger    *zap.Logger
}

// New builds the server. No sockets are opened until Listen.
func New(opts Options) (*Server, error) {
	if opts.Store == nil || opts.Players == nil || opts.Tokens == nil {
		return nil, errors.New("store, players and tokens are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.Nop{}
	}

	s := &Server{
		opts:      opts,
		store:     opts.Store,
		players:   opts.Players,
		faults:    NewFaultRegistry(),
		metrics:   NewMetrics(),
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
	}

	resolver := &identity.Resolver{Players: opts.Players, Tokens: opts.Tokens}
	s.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(
		authInterceptor(resolver),
		s.observeInterceptor(),
		faultInterceptor(s.faults),
	))

	platformv1.RegisterPlatformServer(s.grpcServer, &platformService{
		store:   opts.Store,
		players: opts.Players,
		tokens:  opts.Tokens,
		metrics: s.metrics,
		ready:   &s.ready,
		logger:  opts.Logger.Named("platform"),
	})

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Listen opens the gRPC listener and, unless disabled, the HTTP listener.
func (s *Server) Listen(ctx context.Context) error {
	lc := &net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", net.JoinHostPort(s.opts.Host, fmt.Sprint(s.opts.Port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	if s.opts.HTTPPort >= 0 {
		httpListener, err := lc.Listen(ctx, "tcp", net.JoinHostPort(s.opts.Host, fmt.Sprint(s.opts.HTTPPort)))
		if err != nil {
			listener.Close()
			return fmt.Errorf("failed to listen for http: %w", err)
		}
		s.httpListener = httpListener
		s.httpPort = httpListener.Addr().(*net.TCPAddr).Port
	}
	return nil
}

// Port returns the gRPC port, valid after Listen.
func (s *Server) Port() int {
	return s.port
}

// HTTPPort returns the HTTP port, or -1 when the HTTP surface is disabled.
func (s *Server) HTTPPort() int {
	if s.httpListener == nil {
		return -1
	}
	return s.httpPort
}

// ReadyCount returns the number of ready notifications received.
func (s *Server) ReadyCount() int64 {
	return s.ready.Load()
}

// PlayerCount returns the number of players in the directory.
func (s *Server) PlayerCount() int {
	return s.players.Len()
}

// Serve serves both listeners until ctx is cancelled or one fails.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.grpcServer.Serve(s.listener)
	})
	if s.httpListener != nil {
		g.Go(func() error {
			if err := s.httpServer.Serve(s.httpListener); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		s.Stop()
		return nil
	})

	return g.Wait()
}

// ServeGRPC serves the gRPC API on lis. It is used by in-process tests.
func (s *Server) ServeGRPC(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Stop gracefully stops both servers.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown", zap.Error(err))
	}
	s.grpcServer.GracefulStop()
}

// RequestShutdown sends SIGINT to the current process to trigger a graceful shutdown.
func (s *Server) RequestShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}

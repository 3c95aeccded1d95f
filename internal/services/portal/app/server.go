// Package app hosts the portal service: the JSON API over HTTP plus a gRPC
// listener serving only the standard health service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sreedharv/ptrportal/internal/directory"
	"github.com/sreedharv/ptrportal/internal/platform/otel"
	"github.com/sreedharv/ptrportal/internal/platform/timeouts"
	"github.com/sreedharv/ptrportal/internal/services/portal/api/rest"
	"github.com/sreedharv/ptrportal/internal/services/portal/bank"
	"github.com/sreedharv/ptrportal/internal/services/portal/filing"
	"github.com/sreedharv/ptrportal/internal/services/portal/settlement"
	"github.com/sreedharv/ptrportal/internal/services/portal/storage/sqlite"
	"github.com/sreedharv/ptrportal/internal/services/portal/token"
)

const serviceName = "ptrportal"

// Config carries everything the portal server needs to start.
type Config struct {
	HTTPAddr   string
	HealthPort int
	DBPath     string
	JWTSecret  string
	TokenTTL   time.Duration
}

// Server hosts the portal service.
type Server struct {
	httpListener net.Listener
	httpServer   *http.Server
	grpcListener net.Listener
	grpcServer   *grpc.Server
	health       *health.Server
	store        *sqlite.Store
}

// New creates a configured portal server listening on the configured
// addresses.
func New(config Config) (*Server, error) {
	if strings.TrimSpace(config.JWTSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	store, err := openStore(config.DBPath)
	if err != nil {
		return nil, err
	}

	dir, err := directory.NewStatic()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build identity directory: %w", err)
	}

	tokens, err := token.NewService([]byte(config.JWTSecret), config.TokenTTL)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build token service: %w", err)
	}

	api := rest.NewServer(
		dir,
		tokens,
		bank.NewSimulator(dir),
		settlement.NewEngine(store),
		filing.NewService(store),
	)

	httpListener, err := net.Listen("tcp", config.HTTPAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on http addr %s: %w", config.HTTPAddr, err)
	}

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", config.HealthPort))
	if err != nil {
		_ = httpListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on health port %d: %w", config.HealthPort, err)
	}

	httpServer := &http.Server{
		Handler:           otelhttp.NewHandler(api.Handler(), "portal.http"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		httpListener: httpListener,
		httpServer:   httpServer,
		grpcListener: grpcListener,
		grpcServer:   grpcServer,
		health:       healthServer,
		store:        store,
	}, nil
}

// Addr returns the HTTP listener address.
func (s *Server) Addr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Run creates and serves a portal server until the context ends.
func Run(ctx context.Context, config Config) error {
	server, err := New(config)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the portal server and blocks until it stops or the context
// ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	otelShutdown, err := otel.Setup(ctx, serviceName)
	if err != nil {
		log.Printf("otel setup: %v", err)
		otelShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()
	defer s.closeStore()

	log.Printf("portal HTTP server listening at %v", s.httpListener.Addr())
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- s.httpServer.Serve(s.httpListener)
	}()

	log.Printf("portal health server listening at %v", s.grpcListener.Addr())
	grpcErr := make(chan error, 1)
	go func() {
		grpcErr <- s.grpcServer.Serve(s.grpcListener)
	}()

	shutdownHTTP := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}
	shutdownGRPC := func() {
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}

	handleGRPCErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve health gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		shutdownHTTP()
		shutdownGRPC()
		<-httpErr
		return handleGRPCErr(<-grpcErr)
	case err := <-httpErr:
		shutdownGRPC()
		<-grpcErr
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case err := <-grpcErr:
		shutdownHTTP()
		<-httpErr
		return handleGRPCErr(err)
	}
}

func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "portal.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open portal sqlite store: %w", err)
	}
	return store, nil
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close portal store: %v", err)
	}
}

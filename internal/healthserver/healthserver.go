// Package healthserver exposes the liveness endpoint and the Prometheus
// scrape endpoint over plain HTTP.
package healthserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server serves GET /health and GET /metrics. The health endpoint reports
// healthy for as long as the process is up; it does not inspect emitters.
type Server struct {
	logger   *zap.Logger
	addr     string
	routes   int
	server   *http.Server
	listener net.Listener
}

// healthResponse is the /health payload
type healthResponse struct {
	Status    string `json:"status"`
	Routes    int    `json:"routes"`
	Timestamp string `json:"timestamp"`
}

// New creates a health server bound to host:port reporting the given
// route count.
func New(logger *zap.Logger, host string, port int, routes int) (*Server, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if host == "" {
		return nil, errors.New("host cannot be empty")
	}

	return &Server{
		logger: logger.Named("health-server"),
		addr:   net.JoinHostPort(host, strconv.Itoa(port)),
		routes: routes,
	}, nil
}

// Start binds the listen address and begins serving in the background.
// The bind is synchronous so an address conflict surfaces here instead of
// after startup.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("Starting health server",
		zap.String("address", listener.Addr().String()),
		zap.Int("routes", s.routes))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Health server stopped unexpectedly", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound listen address. It is empty until Start succeeds.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server, waiting for in flight requests
// until the context expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping health server")

	if s.server == nil {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down health server: %w", err)
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Routes:    s.routes,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

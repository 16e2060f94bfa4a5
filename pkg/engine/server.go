package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/getmockd/mockconf/pkg/config"
	"github.com/getmockd/mockconf/pkg/mock"
)

// shutdownTimeout bounds Stop.
const shutdownTimeout = 5 * time.Second

// Server is the mock HTTP server.
type Server struct {
	cfg        *config.ServerConfiguration
	handler    *Handler
	log        *slog.Logger
	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
	running    bool
	startTime  time.Time
}

// NewServer creates a Server for mockCfg. A nil cfg uses
// config.DefaultServerConfiguration. mockCfg must have passed Validate.
func NewServer(cfg *config.ServerConfiguration, mockCfg *mock.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.DefaultServerConfiguration()
	}

	handlerOpts := []Option{
		WithBaseDir(cfg.BaseDir),
		WithMaxBodySize(int64(cfg.MaxBodySize)),
	}
	handler := NewHandler(mockCfg, append(handlerOpts, opts...)...)

	return &Server{
		cfg:     cfg,
		handler: handler,
		log:     handler.log,
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() *Handler {
	return s.handler
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server is already running")
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: time.Duration(s.cfg.ReadTimeout) * time.Second,
		ReadTimeout:       time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.WriteTimeout) * time.Second,
	}

	s.log.Info("starting HTTP server", "addr", ln.Addr().String())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	s.startTime = time.Now()
	return nil
}

// Addr returns the address the server listens on, or "" when stopped.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startTime)
}

// Stop gracefully shuts down the server. In-flight requests get
// shutdownTimeout to finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.running = false
	s.listener = nil
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

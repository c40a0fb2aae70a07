// Package server owns the static asset server's listener and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/louisbranch/devserve/internal/platform/timeouts"
)

// Config defines startup inputs for the static asset server.
type Config struct {
	// HTTPAddr is the TCP address the file server binds.
	HTTPAddr string
	// Root is the serving root; empty means the current working directory.
	Root string
	// HealthAddr enables a gRPC health endpoint when set.
	HealthAddr string
	// AccessLog receives one line per request; nil disables access logging.
	AccessLog *log.Logger
}

// Server hosts the file handler on an already bound listener.
type Server struct {
	root       string
	listener   net.Listener
	httpServer *http.Server
	health     *healthEndpoint
	closeOnce  sync.Once
}

// New validates cfg and binds the listeners. Bind failures are returned
// immediately and leave no socket open.
func New(cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	root, err := ResolveRoot(cfg.Root)
	if err != nil {
		return nil, err
	}
	handler, err := NewHandler(root, cfg.AccessLog)
	if err != nil {
		return nil, fmt.Errorf("compose static handler: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	var healthEP *healthEndpoint
	if healthAddr := strings.TrimSpace(cfg.HealthAddr); healthAddr != "" {
		healthEP, err = newHealthEndpoint(healthAddr)
		if err != nil {
			_ = listener.Close()
			return nil, err
		}
	}

	return &Server{
		root:     root,
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		health: healthEP,
	}, nil
}

// Addr returns the bound HTTP listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HealthAddr returns the bound health listener address, or "" when disabled.
func (s *Server) HealthAddr() string {
	if s == nil {
		return ""
	}
	return s.health.addr()
}

// Root returns the absolute serving root.
func (s *Server) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// Run creates and serves a static asset server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve accepts connections until ctx is cancelled or the listener fails.
// Cancellation closes the listener and open connections without draining.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	if s.health != nil {
		log.Printf("health server listening at %s", s.health.addr())
		go func() {
			if err := s.health.serve(); err != nil {
				log.Printf("health server: %v", err)
			}
		}()
	}

	log.Printf("serving %s at http://%s", s.root, s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.Close()
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the listeners; it is safe to call more than once.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		s.health.stop()
		if s.httpServer != nil {
			_ = s.httpServer.Close()
		}
		if s.listener != nil {
			_ = s.listener.Close()
		}
	})
}

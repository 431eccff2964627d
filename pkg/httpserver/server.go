package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/dmitrymomot/natours/pkg/logger"
)

// Server runs an http.Server until its context is cancelled and then shuts
// it down gracefully.
type Server struct {
	cfg        Config
	log        *slog.Logger
	startHooks []func(context.Context, string)
	stopHooks  []func(context.Context)

	mu      sync.Mutex
	running bool
	addr    string
}

func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg.withDefaults(),
		log: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the bound listener address while the server runs.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves h and blocks until ctx is done or the listener fails.
// Listen failures are reported as ErrStart, timeouts of the graceful
// shutdown as ErrShutdown.
func (s *Server) Run(ctx context.Context, h http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running, s.addr = false, ""
		s.mu.Unlock()
	}()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	addr := ln.Addr().String()
	s.mu.Lock()
	s.addr = addr
	s.mu.Unlock()

	s.log.InfoContext(ctx, "http server started", slog.String("addr", addr), logger.Component("httpserver"))
	for _, hook := range s.startHooks {
		hook(ctx, addr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.shutdown(srv)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = errors.Join(runErr, err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = errors.Join(ErrStart, err)
		}
	}

	stopCtx := context.WithoutCancel(ctx)
	for _, hook := range s.stopHooks {
		hook(stopCtx)
	}
	s.log.InfoContext(stopCtx, "http server stopped", logger.Component("httpserver"))
	return runErr
}

func (s *Server) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		_ = srv.Close()
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

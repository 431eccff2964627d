package httpserver

import (
	"context"
	"log/slog"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStartHook runs h once the listener is bound.
func WithStartHook(h func(ctx context.Context, addr string)) Option {
	return func(s *Server) { s.startHooks = append(s.startHooks, h) }
}

// WithStopHook runs h after the server has shut down, for example to close
// database clients.
func WithStopHook(h func(ctx context.Context)) Option {
	return func(s *Server) { s.stopHooks = append(s.stopHooks, h) }
}

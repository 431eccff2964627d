package ratelimiter

import (
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/clientip"
	"github.com/dmitrymomot/natours/pkg/logger"
)

const maxKeyLength = 64

// KeyFunc extracts the limit key of a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByIP keys requests by client IP address. The address stored by
// clientip.Middleware wins over resolving the request again.
func ByIP(r *http.Request) string {
	if ip := clientip.GetIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// Composite joins the non-empty keys of fns. Keys longer than 64 bytes are
// hashed with FNV-1a.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

type middlewareConfig struct {
	keyFunc  KeyFunc
	message  string
	failOpen bool
	logger   *slog.Logger
}

type MiddlewareOption func(*middlewareConfig)

// WithKeyFunc replaces ByIP.
func WithKeyFunc(fn KeyFunc) MiddlewareOption {
	return func(c *middlewareConfig) { c.keyFunc = fn }
}

// WithMessage replaces MsgTooManyRequests.
func WithMessage(msg string) MiddlewareOption {
	return func(c *middlewareConfig) { c.message = msg }
}

// WithFailOpen lets requests through when the store fails.
func WithFailOpen() MiddlewareOption {
	return func(c *middlewareConfig) { c.failOpen = true }
}

func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) { c.logger = l }
}

// Middleware limits requests per key. Every checked response carries the
// X-RateLimit-* headers; rejected requests get 429 with the JSON error
// envelope and a Retry-After header.
func Middleware(tb *TokenBucket, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		keyFunc: ByIP,
		message: MsgTooManyRequests,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := tb.Allow(r.Context(), key)
			if err != nil {
				cfg.logger.ErrorContext(r.Context(), "rate limit check failed",
					logger.Error(err),
					logger.Component("ratelimiter"),
				)
				if cfg.failOpen {
					next.ServeHTTP(w, r)
					return
				}
				_ = handler.JSONError(handler.ErrInternal).Render(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if secs := int(result.RetryAfter().Seconds()); secs > 0 {
					h.Set("Retry-After", strconv.Itoa(secs))
				}
				_ = handler.JSONError(handler.NewHTTPError(http.StatusTooManyRequests, cfg.message)).Render(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package ratelimiter

import "time"

// Result describes the outcome of a single limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the request was denied
	ResetAt   time.Time // next refill
}

// Allowed reports whether the checked request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long a denied client should wait. Zero for allowed
// requests.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Config defines a token bucket. The defaults allow 100 requests per hour:
// the whole bucket refills once per window.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL" envDefault:"100"`
	RefillInterval time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return errInvalid("capacity must be positive, got %d", c.Capacity)
	case c.RefillRate <= 0:
		return errInvalid("refill rate must be positive, got %d", c.RefillRate)
	case c.RefillInterval <= 0:
		return errInvalid("refill interval must be positive, got %v", c.RefillInterval)
	}
	return nil
}

// maxIntervals caps the number of refill intervals added at once so idle keys
// cannot overflow the token counter.
func (c Config) maxIntervals() int64 {
	return int64(c.Capacity/c.RefillRate + 1)
}

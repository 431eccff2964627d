package ratelimiter

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrStoreUnavailable  = errors.New("ratelimiter: store unavailable")
)

// MsgTooManyRequests is the body message of rejected API requests.
const MsgTooManyRequests = "Too many requests from this IP, please try again in an hour!"

func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Connect when REDIS_URL is not set.
	// Callers check Config.Enabled first and fall back to in-process stores.
	ErrEmptyConnectionURL           = errors.New("redis: REDIS_URL is not set")
	ErrFailedToParseRedisConnString = errors.New("redis: invalid connection URL")
	ErrRedisNotReady                = errors.New("redis: server did not answer PING before the retries ran out")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
)

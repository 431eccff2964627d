// Package ratelimiter implements token bucket rate limiting for the API.
//
// A TokenBucket applies one Config to many keys. Bucket state lives in a
// Store: MemoryStore for a single process, RedisStore when several instances
// must share the limit. The default Config allows 100 requests per hour.
//
//	limiter, err := ratelimiter.NewTokenBucket(ratelimiter.NewMemoryStore(), cfg)
//	if err != nil {
//		return err
//	}
//	r.Route("/api", func(r chi.Router) {
//		r.Use(ratelimiter.Middleware(limiter))
//	})
//
// Middleware keys requests by client IP (see package clientip) and answers
// exhausted keys with 429 and the message "Too many requests from this IP,
// please try again in an hour!".
package ratelimiter

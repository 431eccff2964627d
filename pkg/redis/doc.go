// Package redis connects to the optional Redis server shared by natours
// instances.
//
// Redis backs the API rate limiter when more than one process serves
// traffic; without REDIS_URL the limiter falls back to process memory.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			return err
//		}
//		defer client.Close()
//	}
//
// Healthcheck plugs the client into the readiness endpoint. Connection
// failures are reported as ErrRedisNotReady joined with the last driver error.
package redis

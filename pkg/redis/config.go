package redis

import "time"

// Config describes the optional Redis connection used by shared stores such
// as the API rate limiter. An empty URL disables Redis.
type Config struct {
	URL            string        `env:"REDIS_URL"`                              // redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`    // connection attempts before giving up
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`   // pause between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"` // overall connect deadline
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"natours:"` // prefix for every key written by the app
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

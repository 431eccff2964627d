// Package config loads typed configuration from environment variables.
//
// Structs describe their variables with caarlos0/env tags; values may come
// from the process environment or from env files read by LoadEnv
// (joho/godotenv). Load parses each struct type once and caches the result:
//
//	type AppConfig struct {
//		Env     string `env:"APP_ENV" envDefault:"development"`
//		Storage string `env:"STORAGE" envDefault:"mongo"`
//	}
//
//	config.MustLoadEnv("config.env")
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// Parse failures are reported as ErrParsingConfig joined with the parser error.
package config

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/natours/modules/tours"
	"github.com/dmitrymomot/natours/pkg/config"
	"github.com/dmitrymomot/natours/pkg/httpserver"
	"github.com/dmitrymomot/natours/pkg/logger"
	"github.com/dmitrymomot/natours/pkg/mongo"
	"github.com/dmitrymomot/natours/pkg/requestid"
)

// Storage backends.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type appConfig struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	Name           string   `env:"APP_NAME" envDefault:"natours"`
	Storage        string   `env:"STORAGE" envDefault:"mongo"`
	TrustedHeaders []string `env:"CLIENT_IP_HEADERS" envSeparator:","`
}

func (c appConfig) development() bool {
	return c.Env == logger.EnvDevelopment || c.Env == "dev"
}

func loadAppConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return appConfig{}, err
	}
	if storageFlag != "" {
		cfg.Storage = storageFlag
	}
	switch cfg.Storage {
	case StorageMongo, StorageMemory:
	default:
		return appConfig{}, fmt.Errorf("unknown STORAGE %q, expected %s or %s", cfg.Storage, StorageMongo, StorageMemory)
	}
	return cfg, nil
}

func newLogger(cfg appConfig) *slog.Logger {
	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)
	return log
}

// storage holds the opened models and what is needed to probe and release
// their backend.
type storage struct {
	models tours.Models
	checks []httpserver.Check
	close  func(context.Context) error
}

func openStorage(ctx context.Context, cfg appConfig, log *slog.Logger) (*storage, error) {
	if cfg.Storage == StorageMemory {
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart", logger.Component("storage"))
		return &storage{
			models: tours.NewMemoryModels(),
			close:  func(context.Context) error { return nil },
		}, nil
	}

	var mcfg mongo.Config
	if err := config.Load(&mcfg); err != nil {
		return nil, err
	}
	db, err := mongo.NewWithDatabase(ctx, mcfg)
	if err != nil {
		return nil, err
	}
	models, err := tours.NewMongoModels(ctx, db)
	if err != nil {
		return nil, errors.Join(err, db.Client().Disconnect(ctx))
	}

	log.InfoContext(ctx, "connected to mongodb", slog.String("database", mcfg.Database), logger.Component("storage"))
	return &storage{
		models: models,
		checks: []httpserver.Check{{Name: "mongo", Fn: mongo.Healthcheck(db.Client())}},
		close:  db.Client().Disconnect,
	}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/modules/tours"
	"github.com/dmitrymomot/natours/modules/views"
	"github.com/dmitrymomot/natours/pkg/clientip"
	"github.com/dmitrymomot/natours/pkg/config"
	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/httpserver"
	"github.com/dmitrymomot/natours/pkg/logger"
	"github.com/dmitrymomot/natours/pkg/metrics"
	"github.com/dmitrymomot/natours/pkg/mongo"
	"github.com/dmitrymomot/natours/pkg/ratelimiter"
	"github.com/dmitrymomot/natours/pkg/redis"
	"github.com/dmitrymomot/natours/pkg/requestid"
)

const readinessTimeout = 3 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides HTTP_ADDR")
}

func serve(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}
	if serveAddr != "" {
		srvCfg.Addr = serveAddr
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	limiter, limiterChecks, closeLimiter, err := openRateLimiter(ctx, log)
	if err != nil {
		return errors.Join(fmt.Errorf("open rate limiter: %w", err), store.close(ctx))
	}

	met := metrics.New(cfg.Name)
	h := newRouter(routerDeps{
		cfg:     cfg,
		log:     log,
		models:  store.models.Instrument(met),
		metrics: met,
		limiter: limiter,
		checks:  append(store.checks, limiterChecks...),
	})

	srv := httpserver.New(srvCfg,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(ctx context.Context) {
			closeLimiter()
			if err := store.close(ctx); err != nil {
				log.ErrorContext(ctx, "failed to close storage", logger.Error(err), logger.Component("storage"))
			}
		}),
	)
	return srv.Run(ctx, h)
}

// openRateLimiter shares the API limit through Redis when REDIS_URL is set
// and keeps it in process memory otherwise.
func openRateLimiter(ctx context.Context, log *slog.Logger) (*ratelimiter.TokenBucket, []httpserver.Check, func(), error) {
	var limitCfg ratelimiter.Config
	if err := config.Load(&limitCfg); err != nil {
		return nil, nil, nil, err
	}
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return nil, nil, nil, err
	}

	if !redisCfg.Enabled() {
		store := ratelimiter.NewMemoryStore()
		tb, err := ratelimiter.NewTokenBucket(store, limitCfg)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		return tb, nil, store.Close, nil
	}

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	tb, err := ratelimiter.NewTokenBucket(ratelimiter.NewRedisStore(client, redisCfg.KeyPrefix), limitCfg)
	if err != nil {
		return nil, nil, nil, errors.Join(err, client.Close())
	}
	log.InfoContext(ctx, "rate limiter uses redis", logger.Component("ratelimiter"))

	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis client", logger.Error(err), logger.Component("ratelimiter"))
		}
	}
	return tb, []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}}, closeClient, nil
}

type routerDeps struct {
	cfg     appConfig
	log     *slog.Logger
	models  tours.Models
	metrics *metrics.Metrics
	limiter *ratelimiter.TokenBucket
	checks  []httpserver.Check
	views   views.Views
}

// newRouter assembles the application:
//
//	/health/live, /health/ready   probes
//	/metrics                      Prometheus exposition
//	/api/v1/...                   JSON resources, rate limited per client IP
//	/...                          rendered pages
func newRouter(d routerDeps) http.Handler {
	pages := d.views.WithDefaults()
	errorHandler := handler.NewErrorHandler(d.log, handler.ErrorHandlerConfig{
		ErrorPage:   pages.ErrorPage,
		ErrorToast:  pages.ErrorToast,
		Development: d.cfg.development(),
		Mappers:     []handler.ErrorMapper{mongo.MapError, crud.MapError},
	})

	var ipOpts []clientip.Option
	if len(d.cfg.TrustedHeaders) > 0 {
		ipOpts = append(ipOpts, clientip.WithTrustedHeaders(d.cfg.TrustedHeaders...))
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.New(ipOpts...).Middleware,
		middleware.Recoverer,
		d.metrics.Middleware,
	)

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(d.log, readinessTimeout, d.checks...))
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(ratelimiter.Middleware(d.limiter, ratelimiter.WithLogger(d.log)))
		r.Mount("/v1", tours.API(d.models, errorHandler))
	})
	r.Mount("/", views.New(d.models, pages, errorHandler).Handle())

	return r
}

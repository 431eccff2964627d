// Package httpserver runs the natours HTTP server with graceful shutdown and
// exposes liveness and readiness handlers.
//
// Run blocks until its context is cancelled; the caller owns signal handling:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Readiness takes named checks, e.g. mongo.Healthcheck(client), and reports
// 503 with the failing check names when any of them fails.
package httpserver

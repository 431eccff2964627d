// Package logger builds the application *slog.Logger.
//
// New applies functional options and wraps the text or JSON handler with
// LogHandlerDecorator, which adds attributes extracted from the record
// context (the request id, for example) every time a record is handled.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "natours"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "slugs backfilled",
//		logger.Collection("tours"),
//		logger.Count(n),
//	)
//
// Attribute helpers in attr.go keep key names consistent. Error returns an
// empty attribute for a nil error, so it can be passed without a nil check.
package logger

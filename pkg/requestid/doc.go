// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses the client supplied X-Request-ID header when it is a
// short token of letters, digits, dashes and underscores, and generates a
// UUID otherwise. The id is stored on the request context, echoed in the
// response header and picked up by the logger through LoggerExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid

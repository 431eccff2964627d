package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/natours/pkg/logger"
	"github.com/dmitrymomot/natours/pkg/requestid"
)

// ErrorPageParams contains data for rendering error pages
type ErrorPageParams struct {
	Title      string
	Error      string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorToastParams contains data for rendering error toasts
type ErrorToastParams struct {
	Message   string
	Type      string // "error", "warning", "info"
	RequestID string
}

// ErrorMapper converts a domain or driver error into an operational HTTPError.
// It returns false when the error is not recognized.
type ErrorMapper func(err error) (HTTPError, bool)

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// ErrorPage renders full error page for rendered (non-API) requests
	ErrorPage func(ErrorPageParams) templ.Component

	// ErrorToast renders toast notification for DataStar requests
	ErrorToast func(ErrorToastParams) templ.Component

	// ToastTarget specifies where to render toast notifications (default: "#toast-container")
	ToastTarget string

	// ToastMode specifies how to render toasts (default: PatchPrepend)
	ToastMode datastar.ElementPatchMode

	// IsAPI reports whether the request expects a JSON envelope.
	// Defaults to paths starting with "/api".
	IsAPI func(r *http.Request) bool

	// Development exposes the raw message of unexpected errors.
	Development bool

	// Mappers are tried in order before classification.
	Mappers []ErrorMapper
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode  int
	Message     string
	Type        string
	LogLevel    slog.Level
	Operational bool
}

// determineErrorType maps HTTP status codes to error types for UI display
func determineErrorType(statusCode int) string {
	switch {
	case isClientError(statusCode):
		return "warning"
	case isServerError(statusCode):
		return "error"
	default:
		return "info"
	}
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// setConfigDefaults applies default values to ErrorHandlerConfig
func setConfigDefaults(cfg ErrorHandlerConfig) ErrorHandlerConfig {
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toast-container"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchPrepend
	}
	if cfg.IsAPI == nil {
		cfg.IsAPI = func(r *http.Request) bool {
			return strings.HasPrefix(r.URL.Path, "/api")
		}
	}
	return cfg
}

// ClassifyError analyzes the error and returns structured error information.
// Unknown errors are treated as programming errors: their message is hidden
// unless development is true.
func ClassifyError(err error, development bool, mappers ...ErrorMapper) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    ErrInternal.Message,
	}
	if development && err != nil {
		info.Message = err.Error()
	}

	var (
		httpErr HTTPError
		valErr  ValidationError
		mapped  bool
	)
	for _, m := range mappers {
		if e, ok := m(err); ok {
			httpErr, mapped = e, true
			break
		}
	}

	switch {
	case mapped:
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message
		info.Operational = true
	case errors.As(err, &valErr):
		info.StatusCode = http.StatusBadRequest
		info.Message = valErr.Error()
		info.Operational = true
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message
		info.Operational = true
	}

	info.Type = determineErrorType(info.StatusCode)
	info.LogLevel = determineLogLevel(info.StatusCode)

	return info
}

// logError logs the error with comprehensive context
func logError(log *slog.Logger, ctx Context, err error, info ErrorInfo) {
	requestID := requestid.FromContext(ctx.Request().Context())

	log.LogAttrs(ctx.Request().Context(), info.LogLevel, "request error",
		logger.RequestID(requestID),
		logger.Error(err),
		slog.Int("status_code", info.StatusCode),
		slog.Bool("operational", info.Operational),
		slog.String("method", ctx.Request().Method),
		slog.String("path", ctx.Request().URL.Path),
		slog.Bool("is_datastar", IsDataStar(ctx.Request())),
		logger.Component("error_handler"),
	)
}

// renderAPIResponse writes the JSON error envelope.
func renderAPIResponse(ctx Context, info ErrorInfo, log *slog.Logger) {
	response := JSONError(NewHTTPError(info.StatusCode, info.Message))
	if err := response.Render(ctx.ResponseWriter(), ctx.Request()); err != nil {
		log.Error("failed to render error envelope",
			logger.Error(err),
			logger.Event("render_error_json"),
		)
	}
}

// renderDataStarResponse renders error as DataStar toast notification
func renderDataStarResponse(ctx Context, cfg ErrorHandlerConfig, info ErrorInfo, requestID string, log *slog.Logger) {
	if cfg.ErrorToast == nil {
		log.Warn("no error toast component configured for DataStar request",
			logger.RequestID(requestID),
			logger.Component("error_handler"),
		)
		return
	}

	params := ErrorToastParams{
		Message:   info.Message,
		Type:      info.Type,
		RequestID: requestID,
	}

	response := Templ(
		cfg.ErrorToast(params),
		WithTarget(cfg.ToastTarget),
		WithPatchMode(cfg.ToastMode),
	)

	// Don't set status code for SSE responses
	if renderErr := response.Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
		log.Error("failed to render error toast",
			logger.RequestID(requestID),
			logger.Error(renderErr),
			logger.Event("render_error_toast"),
		)
	}
}

// renderHTTPResponse renders error as full HTTP error page
func renderHTTPResponse(ctx Context, cfg ErrorHandlerConfig, info ErrorInfo, requestID string, log *slog.Logger) {
	if cfg.ErrorPage == nil {
		log.Warn("no error page component configured",
			logger.RequestID(requestID),
			logger.Component("error_handler"),
		)
		http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
		return
	}

	params := ErrorPageParams{
		Title:      "Something went wrong!",
		Error:      info.Message,
		StatusCode: info.StatusCode,
		RequestID:  requestID,
		RetryURL:   ctx.Request().URL.Path,
	}

	response := TemplWithStatus(info.StatusCode, cfg.ErrorPage(params))
	if renderErr := response.Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
		log.Error("failed to render error page",
			logger.RequestID(requestID),
			logger.Error(renderErr),
			logger.Event("render_error_page"),
		)
	}
}

// NewErrorHandler creates the default error handler that adapts to request type.
// API requests receive the JSON error envelope, DataStar requests a toast
// notification and every other request a full error page.
// Configure this once in main and pass it to all handlers.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	cfg = setConfigDefaults(cfg)

	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		requestID := requestid.FromContext(ctx.Request().Context())
		info := ClassifyError(err, cfg.Development, cfg.Mappers...)
		logError(log, ctx, err, info)

		switch {
		case cfg.IsAPI(ctx.Request()):
			renderAPIResponse(ctx, info, log)
		case IsDataStar(ctx.Request()):
			renderDataStarResponse(ctx, cfg, info, requestID, log)
		default:
			renderHTTPResponse(ctx, cfg, info, requestID, log)
		}
	}
}

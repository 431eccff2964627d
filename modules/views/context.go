package views

import (
	"context"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/crud"
)

var (
	userKey  = handler.NewContextKey("views.user")
	alertKey = handler.NewContextKey("views.alert")
)

// WithUser stores the signed in user on ctx. Authentication middleware calls
// it once the session is resolved.
func WithUser(ctx context.Context, user crud.Document) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the signed in user, if any.
func UserFromContext(ctx context.Context) (crud.Document, bool) {
	user, ok := handler.ContextValueOK[crud.Document](ctx, userKey)
	return user, ok && user != nil
}

// AlertFromContext returns the alert message set by Alerts.
func AlertFromContext(ctx context.Context) string {
	return handler.ContextValue[string](ctx, alertKey)
}

package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/natours/binder"
	"github.com/dmitrymomot/natours/handler"
)

type mockResponse struct {
	statusCode int
	body       string
	renderErr  error
}

func (m mockResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	w.WriteHeader(m.statusCode)
	_, _ = w.Write([]byte(m.body))
	return nil
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("basic handler without options", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			assert.NotNil(t, ctx)
			assert.Equal(t, "", req)
			return mockResponse{statusCode: http.StatusOK, body: "success"}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", rec.Body.String())
	})

	t.Run("render error goes to default error handler", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			return mockResponse{renderErr: errors.New("mongo: connection reset by peer")}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"error"`)
		assert.Contains(t, rec.Body.String(), handler.ErrInternal.Message)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})

	t.Run("default error handler keeps http errors", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			return handler.Error(handler.NewHTTPError(http.StatusNotFound, "No document found with that ID"))
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"status":"fail","message":"No document found with that ID"}`, rec.Body.String())
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			return nil
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), handler.ErrInternal.Message)
		assert.NotContains(t, rec.Body.String(), "handler returned nil response")
	})

	t.Run("handler error is forwarded to custom error handler", func(t *testing.T) {
		t.Parallel()
		var got error
		errHandler := func(ctx handler.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			return handler.Error(handler.ErrNotFound)
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithErrorHandler[handler.Context, string](errHandler))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, handler.ErrNotFound)
	})

	t.Run("custom context factory", func(t *testing.T) {
		t.Parallel()
		created := false
		factory := func(w http.ResponseWriter, r *http.Request) handler.Context {
			created = true
			return handler.NewContext(w, r)
		}
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			return mockResponse{statusCode: http.StatusOK, body: "ok"}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithContextFactory[handler.Context, string](factory))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, created)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("binders run in order and skip not applicable", func(t *testing.T) {
		t.Parallel()
		type req struct{ Name string }

		skip := func(r *http.Request, v any) error { return binder.ErrNotApplicable }
		set := func(r *http.Request, v any) error {
			v.(*req).Name = "bound"
			return nil
		}
		h := handler.HandlerFunc[handler.Context, req](func(ctx handler.Context, r req) handler.Response {
			return mockResponse{statusCode: http.StatusOK, body: r.Name}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithBinders[handler.Context, req](skip, set))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "bound", rec.Body.String())
	})

	t.Run("binder failure answers 400", func(t *testing.T) {
		t.Parallel()
		fail := func(r *http.Request, v any) error { return fmt.Errorf("invalid JSON body") }
		called := false
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			called = true
			return handler.Empty()
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithBinders[handler.Context, string](fail))(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		require.False(t, called)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"fail"`)
		assert.Contains(t, rec.Body.String(), "invalid JSON body")
	})

	t.Run("decorators wrap outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mk := func(name string) handler.Decorator[handler.Context, string] {
			return func(next handler.HandlerFunc[handler.Context, string]) handler.HandlerFunc[handler.Context, string] {
				return func(ctx handler.Context, req string) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			order = append(order, "handler")
			return handler.Empty()
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithDecorators(mk("first"), mk("second")))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []string{"first", "second", "handler"}, order)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	key := handler.NewContextKey("alert")
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(contextWith(r, key, "booking"))
	ctx := handler.NewContext(httptest.NewRecorder(), r)

	assert.Equal(t, "booking", handler.ContextValue[string](ctx, key))
	_, ok := handler.ContextValueOK[int](ctx, key)
	assert.False(t, ok)
	assert.Equal(t, "alert", key.String())
}

package crud

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/natours/binder"
	"github.com/dmitrymomot/natours/handler"
)

// Routes mounts the five generic handlers of m:
//
//	GET    /      GetAll
//	POST   /      CreateOne
//	GET    /{id}  GetOne
//	PATCH  /{id}  UpdateOne
//	DELETE /{id}  DeleteOne
//
// Example:
//
//	r.Mount("/api/v1/tours/{tourId}/reviews", crud.Routes(reviews,
//		crud.WithParent("tourId", "tour"),
//		crud.WithErrorHandler(errorHandler),
//	))
func Routes(m Model, opts ...Option) http.Handler {
	r := chi.NewRouter()
	r.Get("/", Handle(GetAll(m, opts...), opts...))
	r.Post("/", Handle(CreateOne(m, opts...), opts...))
	r.Get("/{id}", Handle(GetOne(m, opts...), opts...))
	r.Patch("/{id}", Handle(UpdateOne(m, opts...), opts...))
	r.Delete("/{id}", Handle(DeleteOne(m), opts...))
	return r
}

// Handle binds a Request from the path, query and JSON body and runs h.
// Only WithParent and WithErrorHandler are read from opts.
func Handle(h Func, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts)
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, Request](
			binder.Path(pathExtractor(cfg.parentParam)),
			binder.Query(),
			binder.JSON(),
		),
		handler.WithErrorHandler[handler.Context, Request](cfg.errorHandler),
	)
}

func pathExtractor(parentParam string) func(r *http.Request, name string) string {
	return func(r *http.Request, name string) string {
		if name == ParentParam {
			if parentParam == "" {
				return ""
			}
			return chi.URLParam(r, parentParam)
		}
		return chi.URLParam(r, name)
	}
}

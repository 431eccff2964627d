// Package binder populates request structs from path parameters, the query
// string and JSON bodies.
//
// Each binder has the signature func(*http.Request, any) error and is passed
// to handler.WithBinders. A binder that has nothing to read for a request
// returns ErrNotApplicable and the wrapper moves on to the next one.
//
//	type Request struct {
//		ID    string     `path:"id"`
//		Query url.Values `query:"*"`
//	}
//
//	handler.WithBinders[handler.Context, Request](
//		binder.Path(chi.URLParam),
//		binder.Query(),
//		binder.JSON(),
//	)
package binder

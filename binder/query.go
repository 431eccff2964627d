package binder

import (
	"net/http"
)

// Query creates a query parameter binder function.
//
// Struct tags:
//   - `query:"name"` binds to query parameter "name" (last value wins for scalars)
//   - `query:"*"` on a url.Values field captures the whole query string
//   - `query:"-"` or no tag skips the field
//
// Example:
//
//	type ListRequest struct {
//		Params url.Values `query:"*"`
//		Alert  string     `query:"alert"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}

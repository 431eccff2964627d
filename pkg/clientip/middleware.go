package clientip

import "net/http"

// Middleware stores the client address resolved by res on the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := SetIPToContext(r.Context(), res.IP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Middleware uses the default Resolver.
func Middleware(next http.Handler) http.Handler {
	return New().Middleware(next)
}

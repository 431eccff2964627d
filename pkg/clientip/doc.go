// Package clientip resolves the address of the client behind proxies.
//
// A Resolver checks trusted proxy headers in order (CF-Connecting-IP,
// X-Forwarded-For, X-Real-IP by default) and falls back to RemoteAddr.
// Values are validated and normalized; IPv4-mapped IPv6 addresses are
// reported in their IPv4 form.
//
//	ips := clientip.New(clientip.WithTrustedHeaders("X-Forwarded-For"))
//	r.Use(ips.Middleware)
//
//	ip := clientip.GetIPFromContext(r.Context())
//
// An application that is not deployed behind a proxy should pass
// WithTrustedHeaders() without arguments so clients cannot spoof addresses.
package clientip

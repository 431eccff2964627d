// Package metrics exposes Prometheus metrics for the HTTP layer and the
// document models.
//
//	m := metrics.New("natours")
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
//	tours := m.Instrument("tours", tours)
//
// Request metrics are labelled by chi route pattern rather than raw path.
package metrics

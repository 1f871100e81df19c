// Package metrics exposes Prometheus collectors for the HTTP pipeline.
//
// Collectors live on a private registry owned by a Metrics value, so several
// instances can coexist in one process (tests build one per router):
//
//	m := metrics.New(metrics.WithRuntimeCollectors())
//	r.Use(m.Middleware)
//	r.Method(http.MethodGet, "/metrics", m.Handler())
//
// Requests are labelled by chi route pattern rather than raw path. Gates call
// GateRejected for every request they terminate.
package metrics

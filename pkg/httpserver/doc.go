// Package httpserver runs an http.Handler with graceful shutdown.
//
// Server binds its listener up front, so address errors are returned from Run
// joined with ErrStart. Run then blocks until the context is cancelled, SIGINT
// or SIGTERM arrives, or Shutdown is called, and drains in-flight requests
// within the shutdown timeout.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthHandler serves the liveness and readiness checks mounted at /healthz:
//
//	r.Get("/healthz", httpserver.HealthHandler(log,
//		httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)},
//	))
package httpserver

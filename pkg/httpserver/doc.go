// Package httpserver runs the session service's HTTP server with graceful
// shutdown and provides liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithOnShutdown(func() { _ = store.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Run returns once ctx is cancelled or the process receives SIGINT or
// SIGTERM and in-flight requests have finished.
package httpserver

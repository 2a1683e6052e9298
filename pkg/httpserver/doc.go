// Package httpserver wraps net/http with graceful shutdown, functional
// options and probe handlers, so the preview and reminder services share one
// server lifecycle.
//
// Run blocks until the context is cancelled or the process receives
// SIGINT/SIGTERM, then drains connections within the configured shutdown
// timeout. Construction goes through New with options, or NewFromConfig for
// environment-driven settings:
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStartHook(func(l *slog.Logger) {
//	        l.Info("listening", slog.String("addr", cfg.Addr))
//	    }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler doubles as a liveness probe (no checks) and a readiness
// probe (dependency checks such as pg.Healthcheck or redis.Healthcheck).
//
// Errors from Run and Shutdown are wrapped with the ErrStart and ErrShutdown
// sentinels and can be classified with errors.Is.
package httpserver

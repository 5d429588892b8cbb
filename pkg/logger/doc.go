// Package logger builds *slog.Logger instances for the session service and
// provides attribute constructors so every package logs the same keys.
//
// New takes functional options; NewFromConfig reads a Config populated from
// LOG_LEVEL, LOG_FORMAT, APP_ENV and SERVICE_NAME. Development defaults to
// text output at debug level, staging and production to JSON at info level.
//
// Request-scoped values such as the request id or the resolved client IP are
// added by ContextExtractor callbacks run on every log call:
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "sessiond"),
//	    logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//	        ip := clientip.GetIPFromContext(ctx)
//	        return logger.ClientIP(ip), ip != ""
//	    }),
//	)
//
// Session identifiers are bearer credentials and must never be logged; use
// Lineage, which survives rotation, to correlate records of one session.
package logger

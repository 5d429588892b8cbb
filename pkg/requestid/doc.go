// Package requestid tags every request with an identifier that shows up in
// the X-Request-ID response header and in log records.
//
// Inbound IDs are kept when they are at most 128 characters of letters,
// digits, '-' and '_'; anything else is replaced by a random UUID so a
// client cannot inject arbitrary text into logs.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid

package fingerprint

import "net/http"

// Middleware collects the request fingerprint once and stores it in the
// request context.
func Middleware(c Collector) func(http.Handler) http.Handler {
	if c == nil {
		c = defaultCollector
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetFingerprintToContext(r.Context(), c.Collect(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

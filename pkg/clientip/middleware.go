package clientip

import "net/http"

// Middleware resolves the client IP once per request and stores it in the
// request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := SetIPToContext(r.Context(), res.Resolve(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Middleware is Resolver.Middleware for the default resolver.
func Middleware(next http.Handler) http.Handler {
	return defaultResolver.Middleware(next)
}

package session

import (
	"net/http"

	"github.com/dmitrymomot/sessionguard/pkg/logger"
)

// Middleware resumes any session the client carries and stores the handle in
// the request context. The continuous session takes precedence over the
// temporary one. Changes made by the handler are committed once it returns,
// so handlers that write the body must Commit before writing.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := m.Session(w, r)

		for _, t := range []Type{Continuous, Temporary} {
			if err := s.Keep(ctx, t); err != nil {
				m.logger.ErrorContext(ctx, "failed to resume session", logger.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if s.IsActive() {
				break
			}
		}

		next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))

		if err := s.Commit(ctx); err != nil {
			m.logger.ErrorContext(ctx, "failed to commit session", logger.Error(err))
		}
	})
}

// RequireAuth lets only logged-in sessions through and redirects everyone
// else to the login URL. It expects Middleware earlier in the chain and
// falls back to resuming the continuous session itself.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok {
			s = m.Session(w, r)
			if err := s.Keep(r.Context(), Continuous); err != nil {
				m.logger.ErrorContext(r.Context(), "failed to resume session", logger.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			r = r.WithContext(WithSession(r.Context(), s))
		}

		if !s.ForceAuthenticated() {
			return
		}
		next.ServeHTTP(w, r)
	})
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionguard/pkg/clientip"
	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
	"github.com/dmitrymomot/sessionguard/pkg/httpserver"
	"github.com/dmitrymomot/sessionguard/pkg/logger"
	"github.com/dmitrymomot/sessionguard/pkg/requestid"
	"github.com/dmitrymomot/sessionguard/pkg/session"
)

type routerDeps struct {
	manager   *session.Manager
	resolver  *clientip.Resolver
	collector fingerprint.Collector
	metrics   http.Handler
	checks    []httpserver.Check
	log       *slog.Logger
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(d.resolver.Middleware)
	r.Use(fingerprint.Middleware(d.collector))
	r.Use(middleware.Recoverer)

	r.Get("/livez", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(d.log, d.checks...))
	if d.metrics != nil {
		r.Handle("/metrics", d.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(d.manager.Middleware)

		h := &handlers{log: d.log}
		r.Get("/", h.visit)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.With(d.manager.RequireAuth).Get("/account", h.account)
	})

	return r
}

type handlers struct {
	log *slog.Logger
}

// visit tracks anonymous visitors in a temporary session. Clients already
// holding a continuous session keep using it.
func (h *handlers) visit(w http.ResponseWriter, r *http.Request) {
	s := session.MustFromContext(r.Context())
	if err := s.Start(r.Context(), session.Temporary); err != nil {
		h.fail(w, r, err)
		return
	}

	visits, _ := s.GetInt("visits")
	visits++
	if err := s.Set("visits", visits); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "visits: %d\n", visits)
}

// login binds the submitted user to a fresh continuous session. Verifying
// credentials is the application's job; this demo trusts user_id.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "user_id must be a positive integer", http.StatusBadRequest)
		return
	}

	s := session.MustFromContext(r.Context())
	if err := s.Create(r.Context(), session.Continuous); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := s.SetUserID(userID); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := s.Commit(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}

	h.log.InfoContext(r.Context(), "user logged in", logger.UserID(userID))
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	s := session.MustFromContext(r.Context())
	if err := s.Destroy(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) account(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.UserIDFromContext(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "user: %d\n", userID)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "session operation failed", logger.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

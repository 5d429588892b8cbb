package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/session"
)

func TestMiddleware(t *testing.T) {
	h := newHarness(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		s := session.MustFromContext(r.Context())
		if err := s.Create(r.Context(), session.Continuous); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = s.SetUserID(42)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		uid, ok := session.UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		assert.Equal(t, int64(42), uid)
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/account", h.manager.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	handler := h.manager.Middleware(mux)
	b := newBrowser()
	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, b.request(path))
		b.receive(w)
		return w
	}

	assert.Equal(t, http.StatusNoContent, serve("/whoami").Code)

	w := serve("/account")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	require.Equal(t, http.StatusNoContent, serve("/login").Code)
	require.Contains(t, b.cookies, continuousCookie)

	assert.Equal(t, http.StatusOK, serve("/whoami").Code)
	assert.Equal(t, http.StatusOK, serve("/account").Code)
}

func TestMiddleware_StoreFailure(t *testing.T) {
	h := newHarness(t, session.WithStore(failingStore{}))
	b := newBrowser()
	w := httptest.NewRecorder()
	require.NoError(t, h.cookies.SetSigned(w, continuousCookie, "some-id"))
	b.receive(w)

	called := false
	handler := h.manager.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, b.request("/"))
	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireAuth_WithoutMiddleware(t *testing.T) {
	h := newHarness(t)
	handler := h.manager.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := session.FromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newBrowser().request("/"))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestFromContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := session.FromContext(r.Context())
	assert.False(t, ok)
	assert.Panics(t, func() { session.MustFromContext(r.Context()) })

	_, ok = session.UserIDFromContext(r.Context())
	assert.False(t, ok)
}

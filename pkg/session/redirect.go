package session

import (
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

// Redirector sends the client elsewhere. Handling of the request ends with it.
type Redirector interface {
	Redirect(w http.ResponseWriter, r *http.Request, location string)
}

// RedirectFunc adapts a function to the Redirector interface.
type RedirectFunc func(w http.ResponseWriter, r *http.Request, location string)

// Redirect calls f(w, r, location).
func (f RedirectFunc) Redirect(w http.ResponseWriter, r *http.Request, location string) {
	f(w, r, location)
}

// defaultRedirect picks the redirect a client can actually follow:
// an SSE redirect event for DataStar, HX-Redirect for htmx fragments,
// 302 Found for everything else.
func defaultRedirect(w http.ResponseWriter, r *http.Request, location string) {
	switch {
	case r.Header.Get("Datastar-Request") == "true" || strings.Contains(r.Header.Get("Accept"), "text/event-stream"):
		sse := datastar.NewSSE(w, r)
		_ = sse.Redirect(location)
	case r.Header.Get("HX-Request") == "true":
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusUnauthorized)
	default:
		http.Redirect(w, r, location, http.StatusFound)
	}
}

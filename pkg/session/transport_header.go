package session

import (
	"net/http"
	"strings"
	"time"
)

// HeaderTransport implements Transport using HTTP headers, for API clients
// that cannot hold cookies. The header for a name is "X-" followed by the
// name, e.g. "X-Session-Continuous".
type HeaderTransport struct {
	prefix string
	now    func() time.Time
}

// HeaderOption is a functional option for HeaderTransport.
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a prefix expected in front of the identifier, e.g. "Bearer ".
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// NewHeaderTransport creates a new header-based transport.
func NewHeaderTransport(opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HeaderName returns the header used for name.
func HeaderName(name string) string {
	return http.CanonicalHeaderKey("X-" + name)
}

// ReadIdentifier extracts the identifier from the request header.
func (t *HeaderTransport) ReadIdentifier(r *http.Request, name string) (string, error) {
	value := strings.TrimPrefix(r.Header.Get(HeaderName(name)), t.prefix)
	if value == "" {
		return "", ErrSessionNotFound
	}
	return value, nil
}

// WriteIdentifier sets the identifier and its expiry on the response.
func (t *HeaderTransport) WriteIdentifier(w http.ResponseWriter, name, id string, attrs Attributes) error {
	header := HeaderName(name)
	w.Header().Set(header, t.prefix+id)
	if attrs.MaxAge > 0 {
		w.Header().Set(header+"-Expires", t.now().Add(attrs.MaxAge).UTC().Format(time.RFC3339))
	}
	return nil
}

// Clear sends an empty identifier so the client drops the stored one.
func (t *HeaderTransport) Clear(w http.ResponseWriter, name string, _ Attributes) error {
	header := HeaderName(name)
	w.Header().Set(header, "")
	w.Header().Del(header + "-Expires")
	return nil
}

package session

import (
	"net/http"

	"github.com/dmitrymomot/sessionguard/pkg/cookie"
)

// CookieTransport implements Transport with signed cookies.
type CookieTransport struct {
	cookieMgr *cookie.Manager
	options   []cookie.Option
}

// NewCookieTransport creates a cookie-based transport. Extra options are
// applied after the per-write attributes, e.g. cookie.WithSameSite.
func NewCookieTransport(cookieMgr *cookie.Manager, opts ...cookie.Option) *CookieTransport {
	return &CookieTransport{
		cookieMgr: cookieMgr,
		options:   opts,
	}
}

// ReadIdentifier returns the verified identifier. A forged or malformed
// cookie is reported as ErrSessionNotFound.
func (t *CookieTransport) ReadIdentifier(r *http.Request, name string) (string, error) {
	id, err := t.cookieMgr.GetSigned(r, name)
	if err != nil || id == "" {
		return "", ErrSessionNotFound
	}
	return id, nil
}

// WriteIdentifier stores the identifier in a signed cookie.
func (t *CookieTransport) WriteIdentifier(w http.ResponseWriter, name, id string, attrs Attributes) error {
	return t.cookieMgr.SetSigned(w, name, id, t.cookieOptions(attrs)...)
}

// Clear expires the cookie.
func (t *CookieTransport) Clear(w http.ResponseWriter, name string, attrs Attributes) error {
	t.cookieMgr.Delete(w, name, t.cookieOptions(attrs)...)
	return nil
}

// cookieOptions layers attrs over the cookie manager defaults. Empty domain
// and path keep the manager's values, and Secure can only be switched on.
func (t *CookieTransport) cookieOptions(attrs Attributes) []cookie.Option {
	opts := []cookie.Option{
		cookie.WithMaxAge(int(attrs.MaxAge.Seconds())),
		cookie.WithHTTPOnly(attrs.HTTPOnly),
	}
	if attrs.Path != "" {
		opts = append(opts, cookie.WithPath(attrs.Path))
	}
	if attrs.Domain != "" {
		opts = append(opts, cookie.WithDomain(attrs.Domain))
	}
	if attrs.Secure {
		opts = append(opts, cookie.WithSecure(true))
	}
	return append(opts, t.options...)
}

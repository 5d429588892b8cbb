package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 32
	keyInfo         = "sessionguard/cookie/signing"
)

// Manager reads and writes cookies, optionally HMAC-signed.
// The first secret signs; all secrets verify, so secrets can be rotated by
// prepending a new one.
type Manager struct {
	keys     [][]byte
	defaults Options
}

// New builds a Manager from one or more secrets of at least 32 characters.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([][]byte, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		key, err := deriveKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return &Manager{
		keys:     keys,
		defaults: applyOptions(Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}, opts),
	}, nil
}

// deriveKey stretches a configured secret into a dedicated HMAC key so the
// raw secret is never used directly.
func deriveKey(secret string) ([]byte, error) {
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}
	return key, nil
}

// Set writes a plain cookie. A cookie with the same name set earlier on w
// is replaced.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	o := applyOptions(m.defaults, opts)
	dropPending(w, name)
	http.SetCookie(w, o.cookie(name, value))
	return nil
}

// Get reads a plain cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	if c.Value == "" {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}

// Has reports whether the request carries a non-empty cookie called name.
func (m *Manager) Has(r *http.Request, name string) bool {
	_, err := m.Get(r, name)
	return err == nil
}

// Delete expires the cookie on the client, replacing any cookie with the
// same name set earlier on w. Attributes must match the ones the cookie was
// set with or browsers keep the original.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := applyOptions(m.defaults, opts)
	c := o.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	dropPending(w, name)
	http.SetCookie(w, c)
}

// dropPending removes Set-Cookie headers for name already queued on w, so
// the response never carries two directives for one cookie.
func dropPending(w http.ResponseWriter, name string) {
	h := w.Header()
	pending := h.Values("Set-Cookie")
	if len(pending) == 0 {
		return
	}
	kept := slices.DeleteFunc(slices.Clone(pending), func(v string) bool {
		return strings.HasPrefix(v, name+"=")
	})
	if len(kept) == len(pending) {
		return
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
}

// SetSigned writes value together with its HMAC.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned reads a cookie written by SetSigned and verifies it.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

func (m *Manager) sign(value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + mac(m.keys[0], value)
}

func (m *Manager) verify(signed string) (string, error) {
	encoded, signature, found := strings.Cut(signed, ".")
	if !found {
		return "", ErrInvalidFormat
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}

	value := string(raw)
	for _, key := range m.keys {
		if hmac.Equal([]byte(signature), []byte(mac(key, value))) {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(key []byte, value string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

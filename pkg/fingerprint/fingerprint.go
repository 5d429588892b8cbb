package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/sessionguard/pkg/clientip"
)

// Signal names recorded by the default collector.
const (
	SignalIP             = "ip"
	SignalUserAgent      = "user_agent"
	SignalAccept         = "accept"
	SignalAcceptCharset  = "accept_charset"
	SignalAcceptEncoding = "accept_encoding"
	SignalAcceptLanguage = "accept_language"
)

// Fingerprint maps a signal name to the value observed on a request.
// A signal the client did not send is present with an empty value; a missing
// key means the fingerprint was produced by something else entirely.
type Fingerprint map[string]string

// Clone returns an independent copy.
func (f Fingerprint) Clone() Fingerprint {
	if f == nil {
		return nil
	}
	return maps.Clone(f)
}

// Hash returns a 32-character hex digest of the fingerprint, suitable for
// logs where raw addresses and user agents should not appear.
func (f Fingerprint) Hash() string {
	keys := slices.Sorted(maps.Keys(f))
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(f[k])
		b.WriteByte('|')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

// Collector derives a fingerprint from the current request.
type Collector interface {
	Collect(r *http.Request) Fingerprint
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(r *http.Request) Fingerprint

// Collect calls f(r).
func (f CollectorFunc) Collect(r *http.Request) Fingerprint {
	return f(r)
}

// HeaderCollector records the client IP, the user agent and the Accept family
// of headers.
type HeaderCollector struct {
	resolver *clientip.Resolver
}

// NewCollector returns a HeaderCollector. A nil resolver means the default
// clientip resolver.
func NewCollector(resolver *clientip.Resolver) *HeaderCollector {
	if resolver == nil {
		resolver = clientip.NewResolver()
	}
	return &HeaderCollector{resolver: resolver}
}

// Collect always returns every signal key, empty when the header is absent.
// A fingerprint stored by Middleware is reused, and an IP already resolved by
// clientip middleware takes precedence over resolving it again.
func (c *HeaderCollector) Collect(r *http.Request) Fingerprint {
	if fp := GetFingerprintFromContext(r.Context()); fp != nil {
		return fp.Clone()
	}

	ip := clientip.GetIPFromContext(r.Context())
	if ip == "" {
		ip = c.resolver.Resolve(r)
	}

	return Fingerprint{
		SignalIP:             ip,
		SignalUserAgent:      r.UserAgent(),
		SignalAccept:         r.Header.Get("Accept"),
		SignalAcceptCharset:  r.Header.Get("Accept-Charset"),
		SignalAcceptEncoding: r.Header.Get("Accept-Encoding"),
		SignalAcceptLanguage: r.Header.Get("Accept-Language"),
	}
}

// Collect fingerprints r with the default collector.
func Collect(r *http.Request) Fingerprint {
	return defaultCollector.Collect(r)
}

var defaultCollector = NewCollector(nil)

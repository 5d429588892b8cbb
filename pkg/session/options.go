package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionguard/pkg/cookie"
	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets a custom session store.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets a custom session transport.
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithCookieManager uses a CookieTransport built on cookieMgr.
func WithCookieManager(cookieMgr *cookie.Manager, opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.transport = NewCookieTransport(cookieMgr, opts...)
	}
}

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCollector sets the fingerprint collector.
func WithCollector(c fingerprint.Collector) Option {
	return func(m *Manager) {
		m.collector = c
	}
}

// WithRedirector sets how ForceAuthenticated sends clients to the login page.
func WithRedirector(r Redirector) Option {
	return func(m *Manager) {
		m.redirector = r
	}
}

// WithValidator registers an extra check run after the fingerprint
// challenge. Returning false destroys the session.
func WithValidator(fn ValidatorFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.validators = append(m.validators, fn)
		}
	}
}

// WithObserver registers a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// WithLogger sets the logger. Without it the manager does not log.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator replaces the identifier source.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

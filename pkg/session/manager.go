package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
	"github.com/dmitrymomot/sessionguard/pkg/logger"
)

// ValidatorFunc is an application-defined check on a resumed session, e.g.
// "the bound user still exists and is not banned".
type ValidatorFunc func(ctx context.Context, s *Session) bool

// Manager owns session policy and collaborators. It holds no per-request
// state and is safe for concurrent use; per-request work happens on the
// *Session returned by Session.
type Manager struct {
	store      Store
	transport  Transport
	collector  fingerprint.Collector
	redirector Redirector
	config     Config
	validators []ValidatorFunc
	observers  []Observer
	logger     *slog.Logger
	now        func() time.Time
	newID      func() (string, error)
}

// New creates a new session manager with the given options.
// A transport is required, either WithTransport or WithCookieManager.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		now:    time.Now,
		newID:  generateID,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.transport == nil {
		// Fail fast on misconfiguration
		panic("session: transport is required, use WithTransport or WithCookieManager")
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval, WithMemoryClock(m.now))
	}
	if m.collector == nil {
		m.collector = fingerprint.NewCollector(nil)
	}
	if m.redirector == nil {
		m.redirector = RedirectFunc(defaultRedirect)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	m.logger = m.logger.With(logger.Component("session"))

	return m
}

// Session returns the session handle for one request. Nothing is loaded
// until Start, Create or Keep is called. The handle must not outlive the
// request nor be shared between goroutines.
func (m *Manager) Session(w http.ResponseWriter, r *http.Request) *Session {
	return &Session{
		m:       m,
		w:       w,
		r:       r,
		issued:  make(map[string]string),
		cleared: make(map[string]bool),
	}
}

// Config returns the manager configuration.
func (m *Manager) Config() Config {
	return m.config
}

func (m *Manager) emit(ctx context.Context, e Event) {
	for _, o := range m.observers {
		o.Observe(ctx, e)
	}
}

func (m *Manager) load(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return rec, nil
}

// ttl returns how long the store has to keep rec.
func (m *Manager) ttl(rec *Record) time.Duration {
	if rec.ExpireAt != nil {
		if ttl := rec.ExpireAt.Sub(m.now()); ttl > 0 {
			return ttl
		}
		return time.Second
	}
	d, _ := m.config.Duration(rec.Type)
	return d
}

// generateID creates a 256-bit random identifier.
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package session_test

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/cookie"
	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
	"github.com/dmitrymomot/sessionguard/pkg/session"
)

const (
	continuousCookie = "session-continuous"
	temporaryCookie  = "session-temporary"
	testSecret       = "test-secret-key-that-is-long-enough"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// countingStore wraps a MemoryStore and counts mutating calls.
type countingStore struct {
	*session.MemoryStore
	saves   atomic.Int64
	deletes atomic.Int64
}

func (s *countingStore) Save(ctx context.Context, id string, rec *session.Record, ttl time.Duration) error {
	s.saves.Add(1)
	return s.MemoryStore.Save(ctx, id, rec, ttl)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.deletes.Add(1)
	return s.MemoryStore.Delete(ctx, id)
}

// failingStore fails every call.
type failingStore struct{}

var errBackend = errors.New("backend unavailable")

func (failingStore) Load(context.Context, string) (*session.Record, error) { return nil, errBackend }
func (failingStore) Save(context.Context, string, *session.Record, time.Duration) error {
	return errBackend
}
func (failingStore) Delete(context.Context, string) error { return errBackend }

// saveFailingStore serves loads and deletes but fails every save.
type saveFailingStore struct {
	*session.MemoryStore
}

func (saveFailingStore) Save(context.Context, string, *session.Record, time.Duration) error {
	return errBackend
}

// browser carries cookies and fingerprint headers between requests.
type browser struct {
	ip      string
	ua      string
	cookies map[string]*http.Cookie
}

func newBrowser() *browser {
	return &browser{
		ip:      "1.2.3.4",
		ua:      "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
		cookies: make(map[string]*http.Cookie),
	}
}

func (b *browser) clone() *browser {
	c := *b
	c.cookies = maps.Clone(b.cookies)
	return &c
}

func (b *browser) request(target string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Header.Set("X-Test-IP", b.ip)
	r.Header.Set("User-Agent", b.ua)
	for _, c := range b.cookies {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func (b *browser) receive(w *httptest.ResponseRecorder) {
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
}

type harness struct {
	manager *session.Manager
	store   *countingStore
	clock   *testClock
	cookies *cookie.Manager
}

func testCollector() fingerprint.Collector {
	return fingerprint.CollectorFunc(func(r *http.Request) fingerprint.Fingerprint {
		return fingerprint.Fingerprint{
			fingerprint.SignalIP:        r.Header.Get("X-Test-IP"),
			fingerprint.SignalUserAgent: r.UserAgent(),
		}
	})
}

func newHarness(t *testing.T, opts ...session.Option) *harness {
	t.Helper()

	cookieMgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	store := &countingStore{MemoryStore: session.NewMemoryStore(0, session.WithMemoryClock(clock.Now))}
	t.Cleanup(func() { _ = store.Close() })

	cfg := session.DefaultConfig()
	cfg.CleanupInterval = 0

	base := []session.Option{
		session.WithConfig(cfg),
		session.WithCookieManager(cookieMgr),
		session.WithStore(store),
		session.WithCollector(testCollector()),
		session.WithClock(clock.Now),
	}

	return &harness{
		manager: session.New(append(base, opts...)...),
		store:   store,
		clock:   clock,
		cookies: cookieMgr,
	}
}

// do runs fn with a session handle for one request made by b and lets b
// keep the cookies from the response.
func (h *harness) do(t *testing.T, b *browser, fn func(ctx context.Context, s *session.Session)) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r := b.request("/")
	fn(r.Context(), h.manager.Session(w, r))
	b.receive(w)
	return w
}

// plant stores rec under id and hands b a valid cookie for it.
func (h *harness) plant(t *testing.T, b *browser, name, id string, rec *session.Record) {
	t.Helper()
	require.NoError(t, h.store.MemoryStore.Save(context.Background(), id, rec, time.Hour))

	w := httptest.NewRecorder()
	require.NoError(t, h.cookies.SetSigned(w, name, id))
	b.receive(w)
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

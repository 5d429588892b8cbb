package session

import (
	"time"

	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
)

// Config holds session configuration.
type Config struct {
	// CookiePrefix is joined with the type: "<prefix>-temporary", "<prefix>-continuous".
	CookiePrefix  string `env:"SESSION_COOKIE_PREFIX" envDefault:"session"`
	CookieDomain  string `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	CookiePath    string `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	SecureCookies bool   `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// Maximum idle time per type.
	TemporaryDuration  time.Duration `env:"SESSION_TEMPORARY_DURATION" envDefault:"1h"`
	ContinuousDuration time.Duration `env:"SESSION_CONTINUOUS_DURATION" envDefault:"729h31m"`

	// RefreshInterval is the idle time after which a request rotates the identifier.
	RefreshInterval time.Duration `env:"SESSION_REFRESH_INTERVAL" envDefault:"30m"`
	// GraceWindow keeps a rotated-away identifier usable for in-flight requests.
	GraceWindow time.Duration `env:"SESSION_GRACE_WINDOW" envDefault:"30s"`

	ChallengeThreshold float64 `env:"SESSION_CHALLENGE_THRESHOLD" envDefault:"1.5"`

	// LoginURL is where ForceAuthenticated sends anonymous visitors.
	LoginURL string `env:"SESSION_LOGIN_URL" envDefault:"/login"`

	// CleanupInterval for the default in-memory store (0 to disable).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookiePrefix:       "session",
		CookiePath:         "/",
		TemporaryDuration:  time.Hour,
		ContinuousDuration: 2626260 * time.Second,
		RefreshInterval:    30 * time.Minute,
		GraceWindow:        30 * time.Second,
		ChallengeThreshold: fingerprint.DefaultThreshold,
		LoginURL:           "/login",
		CleanupInterval:    5 * time.Minute,
	}
}

// Policy is the per-type configuration applied to a session and its cookie.
type Policy struct {
	Type       Type
	Duration   time.Duration
	CookieName string
	Domain     string
	Path       string
	Secure     bool
	HTTPOnly   bool
}

// Duration returns the maximum idle time for t.
func (c Config) Duration(t Type) (time.Duration, bool) {
	switch t {
	case Temporary:
		return c.TemporaryDuration, true
	case Continuous:
		return c.ContinuousDuration, true
	}
	return 0, false
}

// CookieName returns the cookie name used for t.
func (c Config) CookieName(t Type) string {
	return c.CookiePrefix + "-" + string(t)
}

// Policy resolves t (empty means Continuous) into its policy.
func (c Config) Policy(t Type) (Policy, error) {
	t, err := resolveType(t)
	if err != nil {
		return Policy{}, err
	}
	d, _ := c.Duration(t)
	return Policy{
		Type:       t,
		Duration:   d,
		CookieName: c.CookieName(t),
		Domain:     c.CookieDomain,
		Path:       c.CookiePath,
		Secure:     c.SecureCookies,
		HTTPOnly:   true,
	}, nil
}

// NewFromConfig creates a new Manager from cfg; opts are applied after it.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

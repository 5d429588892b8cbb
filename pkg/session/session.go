package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
	"github.com/dmitrymomot/sessionguard/pkg/logger"
)

// Session is the per-request view of a client's session. It is obtained from
// Manager.Session and tracks the identifier and record loaded for this request.
type Session struct {
	m *Manager
	w http.ResponseWriter
	r *http.Request

	id     string
	record *Record
	policy Policy

	// rotated is set once this request issued a new identifier.
	rotated bool
	// dirty is set by mutations after the last save.
	dirty bool

	issued  map[string]string // cookie name -> identifier written this request
	cleared map[string]bool   // cookie names cleared this request
}

// Create destroys whatever session the client carries, for every type, and
// starts a fresh one of type t. The new session has a new identifier, no
// user and no data.
func (s *Session) Create(ctx context.Context, t Type) error {
	if _, err := resolveType(t); err != nil {
		return err
	}
	if err := s.Destroy(ctx); err != nil {
		return err
	}
	return s.Start(ctx, t)
}

// Keep resumes the session of type t if the client carries an identifier for
// it. It never creates a session.
func (s *Session) Keep(ctx context.Context, t Type) error {
	policy, err := s.m.config.Policy(t)
	if err != nil {
		return err
	}
	if s.identifier(policy.CookieName) == "" {
		return nil
	}
	return s.Start(ctx, t)
}

// Start resumes the client's session of type t, or starts a new one when the
// client carries no usable identifier. A resumed session is validated first
// and destroyed if validation fails; a valid one is rotated when due.
// Start is a no-op once a session is active for this request. On error the
// handle is left without a session.
func (s *Session) Start(ctx context.Context, t Type) (err error) {
	if s.IsActive() {
		return nil
	}
	defer func() {
		if err != nil {
			s.unload()
		}
	}()

	policy, err := s.m.config.Policy(t)
	if err != nil {
		return err
	}
	s.policy = policy

	id := s.identifier(policy.CookieName)
	rec, err := s.m.load(ctx, id)
	if err != nil {
		return err
	}

	event := Event{Kind: EventResumed, Type: policy.Type}
	if rec == nil || rec.Type == "" {
		// Never adopt an identifier we did not issue for a new session.
		if rec != nil {
			if err := s.m.store.Delete(ctx, id); err != nil {
				return errors.Join(ErrStore, err)
			}
		}
		newID, err := s.m.newID()
		if err != nil {
			return err
		}
		s.id = newID
		s.record = &Record{
			Lineage: uuid.New(),
			Type:    policy.Type,
			Data:    make(map[string]any),
		}
		event.Kind = EventCreated
	} else {
		s.id, s.record = id, rec

		ok, score, err := s.isValid(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return s.Destroy(ctx)
		}
		event.Score = score

		if err := s.RegenerateID(ctx, true); err != nil {
			return err
		}
	}

	s.record.Fingerprint = s.m.collector.Collect(s.r)
	s.record.LastActiveAt = s.m.now()

	if err := s.save(ctx); err != nil {
		return err
	}
	// A retiring copy keeps serving in-flight requests; its identifier must
	// not overwrite the newer one the client already holds.
	if !s.record.Retiring() {
		if err := s.writeIdentifier(); err != nil {
			return err
		}
	}

	s.m.logger.DebugContext(ctx, "session started",
		logger.Event(string(event.Kind)),
		logger.SessionType(string(s.record.Type)),
		logger.Lineage(s.record.Lineage),
	)
	s.m.emit(ctx, event)
	return nil
}

// Destroy removes the current session from the store, removes sessions bound
// to any other identifier the client carries, and clears the identifier of
// every session type on the client.
func (s *Session) Destroy(ctx context.Context) error {
	var errs []error
	if s.id != "" && s.record != nil {
		if err := s.m.store.Delete(ctx, s.id); err != nil {
			errs = append(errs, errors.Join(ErrStore, err))
		}
	}

	for _, t := range Types() {
		policy, _ := s.m.config.Policy(t)
		name := policy.CookieName

		carried := s.identifier(name)
		if carried != "" && carried != s.id {
			if err := s.m.store.Delete(ctx, carried); err != nil {
				errs = append(errs, errors.Join(ErrStore, err))
			}
		}
		if carried == "" && s.issued[name] == "" {
			continue
		}
		if err := s.m.transport.Clear(s.w, name, s.attributes(policy)); err != nil {
			errs = append(errs, errors.Join(ErrTransport, err))
		}
		delete(s.issued, name)
		s.cleared[name] = true
	}

	if s.record != nil {
		s.m.logger.DebugContext(ctx, "session destroyed", logger.Lineage(s.record.Lineage))
		s.m.emit(ctx, Event{Kind: EventDestroyed, Type: s.record.Type})
	}

	s.unload()
	return errors.Join(errs...)
}

// unload forgets the loaded session without touching the store or client.
func (s *Session) unload() {
	s.id = ""
	s.record = nil
	s.rotated = false
	s.dirty = false
}

// RegenerateID moves the session to a new identifier. With intervalBased it
// only does so when the session has been idle for at least the refresh
// interval. The old identifier is not deleted: it is marked to expire after
// the grace window so concurrent requests still holding it keep working.
// A session already in rotation, either because it is a retiring copy or
// because this request rotated it, is left alone.
func (s *Session) RegenerateID(ctx context.Context, intervalBased bool) error {
	if !s.IsActive() {
		return ErrInactiveSession
	}

	now := s.m.now()
	if intervalBased && now.Sub(s.record.LastActiveAt) < s.m.config.RefreshInterval {
		return nil
	}
	if s.record.Retiring() || s.rotated {
		return nil
	}

	// The retiring copy must be durable before the new identifier exists.
	retiring := s.record.Clone()
	expireAt := now.Add(s.m.config.GraceWindow)
	retiring.ExpireAt = &expireAt
	if err := s.m.store.Save(ctx, s.id, retiring, s.m.config.GraceWindow); err != nil {
		return errors.Join(ErrStore, err)
	}

	newID, err := s.m.newID()
	if err != nil {
		return err
	}
	s.id = newID
	s.record.ExpireAt = nil
	s.rotated = true

	if err := s.save(ctx); err != nil {
		return err
	}
	if err := s.writeIdentifier(); err != nil {
		return err
	}

	s.m.logger.DebugContext(ctx, "session identifier rotated", logger.Lineage(s.record.Lineage))
	s.m.emit(ctx, Event{Kind: EventRotated, Type: s.record.Type})
	return nil
}

// IsValid runs the validation pipeline on the loaded session: lifetime
// checks, fingerprint challenge, then registered validators. It does not
// destroy the session; Start does that on failure.
func (s *Session) IsValid(ctx context.Context) (bool, error) {
	ok, _, err := s.isValid(ctx)
	return ok, err
}

func (s *Session) isValid(ctx context.Context) (bool, float64, error) {
	if s.record == nil {
		return false, 0, ErrInactiveSession
	}

	if reason := s.validate(); reason != "" {
		s.reject(ctx, reason, 0)
		return false, 0, nil
	}

	ok, score, err := s.challenge()
	if err != nil {
		return false, 0, err
	}
	if !ok {
		s.reject(ctx, ReasonChallenge, score)
		return false, score, nil
	}

	for _, v := range s.m.validators {
		if !v(ctx, s) {
			s.reject(ctx, ReasonValidator, score)
			return false, score, nil
		}
	}
	return true, score, nil
}

// validate checks lifetime constraints and returns the rejection reason, or
// "" when the session may continue.
func (s *Session) validate() string {
	rec := s.record
	if rec.Type == "" || rec.LastActiveAt.IsZero() {
		return ReasonIncomplete
	}

	now := s.m.now()
	if rec.ExpireAt != nil && now.After(*rec.ExpireAt) {
		return ReasonRetired
	}

	duration, ok := s.m.config.Duration(rec.Type)
	if !ok || now.Sub(rec.LastActiveAt) > duration {
		return ReasonIdle
	}
	return ""
}

// challenge compares the recorded fingerprint with the current request.
func (s *Session) challenge() (bool, float64, error) {
	if len(s.record.Fingerprint) == 0 {
		return false, 0, ErrNoFingerprint
	}
	ok, score := fingerprint.Challenge(s.record.Fingerprint, s.m.collector.Collect(s.r), s.m.config.ChallengeThreshold)
	return ok, score, nil
}

func (s *Session) reject(ctx context.Context, reason string, score float64) {
	s.m.logger.WarnContext(ctx, "session rejected",
		logger.Reason(reason),
		logger.Score(score),
		logger.SessionType(string(s.record.Type)),
		logger.Lineage(s.record.Lineage),
		logger.Fingerprints(s.recordedHash(), s.m.collector.Collect(s.r).Hash()),
	)
	s.m.emit(ctx, Event{Kind: EventRejected, Type: s.record.Type, Reason: reason, Score: score})
}

func (s *Session) recordedHash() string {
	if len(s.record.Fingerprint) == 0 {
		return ""
	}
	return s.record.Fingerprint.Hash()
}

// IsActive reports whether a session is loaded and carries both a type and
// a last activity time.
func (s *Session) IsActive() bool {
	return s.record != nil && s.record.Type != "" && !s.record.LastActiveAt.IsZero()
}

// ID returns the current identifier, or "" without an active session.
func (s *Session) ID() string {
	if !s.IsActive() {
		return ""
	}
	return s.id
}

// Type returns the session type, or "" without an active session.
func (s *Session) Type() Type {
	if !s.IsActive() {
		return ""
	}
	return s.record.Type
}

// Lineage returns the identifier-independent session id.
func (s *Session) Lineage() (uuid.UUID, bool) {
	if !s.IsActive() {
		return uuid.Nil, false
	}
	return s.record.Lineage, true
}

// LastActiveAt returns the time of the last successful validation.
func (s *Session) LastActiveAt() time.Time {
	if !s.IsActive() {
		return time.Time{}
	}
	return s.record.LastActiveAt
}

// UserID returns the bound user, if any.
func (s *Session) UserID() (int64, bool) {
	if !s.IsActive() || s.record.UserID == nil {
		return 0, false
	}
	return *s.record.UserID, true
}

// SetUserID binds a user to the active session. It does not validate the
// session; callers authenticate first.
func (s *Session) SetUserID(id int64) error {
	if !s.IsActive() {
		return ErrInactiveSession
	}
	s.record.UserID = &id
	s.dirty = true
	return nil
}

// IsLoggedIn reports whether the session is active and bound to a user.
func (s *Session) IsLoggedIn() bool {
	_, ok := s.UserID()
	return ok
}

// ForceAuthenticated returns true for logged-in sessions. Otherwise it
// redirects the client to the configured login URL and returns false; the
// caller must stop handling the request.
func (s *Session) ForceAuthenticated() bool {
	if s.IsLoggedIn() {
		return true
	}
	s.m.redirector.Redirect(s.w, s.r, s.m.config.LoginURL)
	return false
}

// Get retrieves a value from the session data.
func (s *Session) Get(key string) (any, bool) {
	if !s.IsActive() || s.record.Data == nil {
		return nil, false
	}
	val, ok := s.record.Data[key]
	return val, ok
}

// GetString retrieves a string value from the session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value. Numbers decoded from JSON stores arrive as
// float64 and are converted.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from the session data.
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in the session data.
func (s *Session) Set(key string, value any) error {
	if !s.IsActive() {
		return ErrInactiveSession
	}
	if s.record.Data == nil {
		s.record.Data = make(map[string]any)
	}
	s.record.Data[key] = value
	s.dirty = true
	return nil
}

// Delete removes a value from the session data.
func (s *Session) Delete(key string) error {
	if !s.IsActive() {
		return ErrInactiveSession
	}
	delete(s.record.Data, key)
	s.dirty = true
	return nil
}

// Commit persists changes made after the session was started. It is a
// no-op when nothing changed.
func (s *Session) Commit(ctx context.Context) error {
	if !s.dirty || !s.IsActive() {
		return nil
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *Session) save(ctx context.Context) error {
	if err := s.m.store.Save(ctx, s.id, s.record, s.m.ttl(s.record)); err != nil {
		return errors.Join(ErrStore, err)
	}
	s.dirty = false
	return nil
}

// identifier returns the identifier the client carries under name, ignoring
// names cleared during this request.
func (s *Session) identifier(name string) string {
	if s.cleared[name] {
		return ""
	}
	id, err := s.m.transport.ReadIdentifier(s.r, name)
	if err != nil {
		return ""
	}
	return id
}

// writeIdentifier sends the current identifier, refreshing its expiry.
func (s *Session) writeIdentifier() error {
	name := s.policy.CookieName
	if s.issued[name] == s.id {
		return nil
	}
	if err := s.m.transport.WriteIdentifier(s.w, name, s.id, s.attributes(s.policy)); err != nil {
		return errors.Join(ErrTransport, err)
	}
	s.issued[name] = s.id
	delete(s.cleared, name)
	return nil
}

func (s *Session) attributes(p Policy) Attributes {
	return Attributes{
		MaxAge:   p.Duration,
		Domain:   p.Domain,
		Path:     p.Path,
		Secure:   p.Secure || s.r.TLS != nil,
		HTTPOnly: p.HTTPOnly,
	}
}

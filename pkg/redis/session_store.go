package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionguard/pkg/session"
)

// SessionStore implements session.Store on Redis. Each record is a JSON
// string whose key expiry follows the ttl passed to Save. Records bound to a
// user are also indexed per user so all of them can be revoked at once.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

var _ session.Store = (*SessionStore)(nil)

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithKeyPrefix sets the key namespace. Default is "sess".
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *SessionStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client redis.UniversalClient, opts ...StoreOption) *SessionStore {
	s := &SessionStore{client: client, prefix: "sess"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *SessionStore) userKey(userID int64) string {
	return s.prefix + ":user:" + strconv.FormatInt(userID, 10)
}

// Load returns the record bound to id.
func (s *SessionStore) Load(ctx context.Context, id string) (*session.Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Join(ErrCorruptRecord, err)
	}
	return &rec, nil
}

// Save writes the record and refreshes its expiry.
func (s *SessionStore) Save(ctx context.Context, id string, rec *session.Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}

	var userKey string
	extendIndex := false
	if rec.UserID != nil {
		userKey = s.userKey(*rec.UserID)
		if ttl > 0 && !rec.Retiring() {
			extendIndex, err = s.indexNeedsTTL(ctx, userKey, ttl)
			if err != nil {
				return err
			}
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(id), data, ttl)
		if userKey != "" {
			pipe.SAdd(ctx, userKey, id)
			if extendIndex {
				pipe.Expire(ctx, userKey, ttl)
			}
		}
		return nil
	})
	return err
}

// indexNeedsTTL reports whether the user index must be given ttl. The index
// lives as long as the longest-lived session in it, so its expiry is only
// ever pushed forward.
func (s *SessionStore) indexNeedsTTL(ctx context.Context, userKey string, ttl time.Duration) (bool, error) {
	current, err := s.client.PTTL(ctx, userKey).Result()
	if err != nil {
		return false, err
	}
	// Negative means missing or without expiry; the SADD that follows
	// creates the key, which then needs one.
	return current < ttl, nil
}

// Delete removes the record bound to id. Missing ids are ignored.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	rec, err := s.Load(ctx, id)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil
	}
	if err != nil && !errors.Is(err, ErrCorruptRecord) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		if rec != nil && rec.UserID != nil {
			pipe.SRem(ctx, s.userKey(*rec.UserID), id)
		}
		return nil
	})
	return err
}

// DeleteUserSessions removes every session bound to userID, e.g. after a
// password change.
func (s *SessionStore) DeleteUserSessions(ctx context.Context, userID int64) error {
	userKey := s.userKey(userID)
	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Del(ctx, s.key(id))
		}
		pipe.Del(ctx, userKey)
		return nil
	})
	return err
}

// UserSessionCount returns how many live sessions are bound to userID.
func (s *SessionStore) UserSessionCount(ctx context.Context, userID int64) (int, error) {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	n, err := s.client.Exists(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Ping reports whether the server backing the store answers.
func (s *SessionStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

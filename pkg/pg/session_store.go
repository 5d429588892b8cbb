package pg

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/sessionguard/pkg/logger"
	"github.com/dmitrymomot/sessionguard/pkg/session"
)

var _ session.Store = (*SessionStore)(nil)

// SessionStore implements session.Store on PostgreSQL. Records are stored
// as JSONB; expired rows are invisible to Load and removed by DeleteExpired.
type SessionStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewSessionStore creates a store on an already migrated database.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool, now: time.Now}
}

const (
	loadQuery = `SELECT record FROM sessions
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)`

	saveQuery = `INSERT INTO sessions (id, lineage, user_id, record, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			lineage = EXCLUDED.lineage,
			user_id = EXCLUDED.user_id,
			record = EXCLUDED.record,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`

	deleteQuery        = `DELETE FROM sessions WHERE id = $1`
	deleteExpiredQuery = `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`
	deleteUserQuery    = `DELETE FROM sessions WHERE user_id = $1`
)

// Load returns the record bound to id.
func (s *SessionStore) Load(ctx context.Context, id string) (*session.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, loadQuery, id, s.now()).Scan(&data)
	if IsNotFoundError(err) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save upserts the record. A positive ttl sets expires_at.
func (s *SessionStore) Save(ctx context.Context, id string, rec *session.Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	now := s.now()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}

	_, err = s.pool.Exec(ctx, saveQuery, id, rec.Lineage, rec.UserID, data, expiresAt, now)
	return err
}

// Delete removes the record bound to id.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, deleteQuery, id)
	return err
}

// DeleteExpired removes rows past their expiry and returns how many.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, deleteExpiredQuery, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteUserSessions removes every session bound to userID.
func (s *SessionStore) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, deleteUserQuery, userID)
	return err
}

// RunCleanup calls DeleteExpired every interval until ctx is done.
func (s *SessionStore) RunCleanup(ctx context.Context, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				log.ErrorContext(ctx, "failed to delete expired sessions", logger.Error(err))
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "deleted expired sessions", slog.Int64("count", n))
			}
		}
	}
}

// Ping reports whether the database answers and the sessions table exists.
func (s *SessionStore) Ping(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `SELECT 1 FROM sessions LIMIT 0`); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

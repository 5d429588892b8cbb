package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionguard/pkg/session"
)

var _ session.Store = (*SessionStore)(nil)

type sessionDocument struct {
	ID        string          `bson:"_id"`
	UserID    *int64          `bson:"user_id,omitempty"`
	Record    *session.Record `bson:"record"`
	ExpiresAt *time.Time      `bson:"expires_at,omitempty"`
}

// SessionStore implements session.Store on a MongoDB collection. A TTL
// index on expires_at lets the server remove expired documents; Load also
// filters on it because the TTL monitor runs only once a minute.
type SessionStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewSessionStore creates a store on coll. Call EnsureIndexes once at startup.
func NewSessionStore(coll *mongo.Collection) *SessionStore {
	return &SessionStore{coll: coll, now: time.Now}
}

// EnsureIndexes creates the TTL index and the per-user index.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return errors.Join(ErrIndexCreation, err)
	}
	return nil
}

// Load returns the record bound to id.
func (s *SessionStore) Load(ctx context.Context, id string) (*session.Record, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: s.now()}}}},
		}},
	}

	var doc sessionDocument
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if doc.Record == nil {
		return nil, session.ErrSessionNotFound
	}
	return doc.Record, nil
}

// Save upserts the record. A positive ttl sets expires_at.
func (s *SessionStore) Save(ctx context.Context, id string, rec *session.Record, ttl time.Duration) error {
	doc := sessionDocument{ID: id, UserID: rec.UserID, Record: rec}
	if ttl > 0 {
		t := s.now().Add(ttl)
		doc.ExpiresAt = &t
	}

	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	return err
}

// Delete removes the record bound to id.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

// DeleteUserSessions removes every session bound to userID.
func (s *SessionStore) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := s.coll.DeleteMany(ctx, bson.D{{Key: "user_id", Value: userID}})
	return err
}

// Ping reports whether the deployment holding the sessions collection answers.
func (s *SessionStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

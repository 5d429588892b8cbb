package session

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
)

// Record is the persisted state bound to a session identifier.
type Record struct {
	// Lineage survives identifier rotation, so log lines and metrics can
	// follow one session across its identifiers.
	Lineage      uuid.UUID               `json:"lineage" bson:"lineage"`
	Type         Type                    `json:"type,omitempty" bson:"type,omitempty"`
	UserID       *int64                  `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Fingerprint  fingerprint.Fingerprint `json:"fingerprint,omitempty" bson:"fingerprint,omitempty"`
	LastActiveAt time.Time               `json:"last_active_at" bson:"last_active_at"`
	// ExpireAt is set only on the retiring copy left behind by a rotation.
	ExpireAt *time.Time     `json:"expire_at,omitempty" bson:"expire_at,omitempty"`
	Data     map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// Retiring reports whether the record is a rotated-away copy.
func (r *Record) Retiring() bool {
	return r != nil && r.ExpireAt != nil
}

// Clone returns a deep copy of the record's own fields. Values stored in
// Data are copied shallowly.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.UserID != nil {
		uid := *r.UserID
		c.UserID = &uid
	}
	if r.ExpireAt != nil {
		exp := *r.ExpireAt
		c.ExpireAt = &exp
	}
	c.Fingerprint = r.Fingerprint.Clone()
	if r.Data != nil {
		c.Data = maps.Clone(r.Data)
	}
	return &c
}

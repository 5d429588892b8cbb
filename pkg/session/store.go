package session

import (
	"context"
	"time"
)

// Store persists records keyed by session identifier.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the record bound to id or ErrSessionNotFound.
	Load(ctx context.Context, id string) (*Record, error)

	// Save creates or replaces the record bound to id. The store may drop the
	// record once ttl has passed; a non-positive ttl means no expiry.
	Save(ctx context.Context, id string, record *Record, ttl time.Duration) error

	// Delete removes the record bound to id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

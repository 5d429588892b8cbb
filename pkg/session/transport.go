package session

import (
	"net/http"
	"time"
)

// Attributes describe how an identifier is carried back to the client.
type Attributes struct {
	MaxAge   time.Duration
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
}

// Transport carries session identifiers between client and server.
// Each session type uses its own name, so one client can hold a temporary
// and a continuous identifier at the same time.
type Transport interface {
	// ReadIdentifier returns the identifier stored under name, or
	// ErrSessionNotFound when the request carries none.
	ReadIdentifier(r *http.Request, name string) (string, error)

	// WriteIdentifier sends id under name with the given attributes.
	WriteIdentifier(w http.ResponseWriter, name, id string, attrs Attributes) error

	// Clear tells the client to forget the identifier stored under name.
	Clear(w http.ResponseWriter, name string, attrs Attributes) error
}

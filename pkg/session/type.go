package session

import "fmt"

// Type selects the session policy. It is fixed when a session is created.
type Type string

const (
	// Temporary sessions track anonymous visitors for a short time.
	Temporary Type = "temporary"
	// Continuous sessions carry logged-in users and live much longer.
	Continuous Type = "continuous"
)

// Types returns every known session type.
func Types() []Type {
	return []Type{Temporary, Continuous}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t == Temporary || t == Continuous
}

// resolveType maps the zero value to Continuous and rejects unknown types.
func resolveType(t Type) (Type, error) {
	if t == "" {
		return Continuous, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	return t, nil
}

package session

import "errors"

var (
	// ErrInactiveSession is returned when an operation needs an active
	// session and there is none. It signals misuse by the caller.
	ErrInactiveSession = errors.New("session.inactive")

	// ErrUnknownType indicates a session type without a policy.
	ErrUnknownType = errors.New("session.unknown_type")

	// ErrNoFingerprint indicates a challenge against a session that never
	// recorded a fingerprint.
	ErrNoFingerprint = errors.New("session.no_fingerprint")

	// ErrSessionNotFound is returned by stores and transports when nothing is
	// bound to the identifier.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrIDGeneration indicates the random source failed.
	ErrIDGeneration = errors.New("session.id_generation_failed")

	// ErrStore wraps failures reported by the Store.
	ErrStore = errors.New("session.store_failed")

	// ErrTransport wraps failures reported by the Transport.
	ErrTransport = errors.New("session.transport_failed")
)

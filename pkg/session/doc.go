// Package session manages server-side sessions whose identifiers are bound
// to a fingerprint of the client that created them.
//
// Two session types exist. Temporary sessions track anonymous visitors for a
// short time; continuous sessions carry logged-in users. Each type uses its
// own identifier name, so a client may hold both.
//
// # Architecture
//
// A Manager holds policy and collaborators and is shared by all requests.
// Manager.Session returns the per-request handle, which loads at most one
// session and exposes the lifecycle operations.
//
//	┌────────┐ identifier ┌───────────┐
//	│ Client │ ─────────► │ Transport │
//	└────────┘            └───────────┘
//	                            │
//	                            ▼
//	┌────────────────────────────────────┐
//	│ Session (per request)              │
//	│  validate → challenge → validators │
//	└────────────────────────────────────┘
//	                            │ Load / Save(ttl) / Delete
//	                            ▼
//	                      ┌───────────┐
//	                      │   Store   │ (memory, redis, pg, mongo)
//	                      └───────────┘
//
// # Validation
//
// A resumed session must carry a type and a last activity time, must not be
// a retiring copy past its grace window, and must have been active within the
// type's duration. The recorded fingerprint is then challenged against the
// current request (see package fingerprint), and finally every validator
// registered WithValidator runs. Any failure destroys the session.
//
// # Rotation
//
// Once a session has been idle for the refresh interval, resuming it moves
// the record to a new identifier. The old identifier stays usable for the
// grace window so parallel requests in flight keep working. A request that
// arrives with a retiring identifier is served but does not overwrite the
// client's newer identifier.
//
// # Usage
//
//	cookieMgr, _ := cookie.New([]string{"secret-key-at-least-32-bytes-long"})
//	manager := session.New(
//	    session.WithCookieManager(cookieMgr),
//	    session.WithStore(redis.NewSessionStore(client)),
//	)
//
//	func login(w http.ResponseWriter, r *http.Request) {
//	    s := manager.Session(w, r)
//	    if err := s.Create(r.Context(), session.Continuous); err != nil { ... }
//	    _ = s.SetUserID(user.ID)
//	    _ = s.Commit(r.Context())
//	}
//
// Middleware resumes sessions and puts the handle in the request context;
// RequireAuth redirects anonymous clients to the login URL.
//
//	r.Use(manager.Middleware)
//	r.With(manager.RequireAuth).Get("/account", account)
//
// # Errors
//
// ErrInactiveSession signals misuse: calling SetUserID, Set, Delete or
// RegenerateID without an active session. Store and transport failures are
// joined with ErrStore and ErrTransport.
package session

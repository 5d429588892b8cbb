// Package cookie writes and reads HTTP cookies, optionally signed with
// HMAC-SHA256 so a client cannot forge or alter them.
//
// Signing keys are derived from the configured secrets with HKDF. The first
// secret signs new cookies and every secret is tried during verification,
// which allows rotating secrets without logging everyone out.
//
// # Usage
//
//	mgr, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	if err != nil {
//	    return err
//	}
//
//	_ = mgr.SetSigned(w, "sid", token, cookie.WithMaxAge(3600))
//	token, err := mgr.GetSigned(r, "sid")
//	mgr.Delete(w, "sid")
//
// Defaults are Path "/", HttpOnly and SameSite=Lax; per-call options override
// them. Delete accepts the same options because browsers only drop a cookie
// whose path and domain match.
//
// # Errors
//
// ErrCookieNotFound, ErrInvalidFormat and ErrInvalidSignature are returned by
// the getters; ErrNoSecret and ErrSecretTooShort by New.
package cookie

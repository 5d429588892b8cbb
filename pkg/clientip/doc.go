// Package clientip resolves the originating client address of an
// *http.Request. The address is one of the signals recorded in a session
// fingerprint, so which headers are trusted matters: behind a reverse proxy
// the proxy headers carry the client, while a directly exposed service must
// ignore them because any client can set them.
//
// The default resolver checks, in order:
//
//  1. CF-Connecting-IP
//  2. DO-Connecting-IP
//  3. X-Forwarded-For (first valid entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// # Usage
//
//	ip := clientip.GetIP(r)
//
//	// directly exposed service: trust nothing but the TCP peer
//	res := clientip.NewResolver(clientip.WithTrustedHeaders())
//	ip = res.Resolve(r)
//
//	// store the address in the request context
//	handler = res.Middleware(handler)
//	ip = clientip.GetIPFromContext(r.Context())
//
// Resolve never fails; an empty string means no valid address was found.
package clientip

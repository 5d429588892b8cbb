// Package redis connects to Redis and provides a session.Store backed by it.
//
// Connect retries until the server answers or the connect timeout passes.
// SessionStore.Ping serves as a readiness check.
//
// SessionStore keeps each session record as a JSON string under
// "<prefix>:<id>" with the expiry requested by the session manager, so Redis
// itself drops idle sessions and retiring identifiers. Sessions bound to a
// user are indexed under "<prefix>:user:<id>", which lets
// DeleteUserSessions sign a user out everywhere.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	manager := session.New(
//	    session.WithCookieManager(cookies),
//	    session.WithStore(redis.NewSessionStore(client, redis.WithKeyPrefix(cfg.KeyPrefix))),
//	)
package redis

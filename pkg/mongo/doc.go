// Package mongo connects to MongoDB and provides a session.Store backed by
// a collection.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := mongo.NewSessionStore(db.Collection(cfg.Collection))
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
//
// Each document holds the session record under "record" next to its
// user_id and expires_at, which carry the indexes.
package mongo

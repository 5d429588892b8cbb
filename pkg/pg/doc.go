// Package pg connects to PostgreSQL through pgx and provides a
// session.Store backed by a "sessions" table.
//
// Migrate applies the embedded goose migrations, so a fresh database only
// needs Connect followed by Migrate:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	store := pg.NewSessionStore(pool)
//	go store.RunCleanup(ctx, 5*time.Minute, log)
//
// Unlike Redis, PostgreSQL does not expire rows by itself. Load ignores rows
// past expires_at and RunCleanup deletes them periodically.
package pg

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/sessionguard/pkg/config"
	"github.com/dmitrymomot/sessionguard/pkg/httpserver"
	"github.com/dmitrymomot/sessionguard/pkg/logger"
	"github.com/dmitrymomot/sessionguard/pkg/mongo"
	"github.com/dmitrymomot/sessionguard/pkg/pg"
	"github.com/dmitrymomot/sessionguard/pkg/redis"
	"github.com/dmitrymomot/sessionguard/pkg/session"
)

// storeBackend is an opened session store with its readiness checks.
type storeBackend struct {
	store  session.Store
	checks []httpserver.Check
	close  func(context.Context) error
}

func openStore(ctx context.Context, kind string, sessCfg session.Config, log *slog.Logger) (*storeBackend, error) {
	log = log.With(logger.Store(kind))

	switch kind {
	case "", "memory":
		store := session.NewMemoryStore(sessCfg.CleanupInterval)
		return &storeBackend{
			store: store,
			close: func(context.Context) error { return store.Close() },
		}, nil

	case "redis":
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := redis.NewSessionStore(client, redis.WithKeyPrefix(cfg.KeyPrefix))
		log.InfoContext(ctx, "session store connected")
		return &storeBackend{
			store:  store,
			checks: []httpserver.Check{{Name: "redis", Ping: store.Ping}},
			close:  func(context.Context) error { return client.Close() },
		}, nil

	case "postgres":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		store := pg.NewSessionStore(pool)
		if sessCfg.CleanupInterval > 0 {
			go store.RunCleanup(ctx, sessCfg.CleanupInterval, log)
		}
		log.InfoContext(ctx, "session store connected")
		return &storeBackend{
			store:  store,
			checks: []httpserver.Check{{Name: "postgres", Ping: store.Ping}},
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case "mongo":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := mongo.NewSessionStore(client.Database(cfg.Database).Collection(cfg.Collection))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.InfoContext(ctx, "session store connected")
		return &storeBackend{
			store:  store,
			checks: []httpserver.Check{{Name: "mongo", Ping: store.Ping}},
			close:  client.Disconnect,
		}, nil
	}

	return nil, fmt.Errorf("unknown session store %q", kind)
}

package main

import (
	"context"
	"database/sql"
	"log/slog"

	"donorlink/internal/catalog"
	"donorlink/internal/donation/store"
	"donorlink/internal/platform/config"
	"donorlink/internal/platform/postgres"
	"donorlink/internal/platform/redis"
)

// stores is the CLI's view of the donation backends.
type stores struct {
	db       *sql.DB
	postgres *store.PostgresStore
	redis    *redis.Client
	cache    *store.RedisCache
	source   catalog.DonationSource
}

func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*stores, error) {
	s := &stores{}
	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := store.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		s.db = db
		s.postgres = store.NewPostgresStore(db)
		s.source = s.postgres
	} else {
		log.Warn("no postgres DSN configured; using an empty in-memory store")
		s.source = store.NewInMemoryStore()
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		s.Close()
		return nil, err
	}
	if client != nil {
		s.redis = client
		s.cache = store.NewRedisCache(client.Client, s.source, cfg.Catalog.CacheTTL, store.WithCacheLogger(log))
		s.source = s.cache
	}
	return s, nil
}

func (s *stores) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

package store

import (
	"context"
	"fmt"
	"log"

	"podcast-pipeline/pkg/config"
)

// Open builds the record store selected by the configuration and connects it.
// The returned close function releases the backend connection (a no-op for the
// file store).
func Open(ctx context.Context, cfg config.Config) (RecordStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case "file":
		return NewFileStore(cfg.Store.DataDir), noop, nil

	case "mongo":
		if cfg.Store.MongoURI == "" {
			return nil, nil, fmt.Errorf("mongo backend requires store.mongo_uri")
		}
		s := NewMongoStore(cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.MongoCollection)
		if err := s.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return s, func() error { return s.Close(context.Background()) }, nil

	case "postgres":
		if cfg.Store.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres backend requires store.postgres_dsn")
		}
		s := NewPostgresStore(PostgresConfig{DSN: cfg.Store.PostgresDSN})
		if err := s.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case "supabase":
		s := NewSupabaseStore(SupabaseConfig{
			SupabaseURL: cfg.Store.SupabaseURL,
			SupabaseKey: cfg.SupabaseKey,
			Password:    cfg.Store.SupabasePassword,
		})
		if err := s.Connect(ctx); err != nil {
			return nil, nil, err
		}
		if s.HasDirectDB() {
			log.Printf("Supabase store connected via direct database")
		} else {
			log.Printf("Supabase store connected via REST API")
		}
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

package memory

import (
	"context"
	"fmt"
)

// Open constructs the configured store backend, ensures its schema, and
// wraps it in a Service. dbType must be "postgres" or "sqlite".
func Open(ctx context.Context, dbType, databaseURL string, embedder Embedder, extractor Extractor) (*Service, error) {
	switch dbType {
	case "postgres":
		store, err := NewPostgresStore(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := store.InitSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return NewService(store, embedder, extractor), nil
	case "sqlite":
		store, err := NewSQLiteStore(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := store.InitSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return NewService(store, embedder, extractor), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", dbType)
	}
}

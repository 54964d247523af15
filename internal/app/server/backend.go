package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"onboarding/internal/platform/config"
	"onboarding/internal/platform/crypto"
	"onboarding/internal/platform/db"
	"onboarding/internal/platform/storage"
)

// Backend is the opened persistence layer plus whatever must be closed with it.
type Backend struct {
	Storage storage.Backend
	Pool    *pgxpool.Pool
	closers []func()
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// OpenBackend builds the storage backend named by cfg.StorageBackend. The
// postgres backend is migrated before use. Values are sealed when a data
// encryption key is configured.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	b := &Backend{}
	switch cfg.StorageBackend {
	case config.BackendMemory:
		b.Storage = storage.NewMemory()
	case config.BackendFile:
		file, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file backend: %w", err)
		}
		b.Storage = file
	case config.BackendSQLite:
		lite, err := storage.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		b.Storage = lite
		b.closers = append(b.closers, func() {
			if err := lite.Close(); err != nil {
				slog.Warn("sqlite close failed", "err", err)
			}
		})
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		if err := db.Migrate(ctx, pool); err != nil {
			b.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		b.Pool = pool
		b.Storage = db.NewKVStore(pool)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	sealer, err := crypto.NewSealer(cfg.DataEncryptionKey)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("data encryption key: %w", err)
	}
	if sealer != nil {
		b.Storage = storage.NewSealed(b.Storage, sealer)
	}
	return b, nil
}

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"onboarding/internal/platform/storage"
)

// KVStore is a storage.Backend over the kv_store table.
type KVStore struct {
	DB *pgxpool.Pool
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{DB: pool}
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.DB.QueryRow(ctx, "SELECT value FROM kv_store WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO kv_store (key, value)
    VALUES ($1, $2)
    ON CONFLICT (key) DO UPDATE
      SET value = EXCLUDED.value,
          updated_at = now()
  `, key, string(value))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.DB.Exec(ctx, "DELETE FROM kv_store WHERE key = $1", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

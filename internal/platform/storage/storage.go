// Package storage provides the key/value backends that mirror browser
// storage: every value is an opaque JSON document stored under a string key.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage key not found")

// Backend is a durable key/value store. Get returns ErrNotFound for a
// missing key; Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends with a remote dependency worth probing
// from a readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

package storage

import (
	"context"
	"fmt"
)

type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Sealed encrypts values before they reach the wrapped backend.
type Sealed struct {
	Backend
	sealer Sealer
}

func NewSealed(backend Backend, sealer Sealer) *Sealed {
	return &Sealed{Backend: backend, sealer: sealer}
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.Backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := s.sealer.Open(value)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return plain, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.Backend.Set(ctx, key, sealed)
}

func (s *Sealed) Ping(ctx context.Context) error {
	if pinger, ok := s.Backend.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

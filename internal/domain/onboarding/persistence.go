package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"onboarding/internal/platform/storage"
)

// Persistence mirrors the store's collections into a key/value backend.
// It is best effort: failures are logged and never returned.
type Persistence struct {
	backend storage.Backend
	logger  *slog.Logger
}

func NewPersistence(backend storage.Backend, logger *slog.Logger) *Persistence {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persistence{backend: backend, logger: logger}
}

// Load reads each collection key. Missing or malformed keys leave that collection nil.
func (p *Persistence) Load(ctx context.Context) Snapshot {
	var snap Snapshot
	loadKey(ctx, p, KeyTasks, &snap.Tasks)
	loadKey(ctx, p, KeyEmployees, &snap.Employees)
	loadKey(ctx, p, KeyFeedbackSurveys, &snap.Surveys)
	loadKey(ctx, p, KeyFeedbackQuestions, &snap.Questions)
	return snap
}

func loadKey[T any](ctx context.Context, p *Persistence, key string, out *T) {
	raw, err := p.backend.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		p.logger.Warn("load collection failed", "key", key, "err", err)
		return
	}
	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		p.logger.Warn("decode collection failed", "key", key, "err", err)
		return
	}
	*out = decoded
}

// Save writes every collection unconditionally.
func (p *Persistence) Save(ctx context.Context, snap Snapshot) {
	p.save(ctx, KeyTasks, snap.Tasks)
	p.save(ctx, KeyEmployees, snap.Employees)
	p.save(ctx, KeyFeedbackSurveys, snap.Surveys)
	p.save(ctx, KeyFeedbackQuestions, snap.Questions)
}

func (p *Persistence) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		p.logger.Warn("encode collection failed", "key", key, "err", err)
		return
	}
	if err := p.backend.Set(ctx, key, raw); err != nil {
		p.logger.Warn("save collection failed", "key", key, "err", err)
	}
}

func (p *Persistence) Clear(ctx context.Context) {
	for _, key := range PersistedKeys {
		if err := p.backend.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("clear collection failed", "key", key, "err", err)
		}
	}
}

// Ping checks the backend when it supports health checks.
func (p *Persistence) Ping(ctx context.Context) error {
	if pinger, ok := p.backend.(storage.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

package onboarding

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the single source of truth for onboarding data. Every mutation
// is mirrored to the Persistence adapter; concurrent writers are last-write-wins.
type Store struct {
	mu          sync.RWMutex
	persistence *Persistence
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string

	tasks     map[string][]Task
	employees []Employee
	surveys   []FeedbackSurvey
	questions []FeedbackQuestion
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore loads persisted state, seeds whatever collections are empty and saves.
func NewStore(ctx context.Context, persistence *Persistence, opts ...Option) *Store {
	s := &Store{
		persistence: persistence,
		logger:      slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap := persistence.Load(ctx)
	s.tasks = snap.Tasks
	s.employees = snap.Employees
	s.surveys = snap.Surveys
	s.questions = snap.Questions

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked()
	s.saveLocked(ctx)
	return s
}

// seedLocked fills empty task and employee collections. Seeded employees keep
// their hardcoded progress and status; no recompute runs here.
func (s *Store) seedLocked() {
	now := s.now()
	if len(s.tasks) == 0 {
		s.tasks = defaultSeed.tasks(now)
	}
	if len(s.employees) == 0 {
		s.employees = defaultSeed.employees(now)
	}
	if s.surveys == nil {
		s.surveys = []FeedbackSurvey{}
	}
}

func (s *Store) saveLocked(ctx context.Context) {
	s.persistence.Save(ctx, Snapshot{
		Tasks:     s.tasks,
		Employees: s.employees,
		Surveys:   s.surveys,
		Questions: s.questions,
	})
}

// ClearAllData wipes memory and persisted keys, then reseeds.
func (s *Store) ClearAllData(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	s.employees = nil
	s.surveys = nil
	s.questions = nil
	s.persistence.Clear(ctx)

	s.seedLocked()
	s.saveLocked(ctx)
	s.logger.Info("onboarding data reset")
}

// Snapshot returns a deep copy of every collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make(map[string][]Task, len(s.tasks))
	for id, list := range s.tasks {
		tasks[id] = append([]Task(nil), list...)
	}
	surveys := make([]FeedbackSurvey, len(s.surveys))
	for i, survey := range s.surveys {
		surveys[i] = cloneSurvey(survey)
	}
	return Snapshot{
		Tasks:     tasks,
		Employees: append([]Employee(nil), s.employees...),
		Surveys:   surveys,
		Questions: append([]FeedbackQuestion(nil), s.questions...),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.persistence.Ping(ctx)
}

func cloneSurvey(in FeedbackSurvey) FeedbackSurvey {
	out := in
	out.Responses = append([]FeedbackResponse{}, in.Responses...)
	if in.CompletedDate != nil {
		completed := *in.CompletedDate
		out.CompletedDate = &completed
	}
	if in.OverallScore != nil {
		score := *in.OverallScore
		out.OverallScore = &score
	}
	return out
}

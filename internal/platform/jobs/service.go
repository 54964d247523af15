package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"onboarding/internal/platform/metrics"
)

const JobSurveyCheck = "feedback_survey_check"

// Recorder persists job run history. Nil means runs are only logged.
type Recorder interface {
	StartRun(ctx context.Context, jobType string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
}

type RunFunc func(context.Context) (any, error)

type Service struct {
	recorder  Recorder
	metrics   *metrics.Collector
	queue     chan job
	schedules []schedule
	wg        sync.WaitGroup
}

type job struct {
	Type string
	Run  RunFunc
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      RunFunc
}

func New(recorder Recorder, collector *metrics.Collector) *Service {
	return &Service{
		recorder: recorder,
		metrics:  collector,
		queue:    make(chan job, 128),
	}
}

// Every registers run to be enqueued on each tick of interval once Start is called.
// A non-positive interval disables the schedule.
func (s *Service) Every(jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 {
		return
	}
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	for _, sc := range s.schedules {
		sc := sc
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.scheduleLoop(ctx, sc)
		}()
	}
}

// Wait blocks until the worker and schedulers have stopped after ctx cancellation.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType string, run RunFunc) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow runs a job on the caller's goroutine and records it like a queued run.
func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.recorder != nil {
		id, err := s.recorder.StartRun(ctx, j.Type)
		if err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
		runID = id
	}

	started := time.Now()
	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
		s.metrics.JobFailed()
	}
	slog.Info("job run finished", "jobType", j.Type, "status", status, "durationMs", time.Since(started).Milliseconds())

	if runID == "" {
		return details, err
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if updErr := s.recorder.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
		slog.Warn("job run update failed", "jobType", j.Type, "err", updErr)
	}
	return details, err
}

func (s *Service) scheduleLoop(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.jobType, sc.run)
		}
	}
}

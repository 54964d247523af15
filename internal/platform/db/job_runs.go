package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// JobRunStore records background job runs in the job_runs table.
type JobRunStore struct {
	DB *pgxpool.Pool
}

func NewJobRunStore(pool *pgxpool.Pool) *JobRunStore {
	return &JobRunStore{DB: pool}
}

func (s *JobRunStore) StartRun(ctx context.Context, jobType string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id::text
  `, jobType, "running").Scan(&id)
	return id, err
}

func (s *JobRunStore) FinishRun(ctx context.Context, runID, status string, details []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3::bigint
  `, status, details, runID)
	return err
}

// Package runlog keeps a history of workflow runs in sqlite.
package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bcflow/internal/components/chrono"
	"bcflow/internal/runlog/db"

	"github.com/google/uuid"
)

var ErrUnknownRun = errors.New("unknown run")

type Run struct {
	ID         string     `json:"id" yaml:"id"`
	Workflow   string     `json:"workflow" yaml:"workflow"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Status     db.Status  `json:"status" yaml:"status"`
	Identifier string     `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Screenshot string     `json:"screenshot,omitempty" yaml:"screenshot,omitempty"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Duration is zero for a run that has not finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome is how a run ended, a non-nil Err marks it failed.
type Outcome struct {
	Identifier string
	Screenshot string
	Err        error
}

type Store struct {
	qry   *db.Queries
	clock chrono.API
}

func NewStore(database *sql.DB, clock chrono.API) Store {
	return Store{qry: db.New(database), clock: clock}
}

func (s Store) Begin(ctx context.Context, workflow string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Workflow:  workflow,
		StartedAt: s.clock.Now().Truncate(time.Second),
		Status:    db.STATUS_RUNNING,
	}
	err := s.qry.CreateRun(ctx, db.CreateRunParams{
		ID:        run.ID,
		Workflow:  run.Workflow,
		StartedAt: run.StartedAt.Unix(),
	})
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

func (s Store) Finish(ctx context.Context, run Run, outcome Outcome) (Run, error) {
	finished := s.clock.Now().Truncate(time.Second)
	run.FinishedAt = &finished
	run.Identifier = outcome.Identifier
	run.Screenshot = outcome.Screenshot
	run.Status = db.STATUS_SUCCEEDED
	run.Error = ""
	if outcome.Err != nil {
		run.Status = db.STATUS_FAILED
		run.Error = outcome.Err.Error()
	}

	n, err := s.qry.FinishRun(ctx, db.FinishRunParams{
		FinishedAt: finished.Unix(),
		Status:     string(run.Status),
		Identifier: run.Identifier,
		Screenshot: run.Screenshot,
		Error:      run.Error,
		ID:         run.ID,
	})
	if err != nil {
		return run, fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return run, fmt.Errorf("%w: %s", ErrUnknownRun, run.ID)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.qry.GetRecentRuns(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	loc := s.clock.Location()
	runs := make([]Run, len(rows))
	for i, r := range rows {
		runs[i] = Run{
			ID:         r.ID,
			Workflow:   r.Workflow,
			StartedAt:  time.Unix(r.StartedAt, 0).In(loc),
			Status:     db.Status(r.Status),
			Identifier: r.Identifier,
			Screenshot: r.Screenshot,
			Error:      r.Error,
		}
		if r.FinishedAt.Valid {
			finished := time.Unix(r.FinishedAt.Int64, 0).In(loc)
			runs[i].FinishedAt = &finished
		}
	}
	return runs, nil
}

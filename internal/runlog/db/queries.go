package db

import (
	"context"
	"database/sql"
)

type WorkflowRun struct {
	ID         string
	Workflow   string
	StartedAt  int64
	FinishedAt sql.NullInt64
	Status     string
	Identifier string
	Screenshot string
	Error      string
}

const createRun = `insert into workflow_run (id, workflow, started_at, status)
values (?, ?, ?, 'running')`

type CreateRunParams struct {
	ID        string
	Workflow  string
	StartedAt int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun, arg.ID, arg.Workflow, arg.StartedAt)
	return err
}

const finishRun = `update workflow_run
set finished_at = ?, status = ?, identifier = ?, screenshot = ?, error = ?
where id = ?`

type FinishRunParams struct {
	FinishedAt int64
	Status     string
	Identifier string
	Screenshot string
	Error      string
	ID         string
}

func (q *Queries) FinishRun(ctx context.Context, arg FinishRunParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, finishRun,
		arg.FinishedAt,
		arg.Status,
		arg.Identifier,
		arg.Screenshot,
		arg.Error,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getRecentRuns = `select id, workflow, started_at, finished_at, status, identifier, screenshot, error
from workflow_run
order by started_at desc, rowid desc
limit ?`

func (q *Queries) GetRecentRuns(ctx context.Context, limit int64) ([]WorkflowRun, error) {
	rows, err := q.db.QueryContext(ctx, getRecentRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WorkflowRun
	for rows.Next() {
		var i WorkflowRun
		if err := rows.Scan(
			&i.ID,
			&i.Workflow,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Status,
			&i.Identifier,
			&i.Screenshot,
			&i.Error,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

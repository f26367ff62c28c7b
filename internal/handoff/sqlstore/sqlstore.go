// Package sqlstore keeps the handoff log in a sqlite or libsql database, for
// when several machines run workflows against the same tenant.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bcflow/internal/handoff"

	_ "embed"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ handoff.Store = Store{}

func NewStore(db *sql.DB) Store {
	return Store{db: db, now: time.Now}
}

func (s Store) Append(ctx context.Context, rec handoff.Record) error {
	err := rec.Validate()
	if err != nil {
		return err
	}
	key, value, _ := rec.Key()
	_, err = s.db.ExecContext(
		ctx,
		"insert into handoff_record (key, value, created_at) values (?, ?, ?)",
		key, value, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append handoff record: %w", err)
	}
	return nil
}

func (s Store) Latest(ctx context.Context) (handoff.Record, bool, error) {
	var key, value string
	err := s.db.QueryRowContext(
		ctx,
		"select key, value from handoff_record order by seq desc limit 1",
	).Scan(&key, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read latest handoff record: %w", err)
	}
	return handoff.NewRecord(key, value), true, nil
}

// Count returns the length of the log.
func (s Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "select count(*) from handoff_record").Scan(&n)
	return n, err
}

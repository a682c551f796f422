package db

import (
	"context"
	"database/sql"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type CreateRunParams struct {
	RunID       string
	StartedAt   int64
	Written     bool
	Reason      string
	PetrolCount int64
	DieselCount int64
	Error       string
}

func (q *Queries) CreateRun(ctx context.Context, p CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO pipeline_run (run_id, started_at, written, reason, petrol_count, diesel_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.RunID, p.StartedAt, p.Written, p.Reason, p.PetrolCount, p.DieselCount, p.Error,
	)
	return err
}

type Run struct {
	ID          int64
	RunID       string
	StartedAt   int64
	Written     bool
	Reason      string
	PetrolCount int64
	DieselCount int64
	Error       string
}

func (q *Queries) ListRecentRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, run_id, started_at, written, reason, petrol_count, diesel_count, error
		FROM pipeline_run
		ORDER BY started_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		err := rows.Scan(
			&r.ID, &r.RunID, &r.StartedAt, &r.Written,
			&r.Reason, &r.PetrolCount, &r.DieselCount, &r.Error,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

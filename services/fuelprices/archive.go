package fuelprices

import (
	"context"
	"database/sql"
	"time"

	"openfuel-backend/services/fuelprices/db"
)

// Archive keeps a row per pipeline run so operators can see what each
// cron invocation did without digging through logs. Trend analysis over
// the archived data is out of scope, this is an operational record.
type Archive struct {
	db  *sql.DB
	qry *db.Queries
}

// OpenArchive opens the run archive. driver defaults to the embedded
// sqlite driver; "libsql" works against a remote turso url.
func OpenArchive(driver, url string) (*Archive, error) {
	if driver == "" {
		driver = "sqlite"
	}
	database, err := sql.Open(driver, url)
	if err != nil {
		return nil, err
	}
	if _, err := database.Exec(db.Schema); err != nil {
		database.Close()
		return nil, err
	}
	return &Archive{db: database, qry: db.New(database)}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

type RunRecord struct {
	RunID       string
	StartedAt   time.Time
	Result      PersistResult
	PetrolCount int
	DieselCount int
	Err         error
}

func (a *Archive) Record(ctx context.Context, rec RunRecord) error {
	errText := ""
	if rec.Err != nil {
		errText = rec.Err.Error()
	}
	return a.qry.CreateRun(ctx, db.CreateRunParams{
		RunID:       rec.RunID,
		StartedAt:   rec.StartedAt.Unix(),
		Written:     rec.Result.Written,
		Reason:      rec.Result.Reason,
		PetrolCount: int64(rec.PetrolCount),
		DieselCount: int64(rec.DieselCount),
		Error:       errText,
	})
}

func (a *Archive) RecentRuns(ctx context.Context, limit int64) ([]db.Run, error) {
	return a.qry.ListRecentRuns(ctx, limit)
}

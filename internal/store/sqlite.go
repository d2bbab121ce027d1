package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS verdicts (
	key        TEXT PRIMARY KEY,
	verdict    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	competitor TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	summary    TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_competitor ON runs(competitor);
CREATE INDEX IF NOT EXISTS idx_verdicts_created_at ON verdicts(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetVerdict(ctx context.Context, key string) (string, bool, error) {
	var verdict string
	err := s.db.QueryRowContext(ctx,
		`SELECT verdict FROM verdicts WHERE key = ?`, key,
	).Scan(&verdict)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "sqlite: get verdict")
	}
	return verdict, true, nil
}

func (s *SQLiteStore) PutVerdict(ctx context.Context, key, verdict string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verdicts (key, verdict, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET verdict = excluded.verdict`,
		key, verdict, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return eris.Wrap(err, "sqlite: put verdict")
}

func (s *SQLiteStore) CacheStats(ctx context.Context) (CacheStats, error) {
	var stats CacheStats
	// MIN/MAX strip the column's declared type, so the driver hands the
	// RFC3339 text back as a plain string.
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM verdicts`,
	).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return CacheStats{}, eris.Wrap(err, "sqlite: cache stats")
	}
	if stats.Oldest, err = parseStoredTime(oldest); err != nil {
		return CacheStats{}, err
	}
	if stats.Newest, err = parseStoredTime(newest); err != nil {
		return CacheStats{}, err
	}
	return stats, nil
}

func parseStoredTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}, eris.Wrap(err, "sqlite: parse stored time")
	}
	return t, nil
}

func (s *SQLiteStore) ClearVerdicts(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM verdicts`)
	return eris.Wrap(err, "sqlite: clear verdicts")
}

func (s *SQLiteStore) CreateRun(ctx context.Context, competitor string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, competitor, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, competitor, string(RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &Run{
		ID:         id,
		Competitor: competitor,
		Status:     RunStatusRunning,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, status RunStatus, summary *Summary) error {
	var summaryJSON sql.NullString
	if summary != nil {
		b, err := json.Marshal(summary)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal summary")
		}
		summaryJSON = sql.NullString{String: string(b), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, summary = ?, updated_at = ? WHERE id = ?`,
		string(status), summaryJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

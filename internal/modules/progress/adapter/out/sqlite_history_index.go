package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"focusflow/internal/modules/progress/domain"
	progressout "focusflow/internal/modules/progress/port/out"

	_ "modernc.org/sqlite"
)

const historySchemaVersion = 1

type SQLiteHistoryIndex struct {
	db *sql.DB
}

func NewSQLiteHistoryIndex(dbPath string) (*SQLiteHistoryIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	index := &SQLiteHistoryIndex{db: db}
	if err := index.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

var _ progressout.HistoryIndex = (*SQLiteHistoryIndex)(nil)

func (s *SQLiteHistoryIndex) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}
	var current int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= historySchemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const ddl = `
CREATE TABLE IF NOT EXISTS completed_sessions (
  id TEXT PRIMARY KEY,
  completed_at TEXT NOT NULL,
  day TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  mode TEXT NOT NULL,
  session_type TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_completed_sessions_day ON completed_sessions(day);
`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate: create completed_sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES (?);`, historySchemaVersion); err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM completed_sessions`); err != nil {
		return fmt.Errorf("reset completed sessions: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryIndex) Record(ctx context.Context, record domain.SessionRecord, day string) error {
	const stmt = `
INSERT INTO completed_sessions (id, completed_at, day, duration_minutes, mode, session_type)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  completed_at=excluded.completed_at,
  day=excluded.day,
  duration_minutes=excluded.duration_minutes,
  mode=excluded.mode,
  session_type=excluded.session_type;
`
	_, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		record.Date.Format("2006-01-02T15:04:05Z07:00"),
		day,
		record.Duration,
		string(record.Mode),
		record.SessionType,
	)
	if err != nil {
		return fmt.Errorf("record completed session: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryIndex) Daily(ctx context.Context, fromDay, toDay string) ([]domain.DayTotal, error) {
	const query = `
SELECT day, COUNT(*), COALESCE(SUM(duration_minutes), 0)
FROM completed_sessions
WHERE day >= ? AND day <= ?
GROUP BY day
ORDER BY day ASC;
`
	rows, err := s.db.QueryContext(ctx, query, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("query daily totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.DayTotal
	for rows.Next() {
		t := domain.DayTotal{}
		if err := rows.Scan(&t.Day, &t.Sessions, &t.Minutes); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily totals: %w", err)
	}
	return totals, nil
}

func (s *SQLiteHistoryIndex) Close() error {
	return s.db.Close()
}

package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focus/internal/modules/history/domain"
	historyout "focus/internal/modules/history/port/out"
	apperrors "focus/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339

type SQLiteEntryStore struct {
	db *sql.DB
}

var _ historyout.EntryStore = (*SQLiteEntryStore)(nil)

func NewSQLiteEntryStore(dbPath string) (*SQLiteEntryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteEntryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteEntryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS history (
  session_id TEXT PRIMARY KEY,
  mode_title TEXT NOT NULL,
  mode_color TEXT,
  goal_ref TEXT,
  planned_duration INTEGER NOT NULL,
  actual_active_seconds INTEGER NOT NULL,
  outcome TEXT NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  note_path TEXT
);
CREATE INDEX IF NOT EXISTS history_ended_at ON history(ended_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteEntryStore) Insert(ctx context.Context, entry domain.Entry) (bool, error) {
	const stmt = `
INSERT INTO history (session_id, mode_title, mode_color, goal_ref, planned_duration, actual_active_seconds, outcome, started_at, ended_at, note_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO NOTHING;
`
	res, err := s.db.ExecContext(ctx, stmt,
		entry.SessionID,
		entry.ModeTitle,
		entry.ModeColor,
		entry.GoalRef,
		entry.PlannedDuration,
		entry.ActualActiveSeconds,
		string(entry.Outcome),
		entry.StartedAt.UTC().Format(timeLayout),
		entry.EndedAt.UTC().Format(timeLayout),
		entry.NotePath,
	)
	if err != nil {
		return false, apperrors.Storage("insert history entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage("insert history entry", err)
	}
	return n == 1, nil
}

func (s *SQLiteEntryStore) SetNotePath(ctx context.Context, sessionID, notePath string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE history SET note_path = ? WHERE session_id = ?`, notePath, sessionID); err != nil {
		return apperrors.Storage("update history note path", err)
	}
	return nil
}

const selectColumns = `session_id, mode_title, mode_color, goal_ref, planned_duration, actual_active_seconds, outcome, started_at, ended_at, note_path`

func (s *SQLiteEntryStore) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM history ORDER BY ended_at DESC, session_id LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.Storage("list history", err)
	}
	return scanEntries(rows)
}

func (s *SQLiteEntryStore) EndedSince(ctx context.Context, since time.Time) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM history WHERE ended_at >= ? ORDER BY ended_at`, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, apperrors.Storage("query history", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	defer rows.Close()
	out := []domain.Entry{}
	for rows.Next() {
		var (
			e                 domain.Entry
			color, goal, note sql.NullString
			outcome           string
			started, ended    string
		)
		if err := rows.Scan(&e.SessionID, &e.ModeTitle, &color, &goal, &e.PlannedDuration, &e.ActualActiveSeconds, &outcome, &started, &ended, &note); err != nil {
			return nil, apperrors.Storage("scan history", err)
		}
		e.ModeColor = color.String
		e.GoalRef = goal.String
		e.NotePath = note.String
		e.Outcome = domain.Outcome(outcome)
		var err error
		if e.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at for %s: %w", e.SessionID, err)
		}
		if e.EndedAt, err = time.Parse(timeLayout, ended); err != nil {
			return nil, fmt.Errorf("parse ended_at for %s: %w", e.SessionID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate history", err)
	}
	return out, nil
}

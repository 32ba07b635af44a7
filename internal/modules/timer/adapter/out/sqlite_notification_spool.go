package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
	"focus/internal/platform/clock"

	_ "modernc.org/sqlite"
)

const activeSlot = "active"

// SQLiteNotificationSpool is the scheduler used when the notification daemon
// plays the role of the OS notification service. There is one row per slot, so
// arming twice replaces rather than duplicates.
type SQLiteNotificationSpool struct {
	db    *sql.DB
	clock clock.Clock
}

var (
	_ timerout.NotificationScheduler = (*SQLiteNotificationSpool)(nil)
	_ timerout.NotificationSpool     = (*SQLiteNotificationSpool)(nil)
)

func NewSQLiteNotificationSpool(dbPath string, clk clock.Clock) (*SQLiteNotificationSpool, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	spool := &SQLiteNotificationSpool{db: db, clock: clk}
	if err := spool.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return spool, nil
}

func (s *SQLiteNotificationSpool) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS notifications (
  slot TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  fire_at INTEGER NOT NULL,
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  armed_at INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

func (s *SQLiteNotificationSpool) Close() error { return s.db.Close() }

func (s *SQLiteNotificationSpool) Arm(ctx context.Context, record domain.SessionRecord, remainingSeconds int) error {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	now := s.clock.Now()
	fireAt := now.Add(time.Duration(remainingSeconds) * time.Second)
	title, body := notificationText(record)
	const stmt = `
INSERT INTO notifications (slot, session_id, fire_at, title, body, armed_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
  session_id=excluded.session_id,
  fire_at=excluded.fire_at,
  title=excluded.title,
  body=excluded.body,
  armed_at=excluded.armed_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, activeSlot, record.ID, fireAt.UnixMilli(), title, body, now.UnixMilli()); err != nil {
		return fmt.Errorf("arm notification: %w", err)
	}
	return nil
}

func (s *SQLiteNotificationSpool) Disarm(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE slot = ?`, activeSlot); err != nil {
		return fmt.Errorf("disarm notification: %w", err)
	}
	return nil
}

// Pending returns the armed notification, if any.
func (s *SQLiteNotificationSpool) Pending(ctx context.Context) (*domain.Notification, error) {
	row := s.db.QueryRowContext(ctx, `SELECT session_id, fire_at, title, body FROM notifications WHERE slot = ?`, activeSlot)
	n, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pending notification: %w", err)
	}
	return &n, nil
}

func (s *SQLiteNotificationSpool) Due(ctx context.Context, now time.Time) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, fire_at, title, body
FROM notifications
WHERE fire_at <= ?
ORDER BY fire_at ASC;
`, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

// Ack removes a delivered notification. A slot re-armed for another session is left alone.
func (s *SQLiteNotificationSpool) Ack(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE slot = ? AND session_id = ?`, activeSlot, sessionID); err != nil {
		return fmt.Errorf("ack notification: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (domain.Notification, error) {
	var (
		n      domain.Notification
		fireAt int64
	)
	if err := row.Scan(&n.SessionID, &fireAt, &n.Title, &n.Body); err != nil {
		return domain.Notification{}, err
	}
	n.FireAt = time.UnixMilli(fireAt).UTC()
	return n, nil
}

func notificationText(record domain.SessionRecord) (string, string) {
	title := record.Mode.Title
	if title == "" {
		title = "Focus"
	}
	minutes := record.Duration / 60
	if minutes == 0 {
		return title + " complete", fmt.Sprintf("%ds session finished", record.Duration)
	}
	return title + " complete", fmt.Sprintf("%d min session finished", minutes)
}

package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
)

// LedgerOutbox appends one JSON line per ended session for the points/rating
// ledger, which consumes the file on its own schedule.
type LedgerOutbox struct {
	path string
	mu   sync.Mutex
}

var _ timerout.SessionEndedListener = (*LedgerOutbox)(nil)

type ledgerEntry struct {
	SessionID           string    `json:"sessionId"`
	ModeTitle           string    `json:"modeTitle"`
	ModeColor           string    `json:"modeColor,omitempty"`
	GoalRef             string    `json:"goalRef,omitempty"`
	PlannedDuration     int       `json:"plannedDuration"`
	ActualActiveSeconds int       `json:"actualActiveSeconds"`
	Outcome             string    `json:"outcome"`
	EndedAt             time.Time `json:"endedAt"`
}

func NewLedgerOutbox(path string) *LedgerOutbox {
	return &LedgerOutbox{path: path}
}

func (o *LedgerOutbox) OnSessionEnded(_ context.Context, event domain.SessionEnded) error {
	line, err := json.Marshal(ledgerEntry{
		SessionID:           event.SessionID,
		ModeTitle:           event.Mode.Title,
		ModeColor:           event.Mode.Color,
		GoalRef:             event.GoalRef,
		PlannedDuration:     event.PlannedDuration,
		ActualActiveSeconds: event.ActualActiveSeconds,
		Outcome:             string(event.Outcome),
		EndedAt:             event.EndedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger outbox: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

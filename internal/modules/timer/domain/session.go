package domain

import (
	"fmt"
	"time"
)

const SchemaVersion = 1

type State string

const (
	StateRunning       State = "running"
	StatePaused        State = "paused"
	StateCompleted     State = "completed"
	StateAborted       State = "aborted"
	StateEarlyFinished State = "early-finished"

	// StateIdle is never persisted; it describes an empty active slot.
	StateIdle State = "idle"
)

// Active reports whether s may occupy the active slot.
func (s State) Active() bool {
	return s == StateRunning || s == StatePaused
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted || s == StateEarlyFinished
}

// Outcome is the terminal state reported to collaborators.
type Outcome = State

// Mode is display metadata carried with a session. The engine never interprets it.
type Mode struct {
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

// SessionRecord is the single persisted entity: the content of the active slot.
type SessionRecord struct {
	SchemaVersion            int    `json:"schemaVersion"`
	ID                       string `json:"id"`
	CreatedAt                int64  `json:"createdAt"`
	StartedAt                int64  `json:"startedAt"`
	Duration                 int    `json:"duration"`
	AccumulatedActiveSeconds int    `json:"accumulatedActiveSeconds"`
	FrozenRemaining          int    `json:"frozenRemainingSeconds"`
	State                    State  `json:"state"`
	Mode                     Mode   `json:"mode"`
	GoalRef                  string `json:"goalRef,omitempty"`
}

func NewRecord(id string, now time.Time, durationSeconds int, mode Mode, goalRef string) SessionRecord {
	return SessionRecord{
		SchemaVersion: SchemaVersion,
		ID:            id,
		CreatedAt:     now.UnixMilli(),
		StartedAt:     now.UnixMilli(),
		Duration:      durationSeconds,
		State:         StateRunning,
		Mode:          mode,
		GoalRef:       goalRef,
	}
}

// CreatedTime is when the session was first started, before any pause.
func (r SessionRecord) CreatedTime() time.Time {
	if r.CreatedAt == 0 {
		return time.UnixMilli(r.StartedAt).UTC()
	}
	return time.UnixMilli(r.CreatedAt).UTC()
}

// Validate checks that r may live in the active slot.
func (r SessionRecord) Validate() error {
	switch {
	case r.SchemaVersion != SchemaVersion:
		return fmt.Errorf("unsupported schema version %d", r.SchemaVersion)
	case r.ID == "":
		return fmt.Errorf("session id is empty")
	case !r.State.Active():
		return fmt.Errorf("state %q cannot occupy the active slot", r.State)
	case r.Duration <= 0:
		return fmt.Errorf("duration must be positive, got %d", r.Duration)
	case r.AccumulatedActiveSeconds < 0 || r.AccumulatedActiveSeconds > r.Duration:
		return fmt.Errorf("accumulated active seconds %d out of range [0,%d]", r.AccumulatedActiveSeconds, r.Duration)
	case r.State == StatePaused && (r.FrozenRemaining < 0 || r.FrozenRemaining > r.Duration):
		return fmt.Errorf("frozen remaining %d out of range [0,%d]", r.FrozenRemaining, r.Duration)
	}
	return nil
}

// SessionEnded is the event emitted once per terminal transition.
type SessionEnded struct {
	SessionID           string
	Mode                Mode
	GoalRef             string
	PlannedDuration     int
	ActualActiveSeconds int
	Outcome             Outcome
	StartedAt           time.Time
	EndedAt             time.Time
}

// Snapshot is a read-only view of the active slot at a point in time.
type Snapshot struct {
	SessionID string
	State     State
	Mode      Mode
	GoalRef   string
	Duration  int
	Remaining int
}

func IdleSnapshot() Snapshot {
	return Snapshot{State: StateIdle}
}

func SnapshotOf(r SessionRecord, now time.Time) Snapshot {
	return Snapshot{
		SessionID: r.ID,
		State:     r.State,
		Mode:      r.Mode,
		GoalRef:   r.GoalRef,
		Duration:  r.Duration,
		Remaining: Remaining(r, now),
	}
}

// Tick is what the foreground ticker publishes every interval.
type Tick struct {
	SessionID string
	State     State
	Mode      Mode
	Duration  int
	Remaining int
}

// Notification is one scheduled completion notification. Payload is the session id.
type Notification struct {
	SessionID string
	FireAt    time.Time
	Title     string
	Body      string
}

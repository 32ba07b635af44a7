package domain

import (
	"fmt"
	"strings"
	"time"
)

// Outcome mirrors the terminal states of a timer session.
type Outcome string

const (
	OutcomeCompleted     Outcome = "completed"
	OutcomeAborted       Outcome = "aborted"
	OutcomeEarlyFinished Outcome = "early-finished"
)

func (o Outcome) Validate() error {
	switch o {
	case OutcomeCompleted, OutcomeAborted, OutcomeEarlyFinished:
		return nil
	default:
		return fmt.Errorf("unsupported outcome: %s", o)
	}
}

// Entry is one ended session in the history log.
type Entry struct {
	SessionID           string
	ModeTitle           string
	ModeColor           string
	GoalRef             string
	PlannedDuration     int
	ActualActiveSeconds int
	Outcome             Outcome
	StartedAt           time.Time
	EndedAt             time.Time
	NotePath            string
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if err := e.Outcome.Validate(); err != nil {
		return err
	}
	if e.PlannedDuration <= 0 {
		return fmt.Errorf("planned duration must be positive")
	}
	if e.ActualActiveSeconds < 0 || e.ActualActiveSeconds > e.PlannedDuration {
		return fmt.Errorf("actual active seconds %d out of range [0,%d]", e.ActualActiveSeconds, e.PlannedDuration)
	}
	if e.EndedAt.Before(e.StartedAt) {
		return fmt.Errorf("ended before started")
	}
	return nil
}

// Stats aggregates entries ended within a window.
type Stats struct {
	Since          time.Time
	Total          int
	ByOutcome      map[Outcome]int
	FocusedSeconds int
}

func NewStats(since time.Time) Stats {
	return Stats{Since: since, ByOutcome: map[Outcome]int{}}
}

func (s *Stats) Add(e Entry) {
	s.Total++
	s.ByOutcome[e.Outcome]++
	s.FocusedSeconds += e.ActualActiveSeconds
}

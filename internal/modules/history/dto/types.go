package dto

import "time"

type RecordInput struct {
	SessionID           string
	ModeTitle           string
	ModeColor           string
	GoalRef             string
	PlannedDuration     int
	ActualActiveSeconds int
	Outcome             string
	StartedAt           time.Time
	EndedAt             time.Time
}

type RecordOutput struct {
	SessionID string
	NotePath  string
	// Duplicate is true when the session was already in the log.
	Duplicate bool
}

type EntryOutput struct {
	SessionID           string
	ModeTitle           string
	ModeColor           string
	GoalRef             string
	PlannedDuration     int
	ActualActiveSeconds int
	Outcome             string
	StartedAt           time.Time
	EndedAt             time.Time
	NotePath            string
}

type StatsInput struct {
	Since time.Time
}

type StatsOutput struct {
	Since          time.Time
	Total          int
	Completed      int
	Aborted        int
	EarlyFinished  int
	FocusedSeconds int
}

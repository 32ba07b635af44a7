package dto

import "time"

type StartInput struct {
	ModeTitle       string
	ModeColor       string
	DurationSeconds int
	GoalRef         string
}

type StartOutput struct {
	SessionID string
	Duration  int
	Warning   string
}

// TransitionOutput is returned by pause/resume/abort/finish.
type TransitionOutput struct {
	SessionID string
	State     string
	Remaining int
	// ActualActiveSeconds is set for terminal transitions.
	ActualActiveSeconds int
	Warning             string
}

type StatusOutput struct {
	Active    bool
	SessionID string
	State     string
	ModeTitle string
	ModeColor string
	GoalRef   string
	Duration  int
	Remaining int
}

type NotificationInput struct {
	SessionID string
}

type NotificationOutput struct {
	Completed bool
}

// Notification is a spooled completion notification that has fallen due.
type Notification struct {
	SessionID string
	FireAt    time.Time
	Title     string
	Body      string
}

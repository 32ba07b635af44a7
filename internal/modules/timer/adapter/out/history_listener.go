package out

import (
	"context"

	historydto "focus/internal/modules/history/dto"
	historyin "focus/internal/modules/history/port/in"
	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
)

// HistoryListener records every ended session in the history module. The history
// insert is shared by all processes, so a session seen a second time reports
// ErrAlreadyRecorded.
type HistoryListener struct {
	history historyin.Usecase
}

var _ timerout.SessionEndedListener = (*HistoryListener)(nil)

func NewHistoryListener(history historyin.Usecase) *HistoryListener {
	return &HistoryListener{history: history}
}

func (l *HistoryListener) OnSessionEnded(ctx context.Context, event domain.SessionEnded) error {
	out, err := l.history.Record(ctx, historydto.RecordInput{
		SessionID:           event.SessionID,
		ModeTitle:           event.Mode.Title,
		ModeColor:           event.Mode.Color,
		GoalRef:             event.GoalRef,
		PlannedDuration:     event.PlannedDuration,
		ActualActiveSeconds: event.ActualActiveSeconds,
		Outcome:             string(event.Outcome),
		StartedAt:           event.StartedAt,
		EndedAt:             event.EndedAt,
	})
	if err != nil {
		return err
	}
	if out.Duplicate {
		return timerout.ErrAlreadyRecorded
	}
	return nil
}

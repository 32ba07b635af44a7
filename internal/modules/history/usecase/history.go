package usecase

import (
	"context"

	"focus/internal/modules/history/domain"
	"focus/internal/modules/history/dto"
	historyin "focus/internal/modules/history/port/in"
	"focus/internal/modules/history/service"
)

type Interactor struct {
	svc *service.HistoryService
}

func NewInteractor(svc *service.HistoryService) historyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error) {
	entry, duplicate, err := i.svc.Record(ctx, domain.Entry{
		SessionID:           input.SessionID,
		ModeTitle:           input.ModeTitle,
		ModeColor:           input.ModeColor,
		GoalRef:             input.GoalRef,
		PlannedDuration:     input.PlannedDuration,
		ActualActiveSeconds: input.ActualActiveSeconds,
		Outcome:             domain.Outcome(input.Outcome),
		StartedAt:           input.StartedAt,
		EndedAt:             input.EndedAt,
	})
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return dto.RecordOutput{SessionID: entry.SessionID, NotePath: entry.NotePath, Duplicate: duplicate}, nil
}

func (i *Interactor) List(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	entries, err := i.svc.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.EntryOutput{
			SessionID:           e.SessionID,
			ModeTitle:           e.ModeTitle,
			ModeColor:           e.ModeColor,
			GoalRef:             e.GoalRef,
			PlannedDuration:     e.PlannedDuration,
			ActualActiveSeconds: e.ActualActiveSeconds,
			Outcome:             string(e.Outcome),
			StartedAt:           e.StartedAt,
			EndedAt:             e.EndedAt,
			NotePath:            e.NotePath,
		})
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context, input dto.StatsInput) (dto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx, input.Since)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return dto.StatsOutput{
		Since:          stats.Since,
		Total:          stats.Total,
		Completed:      stats.ByOutcome[domain.OutcomeCompleted],
		Aborted:        stats.ByOutcome[domain.OutcomeAborted],
		EarlyFinished:  stats.ByOutcome[domain.OutcomeEarlyFinished],
		FocusedSeconds: stats.FocusedSeconds,
	}, nil
}

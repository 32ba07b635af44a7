package in

import (
	"context"

	"focus/internal/modules/history/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error)
	List(ctx context.Context, limit int) ([]dto.EntryOutput, error)
	Stats(ctx context.Context, input dto.StatsInput) (dto.StatsOutput, error)
}

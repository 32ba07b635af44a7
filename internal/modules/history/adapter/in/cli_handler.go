package in

import (
	"context"
	"time"

	"focus/internal/modules/history/dto"
	historyin "focus/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	return h.usecase.List(ctx, limit)
}

func (h CLIHandler) Stats(ctx context.Context, since time.Time) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, dto.StatsInput{Since: since})
}

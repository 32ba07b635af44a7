package in

import (
	"context"

	timerdto "focus/internal/modules/timer/dto"
	timerin "focus/internal/modules/timer/port/in"
)

// CLIHandler brings the slot up to date before every command, the way a
// foreground host would on launch.
type CLIHandler struct {
	usecase   timerin.Usecase
	lifecycle timerin.Lifecycle
}

func NewCLIHandler(usecase timerin.Usecase, lifecycle timerin.Lifecycle) CLIHandler {
	return CLIHandler{usecase: usecase, lifecycle: lifecycle}
}

func (h CLIHandler) Start(ctx context.Context, modeTitle, modeColor string, seconds int, goalRef string) (timerdto.StartOutput, error) {
	if _, err := h.lifecycle.Foreground(ctx); err != nil {
		return timerdto.StartOutput{}, err
	}
	return h.usecase.Start(ctx, timerdto.StartInput{
		ModeTitle:       modeTitle,
		ModeColor:       modeColor,
		DurationSeconds: seconds,
		GoalRef:         goalRef,
	})
}

func (h CLIHandler) Pause(ctx context.Context) (timerdto.TransitionOutput, error) {
	return h.transition(ctx, h.usecase.Pause)
}

func (h CLIHandler) Resume(ctx context.Context) (timerdto.TransitionOutput, error) {
	return h.transition(ctx, h.usecase.Resume)
}

func (h CLIHandler) Abort(ctx context.Context) (timerdto.TransitionOutput, error) {
	return h.transition(ctx, h.usecase.Abort)
}

func (h CLIHandler) Finish(ctx context.Context) (timerdto.TransitionOutput, error) {
	return h.transition(ctx, h.usecase.EarlyFinish)
}

// Status reconciles and reports the slot. An expired session is completed here.
func (h CLIHandler) Status(ctx context.Context) (timerdto.StatusOutput, error) {
	return h.lifecycle.Foreground(ctx)
}

func (h CLIHandler) transition(ctx context.Context, op func(context.Context) (timerdto.TransitionOutput, error)) (timerdto.TransitionOutput, error) {
	if _, err := h.lifecycle.Foreground(ctx); err != nil {
		return timerdto.TransitionOutput{}, err
	}
	return op(ctx)
}

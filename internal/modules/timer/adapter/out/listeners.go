package out

import (
	"context"
	"errors"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
)

// MultiListener fans a terminal event out to its listeners in order. One failing
// listener does not stop the others, but ErrAlreadyRecorded ends the fan-out:
// the event was delivered by whichever process recorded it first.
type MultiListener []timerout.SessionEndedListener

func (m MultiListener) OnSessionEnded(ctx context.Context, event domain.SessionEnded) error {
	var errs []error
	for _, l := range m {
		if l == nil {
			continue
		}
		if err := l.OnSessionEnded(ctx, event); err != nil {
			errs = append(errs, err)
			if errors.Is(err, timerout.ErrAlreadyRecorded) {
				break
			}
		}
	}
	return errors.Join(errs...)
}

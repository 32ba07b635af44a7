package out

import (
	"sync"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
)

// TickRelay forwards ticks to a sink that can be attached after wiring, e.g.
// once the UI program exists. Ticks published with no sink are dropped.
type TickRelay struct {
	mu   sync.RWMutex
	sink func(domain.Tick)
}

var _ timerout.TickPublisher = (*TickRelay)(nil)

func NewTickRelay() *TickRelay { return &TickRelay{} }

func (r *TickRelay) Attach(sink func(domain.Tick)) {
	r.mu.Lock()
	r.sink = sink
	r.mu.Unlock()
}

func (r *TickRelay) PublishTick(tick domain.Tick) {
	r.mu.RLock()
	sink := r.sink
	r.mu.RUnlock()
	if sink != nil {
		sink(tick)
	}
}

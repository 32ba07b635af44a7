package domain

import "time"

// Remaining derives the seconds left in r at now. It never depends on how often
// it was called before: paused records return the value frozen at pause time,
// running records are computed from StartedAt, floored at zero.
func Remaining(r SessionRecord, now time.Time) int {
	switch r.State {
	case StatePaused:
		return r.FrozenRemaining
	case StateRunning:
		left := r.Duration - r.AccumulatedActiveSeconds - secondsSince(r.StartedAt, now)
		if left < 0 {
			return 0
		}
		return left
	default:
		return 0
	}
}

// ActiveSeconds is the active time consumed so far, capped at the planned duration.
func ActiveSeconds(r SessionRecord, now time.Time) int {
	if !r.State.Active() {
		return 0
	}
	return r.Duration - Remaining(r, now)
}

// secondsSince floors whole seconds between an epoch-ms timestamp and now.
// A clock set backwards counts as zero elapsed.
func secondsSince(startedAtMs int64, now time.Time) int {
	delta := now.UnixMilli() - startedAtMs
	if delta <= 0 {
		return 0
	}
	return int(delta / 1000)
}

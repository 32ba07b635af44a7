package domain_test

import (
	"testing"
	"time"

	"focus/internal/modules/timer/domain"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestRemainingRunningIsNonIncreasingAndFloored(t *testing.T) {
	t.Parallel()
	rec := domain.NewRecord("s-1", t0, 90, domain.Mode{Title: "Focus"}, "")
	prev := domain.Remaining(rec, t0)
	if prev != 90 {
		t.Fatalf("expected full duration at start, got %d", prev)
	}
	for ms := int64(0); ms <= 200_000; ms += 250 {
		now := t0.Add(time.Duration(ms) * time.Millisecond)
		got := domain.Remaining(rec, now)
		if got > prev {
			t.Fatalf("remaining increased at +%dms: %d > %d", ms, got, prev)
		}
		if got < 0 {
			t.Fatalf("remaining below zero at +%dms: %d", ms, got)
		}
		prev = got
	}
	if prev != 0 {
		t.Fatalf("expected remaining floored at 0, got %d", prev)
	}
}

func TestRemainingFloorsPartialSeconds(t *testing.T) {
	t.Parallel()
	rec := domain.NewRecord("s-1", t0, 60, domain.Mode{}, "")
	if got := domain.Remaining(rec, t0.Add(999*time.Millisecond)); got != 60 {
		t.Fatalf("expected 60 before a whole second elapsed, got %d", got)
	}
	if got := domain.Remaining(rec, t0.Add(1000*time.Millisecond)); got != 59 {
		t.Fatalf("expected 59 after one second, got %d", got)
	}
}

func TestRemainingAccountsForAccumulatedSeconds(t *testing.T) {
	t.Parallel()
	rec := domain.NewRecord("s-1", t0, 600, domain.Mode{}, "")
	rec.AccumulatedActiveSeconds = 100
	if got := domain.Remaining(rec, t0.Add(30*time.Second)); got != 470 {
		t.Fatalf("expected 470, got %d", got)
	}
	if got := domain.ActiveSeconds(rec, t0.Add(30*time.Second)); got != 130 {
		t.Fatalf("expected 130 active seconds, got %d", got)
	}
}

func TestRemainingPausedIsFrozen(t *testing.T) {
	t.Parallel()
	rec := domain.NewRecord("s-1", t0, 600, domain.Mode{}, "")
	rec.State = domain.StatePaused
	rec.AccumulatedActiveSeconds = 100
	rec.FrozenRemaining = 500
	for _, d := range []time.Duration{0, time.Second, 5 * time.Minute, 72 * time.Hour} {
		if got := domain.Remaining(rec, t0.Add(d)); got != 500 {
			t.Fatalf("paused remaining moved after %s: %d", d, got)
		}
	}
}

func TestRemainingIgnoresBackwardsClock(t *testing.T) {
	t.Parallel()
	rec := domain.NewRecord("s-1", t0, 60, domain.Mode{}, "")
	if got := domain.Remaining(rec, t0.Add(-time.Hour)); got != 60 {
		t.Fatalf("expected 60 when clock is behind start, got %d", got)
	}
}

func TestRemainingTerminalIsZero(t *testing.T) {
	t.Parallel()
	rec := domain.NewRecord("s-1", t0, 60, domain.Mode{}, "")
	rec.State = domain.StateAborted
	if got := domain.Remaining(rec, t0); got != 0 {
		t.Fatalf("expected 0 for terminal record, got %d", got)
	}
	if got := domain.ActiveSeconds(rec, t0); got != 0 {
		t.Fatalf("expected 0 active seconds for terminal record, got %d", got)
	}
}

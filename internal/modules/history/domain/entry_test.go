package domain_test

import (
	"testing"
	"time"

	"focus/internal/modules/history/domain"
)

func TestEntryValidate(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	valid := domain.Entry{
		SessionID:           "s1",
		PlannedDuration:     1500,
		ActualActiveSeconds: 1500,
		Outcome:             domain.OutcomeCompleted,
		StartedAt:           start,
		EndedAt:             start.Add(25 * time.Minute),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	cases := map[string]func(e *domain.Entry){
		"missing id":      func(e *domain.Entry) { e.SessionID = " " },
		"bad outcome":     func(e *domain.Entry) { e.Outcome = "running" },
		"zero duration":   func(e *domain.Entry) { e.PlannedDuration = 0 },
		"overlong active": func(e *domain.Entry) { e.ActualActiveSeconds = 1501 },
		"ends too early":  func(e *domain.Entry) { e.EndedAt = start.Add(-time.Second) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			e := valid
			mutate(&e)
			if err := e.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestStatsAdd(t *testing.T) {
	t.Parallel()
	stats := domain.NewStats(time.Time{})
	stats.Add(domain.Entry{Outcome: domain.OutcomeCompleted, ActualActiveSeconds: 1500})
	stats.Add(domain.Entry{Outcome: domain.OutcomeAborted, ActualActiveSeconds: 120})
	stats.Add(domain.Entry{Outcome: domain.OutcomeCompleted, ActualActiveSeconds: 300})

	if stats.Total != 3 {
		t.Fatalf("total = %d, want 3", stats.Total)
	}
	if stats.ByOutcome[domain.OutcomeCompleted] != 2 || stats.ByOutcome[domain.OutcomeAborted] != 1 {
		t.Fatalf("unexpected outcome counts: %v", stats.ByOutcome)
	}
	if stats.FocusedSeconds != 1920 {
		t.Fatalf("focused seconds = %d, want 1920", stats.FocusedSeconds)
	}
}

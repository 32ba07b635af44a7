package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	historydto "focus/internal/modules/history/dto"
	timerdto "focus/internal/modules/timer/dto"
	"focus/internal/platform/config"
	"focus/internal/ui/components"
	timerview "focus/internal/ui/views/timer"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want command
		err  bool
	}{
		{in: "pause", want: command{name: "pause"}},
		{in: "start focus", want: command{name: "start", mode: "focus"}},
		{in: "start focus 50", want: command{name: "start", mode: "focus", minutes: 50}},
		{in: "start focus 50 write chapter 3", want: command{name: "start", mode: "focus", minutes: 50, goal: "write chapter 3"}},
		{in: "start short-break read", want: command{name: "start", mode: "short-break", goal: "read"}},
		{in: "start", err: true},
		{in: "start focus 0", err: true},
		{in: "   ", err: true},
	}
	for _, tc := range cases {
		got, err := parseCommand(tc.in)
		if tc.err {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got, cmp.AllowUnexported(command{})); diff != "" {
			t.Fatalf("%q mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

type fakeTimer struct {
	started []int
	calls   []string
}

func (f *fakeTimer) Start(_ context.Context, title, _ string, seconds int, _ string) (timerdto.StartOutput, error) {
	f.started = append(f.started, seconds)
	f.calls = append(f.calls, "start:"+title)
	return timerdto.StartOutput{SessionID: "s-1", Duration: seconds}, nil
}

func (f *fakeTimer) Pause(context.Context) (timerdto.TransitionOutput, error) {
	f.calls = append(f.calls, "pause")
	return timerdto.TransitionOutput{State: "paused", Remaining: 500}, nil
}

func (f *fakeTimer) Resume(context.Context) (timerdto.TransitionOutput, error) {
	f.calls = append(f.calls, "resume")
	return timerdto.TransitionOutput{State: "running"}, nil
}

func (f *fakeTimer) Abort(context.Context) (timerdto.TransitionOutput, error) {
	f.calls = append(f.calls, "abort")
	return timerdto.TransitionOutput{}, errors.New("invalid transition: cannot abort while idle")
}

func (f *fakeTimer) Finish(context.Context) (timerdto.TransitionOutput, error) {
	f.calls = append(f.calls, "finish")
	return timerdto.TransitionOutput{State: "early-finished", ActualActiveSeconds: 90}, nil
}

type fakeLifecycle struct{ calls []string }

func (f *fakeLifecycle) Foreground(context.Context) (timerdto.StatusOutput, error) {
	f.calls = append(f.calls, "foreground")
	return timerdto.StatusOutput{State: "idle"}, nil
}

func (f *fakeLifecycle) Background(context.Context) { f.calls = append(f.calls, "background") }

type fakeHistory struct{}

func (fakeHistory) List(context.Context, int) ([]historydto.EntryOutput, error) { return nil, nil }

var testModes = []config.Mode{
	{Name: "focus", Title: "Focus", Minutes: 25},
	{Name: "short-break", Title: "Short break", Minutes: 5},
}

func run(t *testing.T, m tea.Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	var out tea.Msg
	if cmd != nil {
		out = cmd()
	}
	return next.(Model), out
}

func TestLifecycleMessagesDriveEngine(t *testing.T) {
	t.Parallel()
	lc := &fakeLifecycle{}
	m := NewModel(&fakeTimer{}, lc, fakeHistory{}, testModes)

	m, out := run(t, m, tea.BlurMsg{})
	if out != nil {
		t.Fatalf("background should produce no message, got %T", out)
	}
	m, out = run(t, m, tea.FocusMsg{})
	if _, ok := out.(statusLoadedMsg); !ok {
		t.Fatalf("focus should reconcile, got %T", out)
	}
	_, _ = run(t, m, tea.ResumeMsg{})
	if diff := cmp.Diff([]string{"background", "foreground", "foreground"}, lc.calls); diff != "" {
		t.Fatalf("lifecycle calls mismatch (-want +got):\n%s", diff)
	}
}

func TestQuickStartUsesModePreset(t *testing.T) {
	t.Parallel()
	timer := &fakeTimer{}
	m := NewModel(timer, &fakeLifecycle{}, fakeHistory{}, testModes)

	m, out := run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	started, ok := out.(startedMsg)
	if !ok || started.err != nil {
		t.Fatalf("expected startedMsg, got %#v", out)
	}
	if diff := cmp.Diff([]int{300}, timer.started); diff != "" {
		t.Fatalf("start durations mismatch (-want +got):\n%s", diff)
	}
	m, _ = run(t, m, started)
	if m.status != "started 05:00 session" {
		t.Fatalf("status = %q", m.status)
	}

	// "l" maps to long-break, which this config does not define.
	m, out = run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if out != nil || m.status != "unknown mode: long-break" {
		t.Fatalf("status = %q, msg = %#v", m.status, out)
	}
}

func TestPauseKeyTogglesOnState(t *testing.T) {
	t.Parallel()
	timer := &fakeTimer{}
	m := NewModel(timer, &fakeLifecycle{}, fakeHistory{}, testModes)

	m, _ = run(t, m, timerview.TickMsg{SessionID: "s-1", State: "running", Duration: 600, Remaining: 550})
	m, out := run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m, _ = run(t, m, out)
	if m.status != "paused with 08:20 left" {
		t.Fatalf("status = %q", m.status)
	}
	m, _ = run(t, m, timerview.TickMsg{SessionID: "s-1", State: "paused", Duration: 600, Remaining: 500})
	_, _ = run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if diff := cmp.Diff([]string{"pause", "resume"}, timer.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTransitionErrorsReachStatusBar(t *testing.T) {
	t.Parallel()
	m := NewModel(&fakeTimer{}, &fakeLifecycle{}, fakeHistory{}, testModes)
	m, out := run(t, m, components.PaletteSubmitMsg{Input: "abort"})
	m, _ = run(t, m, out)
	if m.status != "abort failed: invalid transition: cannot abort while idle" {
		t.Fatalf("status = %q", m.status)
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"focus/internal/platform/config"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.State.Backend != config.BackendFile {
		t.Fatalf("expected file backend, got %q", cfg.State.Backend)
	}
	if cfg.Ticker.Interval != time.Second {
		t.Fatalf("expected 1s ticker, got %s", cfg.Ticker.Interval)
	}
	mode, ok := cfg.FindMode("focus")
	if !ok || mode.Minutes != 25 {
		t.Fatalf("expected default focus mode of 25 minutes, got %+v ok=%t", mode, ok)
	}
	if cfg.StatePath() != filepath.Join(dir, "state", "active-session.json") {
		t.Fatalf("unexpected state path %s", cfg.StatePath())
	}
}

func TestLoadOverridesFromYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `
state:
  backend: badger
notifications:
  enabled: false
  command: ""
  poll_interval: 2s
ticker:
  interval: 500ms
modes:
  - {name: deep, title: Deep work, color: "#fab387", minutes: 50}
`
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.State.Backend != config.BackendBadger || cfg.Notifications.Enabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Notifications.PollInterval != 2*time.Second || cfg.Ticker.Interval != 500*time.Millisecond {
		t.Fatalf("durations not decoded: %+v", cfg)
	}
	if len(cfg.Modes) != 1 || cfg.Modes[0].Title != "Deep work" {
		t.Fatalf("modes not replaced: %+v", cfg.Modes)
	}
	if cfg.DataDir != dir {
		t.Fatalf("data dir lost: %s", cfg.DataDir)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"backend":   "state:\n  backend: redis\n",
		"ticker":    "ticker:\n  interval: 0s\n",
		"mode":      "modes:\n  - {name: x, minutes: 0}\n",
		"duplicate": "modes:\n  - {name: x, minutes: 1}\n  - {name: x, minutes: 2}\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(raw), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := config.Load(dir); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestNewRequiresDataDir(t *testing.T) {
	t.Parallel()
	if _, err := config.New("  "); err == nil || !strings.Contains(err.Error(), "data dir") {
		t.Fatalf("expected data dir error, got %v", err)
	}
}

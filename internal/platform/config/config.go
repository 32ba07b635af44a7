package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"

	BackendFile   = "file"
	BackendBadger = "badger"
)

type Config struct {
	DataDir string `yaml:"-"`

	State         State         `yaml:"state"`
	Notifications Notifications `yaml:"notifications"`
	Ticker        Ticker        `yaml:"ticker"`
	Log           Log           `yaml:"log"`
	Metrics       Metrics       `yaml:"metrics"`
	Modes         []Mode        `yaml:"modes"`
}

type State struct {
	Backend string `yaml:"backend"`
}

type Notifications struct {
	Enabled      bool          `yaml:"enabled"`
	Command      string        `yaml:"command"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type Ticker struct {
	Interval time.Duration `yaml:"interval"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Metrics struct {
	Addr string `yaml:"addr"`
}

// Mode is a named preset. Title and color are passed through to sessions untouched.
type Mode struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Color   string `yaml:"color"`
	Minutes int    `yaml:"minutes"`
}

func Default(dataDir string) Config {
	return Config{
		DataDir:       dataDir,
		State:         State{Backend: BackendFile},
		Notifications: Notifications{Enabled: true, Command: "notify-send", PollInterval: time.Second},
		Ticker:        Ticker{Interval: time.Second},
		Log:           Log{Level: "warn"},
		Modes: []Mode{
			{Name: "focus", Title: "Focus", Color: "#f38ba8", Minutes: 25},
			{Name: "short-break", Title: "Short break", Color: "#a6e3a1", Minutes: 5},
			{Name: "long-break", Title: "Long break", Color: "#89b4fa", Minutes: 15},
		},
	}
}

// New returns the default configuration rooted at dataDir without reading any file.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)
	return cfg, cfg.Validate()
}

// Load reads <dataDir>/config.yaml on top of the defaults. A missing file is not an error.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = dataDir
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.State.Backend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("state.backend must be %q or %q, got %q", BackendFile, BackendBadger, c.State.Backend)
	}
	if c.Ticker.Interval <= 0 {
		return fmt.Errorf("ticker.interval must be positive")
	}
	if c.Notifications.PollInterval <= 0 {
		return fmt.Errorf("notifications.poll_interval must be positive")
	}
	seen := map[string]struct{}{}
	for _, m := range c.Modes {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("mode name is required")
		}
		if _, ok := seen[m.Name]; ok {
			return fmt.Errorf("duplicate mode %q", m.Name)
		}
		seen[m.Name] = struct{}{}
		if m.Minutes <= 0 {
			return fmt.Errorf("mode %q: minutes must be positive", m.Name)
		}
	}
	return nil
}

// FindMode looks a preset up by name.
func (c Config) FindMode(name string) (Mode, bool) {
	for _, m := range c.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}

func (c Config) StatePath() string  { return filepath.Join(c.DataDir, "state", "active-session.json") }
func (c Config) BadgerDir() string  { return filepath.Join(c.DataDir, "state", "badger") }
func (c Config) DBPath() string     { return filepath.Join(c.DataDir, "focus.db") }
func (c Config) JournalDir() string { return filepath.Join(c.DataDir, "journal") }
func (c Config) LedgerPath() string { return filepath.Join(c.DataDir, "ledger", "outbox.jsonl") }
func (c Config) LogPath() string    { return filepath.Join(c.DataDir, "logs", "focus.log") }

// DefaultDataDir resolves $FOCUS_HOME, falling back to ~/.focus.
func DefaultDataDir() string {
	if dir := os.Getenv("FOCUS_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focus"
	}
	return filepath.Join(home, ".focus")
}

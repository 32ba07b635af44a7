package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"focus/internal/platform/logging"
)

// Not parallel: the logger is process-global.
func TestConfigureWritesComponentField(t *testing.T) {
	logging.Reset()
	t.Cleanup(logging.Reset)

	buf := &bytes.Buffer{}
	logging.Configure(logging.Config{Level: "info", Output: buf, Service: "focus-test"})
	logger := logging.WithComponent("timer.controller")
	logger.Info().Str("session_id", "s-1").Msg("session started")
	logger.Debug().Msg("hidden")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %d: %s", len(lines), buf.String())
	}
	entry := map[string]any{}
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["component"] != "timer.controller" || entry["service"] != "focus-test" || entry["session_id"] != "s-1" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestUnconfiguredLoggerIsSilent(t *testing.T) {
	logging.Reset()
	t.Cleanup(logging.Reset)
	logger := logging.WithComponent("x")
	logger.Error().Msg("dropped")
}

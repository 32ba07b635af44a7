package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"focus/internal/modules/history/domain"
	historyout "focus/internal/modules/history/port/out"
	"focus/internal/platform/markdown"
	"focus/internal/platform/slug"

	"github.com/google/renameio/v2"
)

// JournalNoteWriter writes one markdown note per ended session under
// <dir>/YYYY/MM/DD/. Existing note bodies are preserved on rewrite.
type JournalNoteWriter struct {
	dir string
}

var _ historyout.NoteWriter = (*JournalNoteWriter)(nil)

func NewJournalNoteWriter(dir string) *JournalNoteWriter {
	return &JournalNoteWriter{dir: dir}
}

func (w *JournalNoteWriter) Write(_ context.Context, entry domain.Entry) (string, error) {
	ended := entry.EndedAt.UTC()
	name := fmt.Sprintf("%s-%s-%s.md", ended.Format("150405"), slug.Make(entry.ModeTitle), shortID(entry.SessionID))
	path := filepath.Join(w.dir, ended.Format("2006"), ended.Format("01"), ended.Format("02"), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create journal directory: %w", err)
	}

	body := ""
	if existing, err := os.ReadFile(path); err == nil {
		if _, existingBody, splitErr := markdown.SplitFrontmatter(string(existing)); splitErr == nil {
			body = existingBody
		}
	}
	if strings.TrimSpace(body) == "" {
		body = "## Notes\n\n## Distractions\n"
	}

	rendered, err := markdown.RenderFrontmatter(frontmatter(entry), body)
	if err != nil {
		return "", err
	}
	if err := renameio.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func frontmatter(e domain.Entry) []markdown.Field {
	fields := []markdown.Field{
		{Key: "session_id", Value: e.SessionID},
		{Key: "mode", Value: e.ModeTitle},
	}
	if e.ModeColor != "" {
		fields = append(fields, markdown.Field{Key: "color", Value: e.ModeColor})
	}
	if e.GoalRef != "" {
		fields = append(fields, markdown.Field{Key: "goal", Value: e.GoalRef})
	}
	return append(fields,
		markdown.Field{Key: "outcome", Value: string(e.Outcome)},
		markdown.Field{Key: "planned_seconds", Value: e.PlannedDuration},
		markdown.Field{Key: "active_seconds", Value: e.ActualActiveSeconds},
		markdown.Field{Key: "started_at", Value: e.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00")},
		markdown.Field{Key: "ended_at", Value: e.EndedAt.UTC().Format("2006-01-02T15:04:05Z07:00")},
	)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

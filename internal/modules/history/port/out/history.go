package out

import (
	"context"
	"time"

	"focus/internal/modules/history/domain"
)

type EntryStore interface {
	// Insert stores entry unless its session id is already present.
	// It reports whether a row was written.
	Insert(ctx context.Context, entry domain.Entry) (bool, error)
	SetNotePath(ctx context.Context, sessionID, notePath string) error
	List(ctx context.Context, limit int) ([]domain.Entry, error)
	EndedSince(ctx context.Context, since time.Time) ([]domain.Entry, error)
}

type NoteWriter interface {
	Write(ctx context.Context, entry domain.Entry) (string, error)
}

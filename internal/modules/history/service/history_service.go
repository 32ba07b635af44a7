package service

import (
	"context"
	"fmt"
	"time"

	"focus/internal/modules/history/domain"
	historyout "focus/internal/modules/history/port/out"
	apperrors "focus/internal/platform/errors"
	"focus/internal/platform/logging"

	"github.com/rs/zerolog"
)

const defaultListLimit = 20

type HistoryService struct {
	store  historyout.EntryStore
	notes  historyout.NoteWriter
	logger zerolog.Logger
}

// NewHistoryService builds the service. notes may be nil to skip journal notes.
func NewHistoryService(store historyout.EntryStore, notes historyout.NoteWriter) *HistoryService {
	return &HistoryService{store: store, notes: notes, logger: logging.WithComponent("history")}
}

// Record logs an ended session once. A second call for the same session is a no-op
// that reports duplicate=true.
func (s *HistoryService) Record(ctx context.Context, entry domain.Entry) (domain.Entry, bool, error) {
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, false, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	inserted, err := s.store.Insert(ctx, entry)
	if err != nil {
		return domain.Entry{}, false, err
	}
	if !inserted {
		s.logger.Debug().Str("session_id", entry.SessionID).Msg("session already recorded")
		return entry, true, nil
	}
	if s.notes != nil {
		path, err := s.notes.Write(ctx, entry)
		if err != nil {
			s.logger.Warn().Err(err).Str("session_id", entry.SessionID).Msg("write journal note")
		} else {
			entry.NotePath = path
			if err := s.store.SetNotePath(ctx, entry.SessionID, path); err != nil {
				s.logger.Warn().Err(err).Str("session_id", entry.SessionID).Msg("store journal note path")
			}
		}
	}
	s.logger.Info().
		Str("session_id", entry.SessionID).
		Str("outcome", string(entry.Outcome)).
		Int("actual_active_seconds", entry.ActualActiveSeconds).
		Msg("session recorded")
	return entry, false, nil
}

func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.List(ctx, limit)
}

func (s *HistoryService) Stats(ctx context.Context, since time.Time) (domain.Stats, error) {
	entries, err := s.store.EndedSince(ctx, since)
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.NewStats(since)
	for _, e := range entries {
		stats.Add(e)
	}
	return stats, nil
}

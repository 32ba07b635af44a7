package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
	apperrors "focus/internal/platform/errors"
	"focus/internal/platform/logging"
)

// FileStateStore keeps the active slot in one JSON file. Writes go through
// renameio (fsync + rename) so a reader sees either the old or the new record.
type FileStateStore struct {
	path   string
	logger zerolog.Logger
}

var _ timerout.StateStore = (*FileStateStore)(nil)

func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path, logger: logging.WithComponent("timer.store")}
}

func (s *FileStateStore) Path() string { return s.path }

func (s *FileStateStore) Get(_ context.Context) (*domain.SessionRecord, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Storage("read", err)
	}
	return decodeRecord(payload, s.logger), nil
}

func (s *FileStateStore) Put(_ context.Context, record domain.SessionRecord) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return apperrors.Storage("encode", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.Storage("write", fmt.Errorf("create state dir: %w", err))
	}

	pending, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0o644))
	if err != nil {
		return apperrors.Storage("write", fmt.Errorf("create pending state file: %w", err))
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			s.logger.Debug().Err(err).Msg("cleanup pending state file")
		}
	}()
	if _, err := pending.Write(payload); err != nil {
		return apperrors.Storage("write", fmt.Errorf("write pending state file: %w", err))
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return apperrors.Storage("write", fmt.Errorf("replace state file: %w", err))
	}
	return nil
}

func (s *FileStateStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Storage("clear", err)
	}
	return nil
}

package out

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
	apperrors "focus/internal/platform/errors"
	"focus/internal/platform/logging"
)

var activeSlotKey = []byte("timer/active")

// BadgerStateStore keeps the active slot under a single badger key. Badger holds
// an exclusive directory lock, so only one process may use it at a time.
type BadgerStateStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

var _ timerout.StateStore = (*BadgerStateStore)(nil)

func OpenBadgerStateStore(dir string) (*BadgerStateStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.Storage("open", fmt.Errorf("open badger at %s: %w", dir, err))
	}
	return &BadgerStateStore{db: db, logger: logging.WithComponent("timer.store")}, nil
}

func (s *BadgerStateStore) Close() error { return s.db.Close() }

func (s *BadgerStateStore) Get(_ context.Context) (*domain.SessionRecord, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(activeSlotKey)
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Storage("read", err)
	}
	return decodeRecord(payload, s.logger), nil
}

func (s *BadgerStateStore) Put(_ context.Context, record domain.SessionRecord) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return apperrors.Storage("encode", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(activeSlotKey, payload)
	})
	return apperrors.Storage("write", err)
}

func (s *BadgerStateStore) Clear(_ context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(activeSlotKey)
	})
	return apperrors.Storage("clear", err)
}

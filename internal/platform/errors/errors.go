package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrNoActiveSession       = errors.New("no active session")
	ErrAlreadyActive         = errors.New("finish or abort your current session first")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrStorage               = errors.New("storage failure")
	ErrSchedulingUnavailable = errors.New("notification scheduling unavailable")
)

// StorageError reports a failed read, write or decode of persisted state.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage wraps err as a StorageError. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// TransitionError is returned when an operation is called in a state that does
// not allow it. It always indicates a caller bug.
type TransitionError struct {
	Op    string
	State string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s while %s", e.Op, e.State)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrTimerRunning    = errors.New("timer is running")
	ErrNoTimerState    = errors.New("no persisted timer state")
	ErrPersistenceRead = errors.New("persisted state is unreadable")
	ErrSyncFailure     = errors.New("progress sync failed")
	ErrSyncDisabled    = errors.New("remote sync is not configured")
)

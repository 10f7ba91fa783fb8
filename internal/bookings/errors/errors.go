package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSeriesNotFound = errors.New("booking series not found")

	ErrLockHeld = errors.New("room lock is held by another writer")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrBuildingNotFound = errors.New("building not found")
)

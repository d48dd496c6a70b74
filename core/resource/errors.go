package resource

import "errors"

var (
	// ErrRecordNotFound is returned when the resource identifier matches nothing
	ErrRecordNotFound = errors.New("resource not found")
	ErrEmptyIDParam   = errors.New("resource id can't be empty")
)

package policy

import "errors"

var (
	// ErrPolicyNotFound is returned when a policy id (or id+version) matches
	// no stored record
	ErrPolicyNotFound = errors.New("policy not found")

	ErrEmptyIDParam          = errors.New("policy id can't be empty")
	ErrIDContainsWhitespaces = errors.New("policy id cannot contain whitespaces")

	ErrStepNameContainsWhitespaces = errors.New("step name cannot contain whitespaces")
	ErrDuplicateStepName           = errors.New("step names must be unique within a policy")
)

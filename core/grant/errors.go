package grant

import "errors"

var (
	ErrEmptyIDParam  = errors.New("grant id can't be empty")
	ErrGrantNotFound = errors.New("grant not found")
	ErrEmptyActor    = errors.New("actor can't be empty")
	ErrEmptyOwner    = errors.New("owner can't be empty")

	// ErrManualRevokeRequired is returned when provider revocation keeps
	// failing after exhausting retries. The grant stays active and is flagged
	// for operator intervention.
	ErrManualRevokeRequired = errors.New("provider revocation failed, grant requires manual revoke")
)

package provider

import "errors"

var (
	// ErrInvalidProviderType is returned when no registered client matches the
	// provider type
	ErrInvalidProviderType = errors.New("unable to find provider based on provider type")

	ErrRecordNotFound        = errors.New("provider not found")
	ErrEmptyIDParam          = errors.New("provider id can't be empty")
	ErrNilProviderConfig     = errors.New("provider config can't be nil")
	ErrNilResource           = errors.New("resource can't be nil")
	ErrInvalidResourceType   = errors.New("invalid resource type")
	ErrInvalidRole           = errors.New("invalid role")
	ErrUnknownProviderPolicy = errors.New("resource type is not mapped to any policy")
)

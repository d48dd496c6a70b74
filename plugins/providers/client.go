package providers

import (
	"context"
	"errors"

	"github.com/raystack/guardian/domain"
)

var (
	ErrInvalidResourceType = errors.New("invalid resource type")
	ErrInvalidRole         = errors.New("invalid role")
)

// Client is the capability contract every resource provider must satisfy.
//
// GrantAccess and RevokeAccess must be idempotent: a repeated grant call for
// an already-granted account, or a revoke for an already-revoked one, is a
// no-op success. The engine retries transient failures, so a non-idempotent
// implementation would double-apply side effects.
type Client interface {
	GetType() string
	ValidateAppeal(ctx context.Context, a *domain.Appeal) error
	GrantAccess(ctx context.Context, g domain.Grant) error
	RevokeAccess(ctx context.Context, g domain.Grant) error
}

// PermanentError marks a provider failure that retrying cannot fix, e.g. a
// 4xx response. The engine surfaces it immediately instead of backing off.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

package appeal

import "errors"

var (
	ErrAppealIDEmptyParam  = errors.New("appeal id is required")
	ErrAccountIDEmptyParam = errors.New("account id is required")
	ErrAppealNotFound      = errors.New("appeal not found")

	ErrAppealStatusCanceled     = errors.New("appeal already canceled")
	ErrAppealStatusApproved     = errors.New("appeal already approved")
	ErrAppealStatusRejected     = errors.New("appeal already rejected")
	ErrAppealStatusRevoked      = errors.New("appeal already revoked")
	ErrAppealStatusExpired      = errors.New("appeal already expired")
	ErrAppealStatusUnrecognized = errors.New("unrecognized appeal status")
	ErrAppealDuplicate          = errors.New("appeal with the same resource and role already exists")

	ErrApprovalNotFound   = errors.New("approval not found")
	ErrActionForbidden    = errors.New("user is not allowed to make action on this approval step")
	ErrActionInvalidValue = errors.New("invalid action value")

	ErrSelfApprovalNotAllowed = errors.New("approving your own appeal is not allowed")

	ErrProviderTypeNotFound    = errors.New("provider is not registered")
	ErrResourceNotFound        = errors.New("resource not found")
	ErrPolicyNotFound          = errors.New("unable to find approval policy for specified id")
	ErrOptionsDurationNotFound = errors.New("duration option not found")
	ErrDurationIsRequired      = errors.New("having permanent access to this resource is not allowed, access duration is required")

	ErrInvalidUpdateApprovalParameter = errors.New("invalid approval action parameter")

	// ErrGrantFailed is returned when the appeal is fully approved but the
	// provider could not deliver the access. The appeal stays approved so the
	// grant can be retried without redoing the approvals.
	ErrGrantFailed = errors.New("appeal approved but granting access in the provider failed")
)

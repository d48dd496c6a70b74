package domain

import (
	"errors"
	"time"
)

type GrantStatus string

const (
	GrantStatusActive  GrantStatus = "active"
	GrantStatusRevoked GrantStatus = "revoked"
	GrantStatusExpired GrantStatus = "expired"

	GrantExpirationReason = "access duration exceeded"
)

var (
	ErrGrantNotActive = errors.New("grant is not active")
)

// Grant is the materialized, time-bound access issued by a provider once an
// appeal is fully approved. It is never marked revoked or expired without
// confirmation from the provider.
type Grant struct {
	ID         string      `json:"id" yaml:"id"`
	Status     GrantStatus `json:"status" yaml:"status"`
	AccountID  string      `json:"account_id" yaml:"account_id"`
	ResourceID string      `json:"resource_id" yaml:"resource_id"`
	Role       string      `json:"role" yaml:"role"`
	AppealID   string      `json:"appeal_id" yaml:"appeal_id"`

	IsPermanent          bool       `json:"is_permanent" yaml:"is_permanent"`
	ExpirationDate       *time.Time `json:"expiration_date" yaml:"expiration_date"`
	ExpirationDateReason string     `json:"expiration_date_reason,omitempty" yaml:"expiration_date_reason,omitempty"`

	// RequiresManualRevoke flags a grant whose provider revocation kept
	// failing after exhausting retries. The grant stays active until an
	// operator intervenes.
	RequiresManualRevoke bool `json:"requires_manual_revoke,omitempty" yaml:"requires_manual_revoke,omitempty"`

	RevokedBy    string     `json:"revoked_by,omitempty" yaml:"revoked_by,omitempty"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty" yaml:"revoked_at,omitempty"`
	RevokeReason string     `json:"revoke_reason,omitempty" yaml:"revoke_reason,omitempty"`

	CreatedBy string    `json:"created_by" yaml:"created_by"`
	Owner     string    `json:"owner" yaml:"owner"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	Resource *Resource `json:"resource,omitempty" yaml:"resource,omitempty"`
	Appeal   *Appeal   `json:"appeal,omitempty" yaml:"appeal,omitempty"`
}

func (g *Grant) IsActive() bool {
	return g.Status == GrantStatusActive
}

func (g *Grant) IsTerminal() bool {
	return g.Status == GrantStatusRevoked || g.Status == GrantStatusExpired
}

func (g *Grant) IsExpired() bool {
	return !g.IsPermanent && g.ExpirationDate != nil && time.Now().After(*g.ExpirationDate)
}

// Revoke marks the grant terminally revoked. Only valid on an active grant;
// the caller is responsible for having revoked the access in the provider
// first.
func (g *Grant) Revoke(actor, reason string) error {
	if g == nil {
		return errors.New("grant is nil")
	}
	if actor == "" {
		return errors.New("actor shouldn't be empty")
	}
	if !g.IsActive() {
		return ErrGrantNotActive
	}

	g.Status = GrantStatusRevoked
	g.RequiresManualRevoke = false
	g.RevokedBy = actor
	g.RevokeReason = reason
	now := time.Now()
	g.RevokedAt = &now
	return nil
}

// Expire marks the grant terminally expired. Same preconditions as Revoke.
func (g *Grant) Expire(reason string) error {
	if err := g.Revoke(SystemActorName, reason); err != nil {
		return err
	}
	g.Status = GrantStatusExpired
	return nil
}

type ListGrantsFilter struct {
	Statuses                  []string
	AccountIDs                []string
	ResourceIDs               []string
	Roles                     []string
	AppealIDs                 []string
	Owner                     string
	IsPermanent               *bool
	ExpirationDateLessThan    time.Time
	ExpirationDateGreaterThan time.Time
	RequiresManualRevoke      *bool
	Size                      int
	Offset                    int
}

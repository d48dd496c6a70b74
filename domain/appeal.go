package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/raystack/guardian/pkg/evaluator"
	"github.com/raystack/guardian/utils"
)

const (
	AppealActionNameApprove = "approve"
	AppealActionNameReject  = "reject"

	AppealStatusPending  = "pending"
	AppealStatusCanceled = "canceled"
	AppealStatusApproved = "approved"
	AppealStatusRejected = "rejected"
	AppealStatusRevoked  = "revoked"
	AppealStatusExpired  = "expired"

	SystemActorName = "system"

	// PermanentDurationValue is the reserved duration value for permanent access
	PermanentDurationValue = "0h"

	ExpirationDateReasonFromAppeal = "Expiration date is set based on the appeal options"
)

var (
	ErrFailedToGetApprovers   = errors.New("failed to get approvers")
	ErrApproversNotFound      = errors.New("approvers not found")
	ErrUnexpectedApproverType = errors.New("unexpected approver type")
	ErrInvalidApproverValue   = errors.New("approver value is not a valid email")
	ErrNoEligibleApprovers    = errors.New("step has no eligible approvers")
)

// AppealOptions
type AppealOptions struct {
	ExpirationDate *time.Time `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
	Duration       string     `json:"duration" yaml:"duration"`
}

// Appeal is a request for time-bound access to a resource. Its status is
// derived exclusively from the outcomes of its approvals.
type Appeal struct {
	ID            string                 `json:"id" yaml:"id"`
	ResourceID    string                 `json:"resource_id" yaml:"resource_id"`
	PolicyID      string                 `json:"policy_id" yaml:"policy_id"`
	PolicyVersion uint                   `json:"policy_version" yaml:"policy_version"`
	Status        string                 `json:"status" yaml:"status"`
	AccountID     string                 `json:"account_id" yaml:"account_id"`
	CreatedBy     string                 `json:"created_by" yaml:"created_by"`
	Creator       interface{}            `json:"creator" yaml:"creator"`
	Role          string                 `json:"role" yaml:"role"`
	Options       *AppealOptions         `json:"options" yaml:"options"`
	Details       map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Description   string                 `json:"description,omitempty" yaml:"description,omitempty"`

	Policy    *Policy     `json:"-" yaml:"-"`
	Resource  *Resource   `json:"resource,omitempty" yaml:"resource,omitempty"`
	Approvals []*Approval `json:"approvals,omitempty" yaml:"approvals,omitempty"`
	Grant     *Grant      `json:"grant,omitempty" yaml:"grant,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func (a *Appeal) Init(policy *Policy) {
	a.Status = AppealStatusPending
	a.PolicyID = policy.ID
	a.PolicyVersion = policy.Version
}

func (a *Appeal) Cancel() {
	a.Status = AppealStatusCanceled
}

func (a *Appeal) Approve() {
	a.Status = AppealStatusApproved
}

func (a *Appeal) Reject() {
	a.Status = AppealStatusRejected
}

func (a *Appeal) IsTerminal() bool {
	switch a.Status {
	case AppealStatusRejected, AppealStatusCanceled, AppealStatusRevoked, AppealStatusExpired:
		return true
	}
	return false
}

func (a *Appeal) GetDuration() (time.Duration, error) {
	if a.IsDurationEmpty() {
		return 0 * time.Second, nil
	}

	duration, err := time.ParseDuration(a.Options.Duration)
	if err != nil {
		return 0 * time.Second, err
	}

	return duration, nil
}

func (a *Appeal) IsDurationEmpty() bool {
	return a.Options == nil || a.Options.Duration == "" || a.Options.Duration == PermanentDurationValue
}

// GetApproval returns the approval with the given name, or nil.
func (a *Appeal) GetApproval(name string) *Approval {
	for _, approval := range a.Approvals {
		if approval.Name == name {
			return approval
		}
	}
	return nil
}

func (a *Appeal) GetApprovalByIndex(index int) *Approval {
	for _, approval := range a.Approvals {
		if approval.Index == index {
			return approval
		}
	}
	return nil
}

// ActiveApproval returns the single approval currently accepting decisions,
// or nil if the appeal has none (terminal, or fully resolved).
func (a *Appeal) ActiveApproval() *Approval {
	for _, approval := range a.Approvals {
		if approval.Status == ApprovalStatusPending {
			return approval
		}
	}
	return nil
}

// ApplyPolicy materializes the appeal's approvals from the policy's step
// templates. All approvals start blocked; AdvanceApproval activates them in
// order, resolving approvers and evaluating activation conditions against the
// context snapshot captured at creation time.
func (a *Appeal) ApplyPolicy(p *Policy) error {
	approvals := make([]*Approval, 0, len(p.Steps))
	for i, step := range p.Steps {
		approvals = append(approvals, step.ToApproval(a, p, i))
	}

	a.Approvals = approvals
	a.Init(p)
	a.Policy = p

	return nil
}

// AdvanceApproval walks the approval chain: activates blocked steps (skipping
// those whose condition evaluates falsy), resolves outcomes from recorded
// decisions, and derives the appeal status. The walk stops at the first step
// that remains pending. A rejected step terminates the appeal immediately;
// steps after it are never evaluated.
func (a *Appeal) AdvanceApproval(policy *Policy) error {
	if policy == nil {
		return fmt.Errorf("appeal %q has no policy", a.ID)
	}

	for i := 0; i < len(a.Approvals); i++ {
		approval := a.Approvals[i]

		if approval.Status == ApprovalStatusBlocked {
			if err := a.activateApproval(approval, policy); err != nil {
				return err
			}
		}

		if approval.Status == ApprovalStatusPending {
			switch approval.ResolveOutcome() {
			case ApprovalStatusApproved:
				approval.Approve()
			case ApprovalStatusRejected:
				approval.Reject()
			}
		}

		switch approval.Status {
		case ApprovalStatusRejected:
			a.Reject()
			a.skipApprovalsAfter(approval.Index)
			return nil
		case ApprovalStatusPending:
			// waiting on approver decisions
			return nil
		}
	}

	// every step resolved approved or skipped
	a.Approve()
	return nil
}

func (a *Appeal) activateApproval(approval *Approval, policy *Policy) error {
	step := policy.Steps[approval.Index]

	if step.When != "" {
		v, err := evaluator.Expression(step.When).EvaluateWithVars(a.evaluationContext())
		if err != nil {
			return fmt.Errorf("evaluating activation condition for step %q: %w", step.Name, err)
		}
		if !evaluator.IsTruthy(v) {
			approval.Skip()
			return nil
		}
	}

	if step.Strategy == ApprovalStepStrategyAuto {
		v, err := evaluator.Expression(step.ApproveIf).EvaluateWithVars(a.evaluationContext())
		if err != nil {
			return fmt.Errorf("evaluating approve_if for step %q: %w", step.Name, err)
		}
		if evaluator.IsTruthy(v) {
			approval.Approve()
		} else if step.Optional {
			approval.Skip()
		} else {
			approval.Reason = step.RejectionReason
			approval.Reject()
		}
		return nil
	}

	approvers, err := step.ResolveApprovers(a)
	if err != nil {
		return fmt.Errorf("resolving approvers for step %q: %w", step.Name, err)
	}
	if len(approvers) == 0 {
		if step.Optional {
			approval.Skip()
			return nil
		}
		return fmt.Errorf("%w: %q", ErrNoEligibleApprovers, step.Name)
	}

	approval.Approvers = approvers
	approval.Status = ApprovalStatusPending
	return nil
}

func (a *Appeal) skipApprovalsAfter(index int) {
	for _, approval := range a.Approvals {
		if approval.Index > index && !approval.IsResolved() {
			approval.Skip()
		}
	}
}

func (a Appeal) ToGrant() (*Grant, error) {
	grant := &Grant{
		Status:     GrantStatusActive,
		AccountID:  a.AccountID,
		ResourceID: a.ResourceID,
		Role:       a.Role,
		AppealID:   a.ID,
		CreatedBy:  a.CreatedBy,
		Owner:      a.CreatedBy,
	}

	if a.Options != nil && a.Options.Duration != "" && a.Options.Duration != PermanentDurationValue {
		duration, err := time.ParseDuration(a.Options.Duration)
		if err != nil {
			return nil, fmt.Errorf("parsing duration %q: %w", a.Options.Duration, err)
		}
		expDate := time.Now().Add(duration)
		grant.ExpirationDate = &expDate
		grant.ExpirationDateReason = ExpirationDateReasonFromAppeal
	} else {
		grant.IsPermanent = true
	}

	return grant, nil
}

func (a *Appeal) ToMap() (map[string]interface{}, error) {
	return utils.StructToMap(a)
}

// evaluationContext exposes the appeal's creation-time snapshot to condition
// expressions under the $appeal, $requester, and $resource namespaces. The
// snapshot is never refreshed after creation, so a policy change mid-review
// cannot retroactively alter which steps apply.
func (a *Appeal) evaluationContext() map[string]interface{} {
	appealMap, err := a.ToMap()
	if err != nil {
		appealMap = map[string]interface{}{}
	}

	params := map[string]interface{}{
		"appeal": appealMap,
	}
	if creator, ok := appealMap["creator"]; ok && creator != nil {
		params["requester"] = creator
	}
	if resource, ok := appealMap["resource"]; ok && resource != nil {
		params["resource"] = resource
	}
	return params
}

type ApprovalActionType string

const (
	ApprovalActionApprove ApprovalActionType = "approve"
	ApprovalActionReject  ApprovalActionType = "reject"
)

// ApprovalAction is a single approver's decision on the currently active
// approval step of an appeal.
type ApprovalAction struct {
	AppealID     string `validate:"required" json:"appeal_id"`
	ApprovalName string `validate:"required" json:"approval_name"`
	Actor        string `validate:"email" json:"actor"`
	Action       string `validate:"required,oneof=approve reject" json:"action"`
	Reason       string `json:"reason"`
}

func (a ApprovalAction) Validate() error {
	if a.AppealID == "" {
		return fmt.Errorf("appeal id is required")
	}
	if a.ApprovalName == "" {
		return fmt.Errorf("approval name is required")
	}
	if validator.New().Var(a.Actor, "email") != nil {
		return fmt.Errorf("actor is not a valid email: %q", a.Actor)
	}
	if a.Action != AppealActionNameApprove && a.Action != AppealActionNameReject {
		return fmt.Errorf("invalid action: %q", a.Action)
	}
	return nil
}

type ListAppealsFilter struct {
	AccountID   string    `mapstructure:"account_id" validate:"omitempty,required"`
	AccountIDs  []string  `mapstructure:"account_ids" validate:"omitempty,min=1"`
	CreatedBy   string    `mapstructure:"created_by" validate:"omitempty,required"`
	ResourceID  string    `mapstructure:"resource_id" validate:"omitempty,required"`
	ResourceIDs []string  `mapstructure:"resource_ids" validate:"omitempty,min=1"`
	Role        string    `mapstructure:"role" validate:"omitempty,required"`
	Statuses    []string  `mapstructure:"statuses" validate:"omitempty,min=1"`
	PolicyID    string    `mapstructure:"policy_id" validate:"omitempty,required"`
	CreatedAtGt time.Time `mapstructure:"created_at_gt" validate:"omitempty"`
	Size        int       `mapstructure:"size" validate:"omitempty"`
	Offset      int       `mapstructure:"offset" validate:"omitempty"`
}

package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	ApprovalStatusBlocked  = "blocked"
	ApprovalStatusPending  = "pending"
	ApprovalStatusSkipped  = "skipped"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

var ErrApprovalNotPending = errors.New("approval is not pending")

// Decision is one approver's recorded action on an approval step. At most one
// decision exists per approver; a later decision from the same approver
// overwrites the earlier one while the step is still pending.
type Decision struct {
	Approver  string    `json:"approver" yaml:"approver"`
	Action    string    `json:"action" yaml:"action"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Approval is one materialized step of an appeal's approval chain. Approvers
// are resolved once, at activation time, from the appeal's creation-time
// context snapshot.
type Approval struct {
	ID            string               `json:"id" yaml:"id"`
	Name          string               `json:"name" yaml:"name"`
	Index         int                  `json:"-" yaml:"-"`
	AppealID      string               `json:"appeal_id" yaml:"appeal_id"`
	Status        string               `json:"status" yaml:"status"`
	Strategy      ApprovalStepStrategy `json:"strategy" yaml:"strategy"`
	Optional      bool                 `json:"optional,omitempty" yaml:"optional,omitempty"`
	Reason        string               `json:"reason,omitempty" yaml:"reason,omitempty"`
	PolicyID      string               `json:"policy_id" yaml:"policy_id"`
	PolicyVersion uint                 `json:"policy_version" yaml:"policy_version"`

	Approvers []string    `json:"approvers,omitempty" yaml:"approvers,omitempty"`
	Decisions []*Decision `json:"decisions,omitempty" yaml:"decisions,omitempty"`
	Appeal    *Appeal     `json:"appeal,omitempty" yaml:"appeal,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func (a *Approval) Approve() {
	a.Status = ApprovalStatusApproved
}

func (a *Approval) Reject() {
	a.Status = ApprovalStatusRejected
}

func (a *Approval) Skip() {
	a.Status = ApprovalStatusSkipped
}

func (a *Approval) IsResolved() bool {
	switch a.Status {
	case ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusSkipped:
		return true
	}
	return false
}

func (a *Approval) IsExistingApprover(approver string) bool {
	for _, v := range a.Approvers {
		if strings.EqualFold(approver, v) {
			return true
		}
	}

	return false
}

// GetDecision returns the approver's recorded decision, or nil.
func (a *Approval) GetDecision(approver string) *Decision {
	for _, d := range a.Decisions {
		if strings.EqualFold(d.Approver, approver) {
			return d
		}
	}
	return nil
}

// RecordDecision registers or overwrites the approver's decision. Overwrites
// are only permitted while the step is still pending.
func (a *Approval) RecordDecision(approver, action, reason string, t time.Time) error {
	if a.Status != ApprovalStatusPending {
		return ErrApprovalNotPending
	}

	if existing := a.GetDecision(approver); existing != nil {
		existing.Action = action
		existing.Reason = reason
		existing.CreatedAt = t
		return nil
	}

	a.Decisions = append(a.Decisions, &Decision{
		Approver:  approver,
		Action:    action,
		Reason:    reason,
		CreatedAt: t,
	})
	return nil
}

// ResolveOutcome recomputes the step outcome from the recorded decisions
// according to the step's resolution strategy. It returns pending when the
// decisions so far are not conclusive.
//
//   - any: approved on the first approval; rejected only when every eligible
//     approver has rejected.
//   - all: resolved only once every eligible approver has decided; approved
//     when there is no rejection, rejected otherwise. Until then an approver
//     may still overwrite their decision.
//   - auto_reject_on_any: rejected on the first rejection; approved when all
//     approve.
func (a *Approval) ResolveOutcome() string {
	var approvals, rejections int
	for _, d := range a.Decisions {
		switch d.Action {
		case AppealActionNameApprove:
			approvals++
		case AppealActionNameReject:
			rejections++
		}
	}
	total := len(a.Approvers)

	switch a.Strategy {
	case ApprovalStepStrategyAny:
		if approvals > 0 {
			return ApprovalStatusApproved
		}
		if rejections == total {
			return ApprovalStatusRejected
		}
	case ApprovalStepStrategyAll:
		if approvals+rejections == total {
			if rejections > 0 {
				return ApprovalStatusRejected
			}
			return ApprovalStatusApproved
		}
	case ApprovalStepStrategyAutoRejectOnAny:
		if rejections > 0 {
			return ApprovalStatusRejected
		}
		if approvals == total {
			return ApprovalStatusApproved
		}
	}

	return ApprovalStatusPending
}

type ListApprovalsFilter struct {
	AccountID      string   `mapstructure:"account_id" validate:"omitempty,required"`
	CreatedBy      string   `mapstructure:"created_by" validate:"omitempty,required"`
	Statuses       []string `mapstructure:"statuses" validate:"omitempty,min=1"`
	AppealStatuses []string `mapstructure:"appeal_statuses" validate:"omitempty,min=1"`
	Size           int      `mapstructure:"size" validate:"omitempty"`
	Offset         int      `mapstructure:"offset" validate:"omitempty"`
}

package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mcuadros/go-lookup"

	"github.com/raystack/guardian/pkg/evaluator"
	"github.com/raystack/guardian/pkg/slices"
)

const (
	// ApproversKeyResource prefixes approver entries resolved from resource
	// attributes, e.g. "$resource.details.owner"
	ApproversKeyResource = "$resource"
)

var (
	ErrInvalidApproverPath = errors.New("unable to resolve approver path")

	validate = validator.New()
)

type ApprovalStepStrategy string

const (
	// ApprovalStepStrategyAny resolves approved on the first approval
	ApprovalStepStrategyAny ApprovalStepStrategy = "any"

	// ApprovalStepStrategyAll requires a decision from every eligible approver
	ApprovalStepStrategyAll ApprovalStepStrategy = "all"

	// ApprovalStepStrategyAutoRejectOnAny rejects on the first rejection
	ApprovalStepStrategyAutoRejectOnAny ApprovalStepStrategy = "auto_reject_on_any"

	// ApprovalStepStrategyAuto resolves from the ApproveIf expression without
	// human decisions
	ApprovalStepStrategyAuto ApprovalStepStrategy = "auto"
)

// Step is an individual process within an approval flow
type Step struct {
	// Name used as the step identifier
	Name string `json:"name" yaml:"name" validate:"required"`

	// Description tells more details about the step
	Description string `json:"description" yaml:"description"`

	// When is an Expression that determines whether the step applies to an
	// appeal or can be skipped. Evaluated once, against the context snapshot
	// captured at appeal creation.
	//
	// Accessible parameters:
	// $appeal = Appeal object
	// $requester = requester attributes from the identity manager
	// $resource = Resource object
	When string `json:"when,omitempty" yaml:"when,omitempty"`

	// Strategy defines how the recorded decisions resolve the step
	Strategy ApprovalStepStrategy `json:"strategy" yaml:"strategy" validate:"required,oneof=any all auto_reject_on_any auto"`

	// Optional marks the step as auto-approved (skipped) when approver
	// resolution yields no eligible approvers, instead of failing the appeal.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`

	// RejectionReason message fills `Approval.Reason` if the approval step gets rejected based on `ApproveIf` expression.
	RejectionReason string `json:"rejection_reason,omitempty" yaml:"rejection_reason,omitempty"`

	// Approvers is a list of email addresses, "$resource.<path>" references,
	// or Expressions evaluating to string or []string of approver emails.
	//
	// Accessible parameters:
	// $appeal = Appeal object
	// $requester = requester attributes from the identity manager
	Approvers []string `json:"approvers,omitempty" yaml:"approvers,omitempty" validate:"required_unless=Strategy auto,omitempty,min=1"`

	// ApproveIf is an Expression that determines the resolution of an auto
	// strategy step.
	ApproveIf string `json:"approve_if,omitempty" yaml:"approve_if,omitempty" validate:"required_if=Strategy auto"`

	// DontAllowSelfApproval is a boolean flag to determine if the approver can approve their own request.
	DontAllowSelfApproval bool `json:"dont_allow_self_approval,omitempty" yaml:"dont_allow_self_approval,omitempty"`
}

// ResolveApprovers returns the distinct approver emails for this step
// resolved from the appeal's creation-time context. Entries that are already
// emails pass through; "$resource."-prefixed entries are looked up on the
// appeal's resource; anything else is evaluated as an expression.
func (s Step) ResolveApprovers(a *Appeal) ([]string, error) {
	if s.Strategy == ApprovalStepStrategyAuto {
		return nil, nil
	}

	var approvers []string

	for _, entry := range s.Approvers {
		if err := validate.Var(entry, "email"); err == nil {
			approvers = append(approvers, entry)
			continue
		}

		if strings.HasPrefix(entry, ApproversKeyResource+".") {
			resolved, err := s.resolveResourceApprovers(a, entry)
			if err != nil {
				return nil, err
			}
			approvers = append(approvers, resolved...)
			continue
		}

		resolved, err := s.resolveExpressionApprovers(a, entry)
		if err != nil {
			return nil, err
		}
		approvers = append(approvers, resolved...)
	}

	uniqueApprovers := slices.UniqueStringSlice(approvers)
	for _, approverEmail := range uniqueApprovers {
		if err := validate.Var(approverEmail, "email"); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidApproverValue, approverEmail)
		}
	}

	return uniqueApprovers, nil
}

func (s Step) resolveResourceApprovers(a *Appeal, entry string) ([]string, error) {
	if a.Resource == nil {
		return nil, fmt.Errorf("%w: %q: appeal has no resource", ErrInvalidApproverPath, entry)
	}

	resourceMap, err := a.Resource.ToMap()
	if err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(entry, fmt.Sprintf("%s.", ApproversKeyResource))
	value, err := lookup.LookupString(resourceMap, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidApproverPath, entry, err)
	}

	return collectApproverValues(value.Interface())
}

func (s Step) resolveExpressionApprovers(a *Appeal, entry string) ([]string, error) {
	appealMap, err := a.ToMap()
	if err != nil {
		return nil, fmt.Errorf("parsing appeal to map: %w", err)
	}
	params := map[string]interface{}{
		"appeal": appealMap,
	}
	if creator, ok := appealMap["creator"]; ok && creator != nil {
		params["requester"] = creator
	}

	approversValue, err := evaluator.Expression(entry).EvaluateWithVars(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFailedToGetApprovers, err)
	} else if approversValue == nil {
		return nil, ErrApproversNotFound
	}

	return collectApproverValues(approversValue)
}

func collectApproverValues(v interface{}) ([]string, error) {
	var approvers []string

	value := reflect.ValueOf(v)
	switch value.Type().Kind() {
	case reflect.String:
		approvers = append(approvers, value.String())
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			itemValue := reflect.ValueOf(value.Index(i).Interface())
			switch itemValue.Type().Kind() {
			case reflect.String:
				approvers = append(approvers, itemValue.String())
			default:
				return nil, fmt.Errorf(`%w: %q`, ErrUnexpectedApproverType, itemValue.Type().Kind())
			}
		}
	default:
		return nil, fmt.Errorf(`%w: %q`, ErrUnexpectedApproverType, value.Type().Kind())
	}

	return approvers, nil
}

// ToApproval creates the step's approval instance. Approvals start blocked;
// approver resolution and condition evaluation happen at activation.
func (s Step) ToApproval(a *Appeal, p *Policy, index int) *Approval {
	return &Approval{
		Index:         index,
		Name:          s.Name,
		AppealID:      a.ID,
		PolicyID:      p.ID,
		PolicyVersion: p.Version,
		Strategy:      s.Strategy,
		Optional:      s.Optional,
		Status:        ApprovalStatusBlocked,
	}
}

// ValidateExpressions checks the step's expressions compile so that broken
// policies are rejected at policy creation rather than at appeal evaluation.
func (s Step) ValidateExpressions() error {
	if s.When != "" {
		if err := evaluator.Expression(s.When).Validate(); err != nil {
			return fmt.Errorf("step %q: when: %w", s.Name, err)
		}
	}
	if s.ApproveIf != "" {
		if err := evaluator.Expression(s.ApproveIf).Validate(); err != nil {
			return fmt.Errorf("step %q: approve_if: %w", s.Name, err)
		}
	}
	for _, entry := range s.Approvers {
		if err := validate.Var(entry, "email"); err == nil {
			continue
		}
		if strings.HasPrefix(entry, ApproversKeyResource+".") {
			continue
		}
		if err := evaluator.Expression(entry).Validate(); err != nil {
			return fmt.Errorf("step %q: approvers: %w", s.Name, err)
		}
	}
	return nil
}

type AppealDurationOption struct {
	// Name of the duration
	// Ex: 1 Day, 3 Days, Permanent
	Name string `json:"name" yaml:"name" validate:"required"`
	// Value of the actual duration
	// Ex: 24h, 72h, 0h
	// `0h` is reserved for permanent access
	Value string `json:"value" yaml:"value" validate:"required"`
}

type PolicyAppealConfig struct {
	// DefaultDuration applies when an appeal doesn't specify one
	DefaultDuration      string                 `json:"default_duration,omitempty" yaml:"default_duration,omitempty"`
	DurationOptions      []AppealDurationOption `json:"duration_options,omitempty" yaml:"duration_options,omitempty" validate:"omitempty,min=1,dive"`
	AllowPermanentAccess bool                   `json:"allow_permanent_access" yaml:"allow_permanent_access"`
}

// Policy is the approval policy configuration. Policies are immutable once
// referenced by an appeal; an edit creates a new version.
type Policy struct {
	ID           string              `json:"id" yaml:"id" validate:"required"`
	Version      uint                `json:"version" yaml:"version"`
	Description  string              `json:"description" yaml:"description"`
	Steps        []*Step             `json:"steps" yaml:"steps" validate:"required,min=1,dive"`
	AppealConfig *PolicyAppealConfig `json:"appeal,omitempty" yaml:"appeal,omitempty" validate:"omitempty,dive"`
	Labels       map[string]string   `json:"labels,omitempty" yaml:"labels,omitempty"`
	IAM          *IAMConfig          `json:"iam,omitempty" yaml:"iam,omitempty" validate:"omitempty,dive"`
	CreatedAt    time.Time           `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func (p *Policy) GetStepByName(name string) *Step {
	for _, step := range p.Steps {
		if step.Name == name {
			return step
		}
	}
	return nil
}

func (p *Policy) HasIAMConfig() bool {
	return p.IAM != nil
}

type ListPoliciesFilter struct {
	IDs []string `mapstructure:"ids" validate:"omitempty,min=1"`
}

//go:generate mockery --name=repository --exported
//go:generate mockery --name=policyService --exported
//go:generate mockery --name=providerService --exported
//go:generate mockery --name=resourceService --exported
//go:generate mockery --name=grantService --exported
//go:generate mockery --name=iamManager --exported
//go:generate mockery --name=notifier --exported
//go:generate mockery --name=auditLogger --exported

package appeal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/lock"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/notifiers"
)

const (
	AuditKeyCreate  = "appeal.create"
	AuditKeyApprove = "appeal.approve"
	AuditKeyReject  = "appeal.reject"
	AuditKeyCancel  = "appeal.cancel"
)

var TimeNow = time.Now

type repository interface {
	Create(context.Context, *domain.Appeal) error
	Find(context.Context, *domain.ListAppealsFilter) ([]*domain.Appeal, error)
	GetByID(ctx context.Context, id string) (*domain.Appeal, error)
	Update(context.Context, *domain.Appeal) error
}

type policyService interface {
	GetOne(ctx context.Context, id string, version uint) (*domain.Policy, error)
}

type providerService interface {
	GetOne(ctx context.Context, pType, urn string) (*domain.Provider, error)
	GetPolicyConfig(p *domain.Provider, resourceType string) (*domain.PolicyConfig, error)
	ValidateAppeal(ctx context.Context, a *domain.Appeal, p *domain.Provider) error
	GrantAccess(context.Context, domain.Grant) error
}

type resourceService interface {
	GetOne(ctx context.Context, id string) (*domain.Resource, error)
}

type grantService interface {
	Create(ctx context.Context, grant *domain.Grant) error
}

type iamManager interface {
	domain.IAMManager
}

type notifier interface {
	notifiers.Client
}

type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// Service orchestrates the appeal lifecycle: creation, approval processing,
// cancellation, and the derived status transitions. All mutations on a single
// appeal are serialized through a per-appeal lock so concurrent approver
// actions observe each other's effects.
type Service struct {
	repo            repository
	policyService   policyService
	providerService providerService
	resourceService resourceService
	grantService    grantService
	iam             iamManager

	notifier    notifier
	logger      log.Logger
	auditLogger auditLogger

	appealLock *lock.KeyedMutex
}

type ServiceDeps struct {
	Repository      repository
	PolicyService   policyService
	ProviderService providerService
	ResourceService resourceService
	GrantService    grantService
	IAMManager      iamManager

	Notifier    notifier
	Logger      log.Logger
	AuditLogger auditLogger

	AppealLock *lock.KeyedMutex
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps.Repository,
		deps.PolicyService,
		deps.ProviderService,
		deps.ResourceService,
		deps.GrantService,
		deps.IAMManager,

		deps.Notifier,
		deps.Logger,
		deps.AuditLogger,

		deps.AppealLock,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Appeal, error) {
	if id == "" {
		return nil, ErrAppealIDEmptyParam
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Find(ctx context.Context, filters *domain.ListAppealsFilter) ([]*domain.Appeal, error) {
	return s.repo.Find(ctx, filters)
}

// Create validates the appeal against its provider and policy, materializes
// the approval chain, and advances it past any auto-resolving steps. An
// appeal whose every step resolves without human decisions is approved and
// granted immediately.
func (s *Service) Create(ctx context.Context, appeal *domain.Appeal) error {
	if err := s.validateCreateParams(appeal); err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)
	var (
		resource       *domain.Resource
		pendingAppeals []*domain.Appeal
	)

	eg.Go(func() error {
		r, err := s.resourceService.GetOne(egctx, appeal.ResourceID)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrResourceNotFound, appeal.ResourceID)
		}
		resource = r
		return nil
	})

	eg.Go(func() error {
		existing, err := s.repo.Find(egctx, &domain.ListAppealsFilter{
			AccountID:  appeal.AccountID,
			ResourceID: appeal.ResourceID,
			Role:       appeal.Role,
			Statuses:   []string{domain.AppealStatusPending},
		})
		if err != nil {
			return fmt.Errorf("listing pending appeals: %w", err)
		}
		pendingAppeals = existing
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	if len(pendingAppeals) > 0 {
		return ErrAppealDuplicate
	}
	appeal.Resource = resource

	provider, err := s.providerService.GetOne(ctx, resource.ProviderType, resource.ProviderURN)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProviderTypeNotFound, resource.ProviderType)
	}

	policy, err := s.getPolicy(ctx, provider, resource.Type)
	if err != nil {
		return err
	}

	if err := s.providerService.ValidateAppeal(ctx, appeal, provider); err != nil {
		return fmt.Errorf("provider validation: %w", err)
	}

	if err := validateAppealDurationConfig(appeal, policy); err != nil {
		return err
	}

	if err := s.addCreatorDetails(ctx, appeal, policy); err != nil {
		return err
	}

	if err := appeal.ApplyPolicy(policy); err != nil {
		return fmt.Errorf("populating approvals: %w", err)
	}
	if err := appeal.AdvanceApproval(policy); err != nil {
		return fmt.Errorf("initializing approval step statuses: %w", err)
	}

	if err := s.repo.Create(ctx, appeal); err != nil {
		return fmt.Errorf("inserting appeal: %w", err)
	}

	if appeal.Status == domain.AppealStatusApproved {
		if err := s.GrantAccessToProvider(ctx, appeal); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, appeal); err != nil {
			return fmt.Errorf("updating appeal: %w", err)
		}
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyCreate, map[string]interface{}{
			"appeal_id": appeal.ID,
			"to_status": appeal.Status,
			"actor":     appeal.CreatedBy,
		}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	s.notify(ctx, s.getApprovalNotifications(appeal)...)

	return nil
}

// UpdateApproval records an approver's decision on the named approval step
// and advances the appeal. Decisions are only accepted on the currently
// active step, from its resolved approvers.
func (s *Service) UpdateApproval(ctx context.Context, approvalAction domain.ApprovalAction) (*domain.Appeal, error) {
	if err := approvalAction.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpdateApprovalParameter, err)
	}

	unlock := s.appealLock.Lock(approvalAction.AppealID)
	defer unlock()

	appeal, err := s.GetByID(ctx, approvalAction.AppealID)
	if err != nil {
		return nil, err
	}

	if err := checkIfAppealStatusStillPending(appeal.Status); err != nil {
		return nil, err
	}
	fromStatus := appeal.Status

	approval := appeal.GetApproval(approvalAction.ApprovalName)
	if approval == nil {
		return nil, fmt.Errorf("%w: %q", ErrApprovalNotFound, approvalAction.ApprovalName)
	}
	if approval.Status != domain.ApprovalStatusPending {
		return nil, fmt.Errorf("%w: %q is %s", domain.ErrApprovalNotPending, approval.Name, approval.Status)
	}
	if !approval.IsExistingApprover(approvalAction.Actor) {
		return nil, ErrActionForbidden
	}

	if appeal.Policy == nil {
		appeal.Policy, err = s.policyService.GetOne(ctx, appeal.PolicyID, appeal.PolicyVersion)
		if err != nil {
			return nil, err
		}
	}

	if approvalAction.Action == domain.AppealActionNameApprove {
		step := appeal.Policy.GetStepByName(approval.Name)
		if step != nil && step.DontAllowSelfApproval && approvalAction.Actor == appeal.CreatedBy {
			return nil, ErrSelfApprovalNotAllowed
		}
	}

	if err := approval.RecordDecision(approvalAction.Actor, approvalAction.Action, approvalAction.Reason, TimeNow()); err != nil {
		return nil, err
	}
	approval.UpdatedAt = TimeNow()

	if err := appeal.AdvanceApproval(appeal.Policy); err != nil {
		return nil, err
	}

	// persist the decision before touching the provider so a crash between
	// the two can't lose it
	if err := s.repo.Update(ctx, appeal); err != nil {
		return nil, fmt.Errorf("updating appeal: %w", err)
	}

	if appeal.Status == domain.AppealStatusApproved {
		if err := s.GrantAccessToProvider(ctx, appeal); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, appeal); err != nil {
			return nil, fmt.Errorf("updating appeal: %w", err)
		}
	}

	s.notify(ctx, s.getDecisionNotifications(appeal)...)

	auditKey := AuditKeyApprove
	if approvalAction.Action == domain.AppealActionNameReject {
		auditKey = AuditKeyReject
	}
	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, auditKey, map[string]interface{}{
			"appeal_id":   appeal.ID,
			"approval":    approval.Name,
			"actor":       approvalAction.Actor,
			"from_status": fromStatus,
			"to_status":   appeal.Status,
			"reason":      approvalAction.Reason,
		}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return appeal, nil
}

// Cancel withdraws a pending appeal. Only the requester's pending appeals can
// be canceled; any other status is a terminal state already.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Appeal, error) {
	if id == "" {
		return nil, ErrAppealIDEmptyParam
	}

	unlock := s.appealLock.Lock(id)
	defer unlock()

	appeal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkIfAppealStatusStillPending(appeal.Status); err != nil {
		return nil, err
	}

	fromStatus := appeal.Status
	appeal.Cancel()
	if err := s.repo.Update(ctx, appeal); err != nil {
		return nil, err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyCancel, map[string]interface{}{
			"appeal_id":   id,
			"from_status": fromStatus,
			"to_status":   appeal.Status,
		}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return appeal, nil
}

// UpdateStatus moves an appeal into a grant-derived terminal status (revoked
// or expired). The caller holds the per-appeal lock.
func (s *Service) UpdateStatus(ctx context.Context, appealID, status string) error {
	appeal, err := s.GetByID(ctx, appealID)
	if err != nil {
		return err
	}

	appeal.Status = status
	return s.repo.Update(ctx, appeal)
}

// GrantAccessToProvider converts the approved appeal into a grant, delivers
// it to the provider, and stores it. A provider failure leaves the appeal
// approved so granting can be retried without redoing the approvals.
func (s *Service) GrantAccessToProvider(ctx context.Context, a *domain.Appeal) error {
	grant, err := a.ToGrant()
	if err != nil {
		return fmt.Errorf("preparing grant: %w", err)
	}
	grant.Resource = a.Resource

	if err := s.providerService.GrantAccess(ctx, *grant); err != nil {
		s.logger.Error(ctx, "granting access in provider failed", "appeal", a.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrGrantFailed, err)
	}

	if err := s.grantService.Create(ctx, grant); err != nil {
		return fmt.Errorf("inserting grant: %w", err)
	}
	a.Grant = grant

	return nil
}

func (s *Service) validateCreateParams(a *domain.Appeal) error {
	if a.AccountID == "" {
		return ErrAccountIDEmptyParam
	}
	if a.CreatedBy == "" {
		a.CreatedBy = a.AccountID
	}
	if a.ResourceID == "" {
		return ErrResourceNotFound
	}
	return nil
}

func (s *Service) getPolicy(ctx context.Context, provider *domain.Provider, resourceType string) (*domain.Policy, error) {
	policyConfig, err := s.providerService.GetPolicyConfig(provider, resourceType)
	if err != nil {
		return nil, err
	}

	policy, err := s.policyService.GetOne(ctx, policyConfig.ID, uint(policyConfig.Version))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPolicyNotFound, policyConfig.ID)
	}
	return policy, nil
}

// addCreatorDetails resolves the requester's attributes through the policy's
// identity manager so that approver and condition expressions can reference
// them. The attributes are snapshotted on the appeal at creation.
func (s *Service) addCreatorDetails(ctx context.Context, a *domain.Appeal, p *domain.Policy) error {
	if !p.HasIAMConfig() {
		return nil
	}

	iamConfig, err := s.iam.ParseConfig(p.IAM)
	if err != nil {
		return fmt.Errorf("parsing iam config: %w", err)
	}
	iamClient, err := s.iam.GetClient(iamConfig)
	if err != nil {
		return fmt.Errorf("getting iam client: %w", err)
	}

	creator, err := iamClient.GetUser(a.CreatedBy)
	if err != nil {
		return fmt.Errorf("fetching creator's user iam: %w", err)
	}
	a.Creator = creator
	return nil
}

func validateAppealDurationConfig(appeal *domain.Appeal, policy *domain.Policy) error {
	if appeal.IsDurationEmpty() {
		if policy.AppealConfig != nil && !policy.AppealConfig.AllowPermanentAccess {
			if policy.AppealConfig.DefaultDuration == "" {
				return ErrDurationIsRequired
			}
			if appeal.Options == nil {
				appeal.Options = &domain.AppealOptions{}
			}
			appeal.Options.Duration = policy.AppealConfig.DefaultDuration
		}
	}

	if policy.AppealConfig != nil && len(policy.AppealConfig.DurationOptions) > 0 && !appeal.IsDurationEmpty() {
		var found bool
		for _, option := range policy.AppealConfig.DurationOptions {
			if option.Value == appeal.Options.Duration {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrOptionsDurationNotFound, appeal.Options.Duration)
		}
	}

	if _, err := appeal.GetDuration(); err != nil {
		return fmt.Errorf("%w: invalid duration %q", ErrOptionsDurationNotFound, appeal.Options.Duration)
	}

	return nil
}

func (s *Service) getApprovalNotifications(appeal *domain.Appeal) []domain.Notification {
	var notifications []domain.Notification

	approval := appeal.ActiveApproval()
	if approval == nil {
		return notifications
	}

	for _, approver := range approval.Approvers {
		notifications = append(notifications, domain.Notification{
			User: approver,
			Labels: map[string]string{
				"appeal_id": appeal.ID,
			},
			Message: domain.NotificationMessage{
				Type: domain.NotificationTypeApproverNotification,
				Variables: map[string]interface{}{
					"resource_name": resourceDisplayName(appeal.Resource),
					"role":          appeal.Role,
					"requestor":     appeal.CreatedBy,
					"appeal_id":     appeal.ID,
				},
			},
		})
	}
	return notifications
}

func (s *Service) getDecisionNotifications(appeal *domain.Appeal) []domain.Notification {
	switch appeal.Status {
	case domain.AppealStatusApproved:
		return []domain.Notification{{
			User: appeal.CreatedBy,
			Labels: map[string]string{
				"appeal_id": appeal.ID,
			},
			Message: domain.NotificationMessage{
				Type: domain.NotificationTypeAppealApproved,
				Variables: map[string]interface{}{
					"resource_name": resourceDisplayName(appeal.Resource),
					"role":          appeal.Role,
					"account_id":    appeal.AccountID,
					"appeal_id":     appeal.ID,
				},
			},
		}}
	case domain.AppealStatusRejected:
		return []domain.Notification{{
			User: appeal.CreatedBy,
			Labels: map[string]string{
				"appeal_id": appeal.ID,
			},
			Message: domain.NotificationMessage{
				Type: domain.NotificationTypeAppealRejected,
				Variables: map[string]interface{}{
					"resource_name": resourceDisplayName(appeal.Resource),
					"role":          appeal.Role,
					"account_id":    appeal.AccountID,
					"appeal_id":     appeal.ID,
				},
			},
		}}
	default:
		return s.getApprovalNotifications(appeal)
	}
}

func (s *Service) notify(ctx context.Context, notifications ...domain.Notification) {
	if s.notifier == nil || len(notifications) == 0 {
		return
	}
	go func() {
		ctx := context.WithoutCancel(ctx)
		if errs := s.notifier.Notify(ctx, notifications); errs != nil {
			for _, err := range errs {
				s.logger.Error(ctx, "failed to send notifications", "error", err)
			}
		}
	}()
}

func resourceDisplayName(r *domain.Resource) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s: %s)", r.Name, r.ProviderType, r.URN)
}

func checkIfAppealStatusStillPending(status string) error {
	if status == domain.AppealStatusPending {
		return nil
	}

	var err error
	switch status {
	case domain.AppealStatusCanceled:
		err = ErrAppealStatusCanceled
	case domain.AppealStatusApproved:
		err = ErrAppealStatusApproved
	case domain.AppealStatusRejected:
		err = ErrAppealStatusRejected
	case domain.AppealStatusRevoked:
		err = ErrAppealStatusRevoked
	case domain.AppealStatusExpired:
		err = ErrAppealStatusExpired
	default:
		err = ErrAppealStatusUnrecognized
	}
	return err
}

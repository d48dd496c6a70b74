//go:generate mockery --name=repository --exported
//go:generate mockery --name=providerService --exported
//go:generate mockery --name=appealService --exported
//go:generate mockery --name=notifier --exported
//go:generate mockery --name=auditLogger --exported

package grant

import (
	"context"
	"sync"
	"time"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/audit"
	"github.com/raystack/guardian/pkg/lock"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/notifiers"
)

const (
	AuditKeyUpdate = "grant.update"
	AuditKeyRevoke = "grant.revoke"
	AuditKeyExpire = "grant.expire"
)

var TimeNow = time.Now

type repository interface {
	List(context.Context, domain.ListGrantsFilter) ([]domain.Grant, error)
	GetByID(ctx context.Context, id string) (*domain.Grant, error)
	Create(context.Context, *domain.Grant) error
	Update(context.Context, *domain.Grant) error
}

type providerService interface {
	RevokeAccess(context.Context, domain.Grant) error
}

type appealService interface {
	UpdateStatus(ctx context.Context, appealID, status string) error
}

type notifier interface {
	notifiers.Client
}

type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// Service handles the lifecycle of issued grants: creation, revocation, and
// time-based expiry. Expiry is driven by in-process timers registered per
// grant, backed by a periodic sweep for timers lost to restarts.
type Service struct {
	repo            repository
	providerService providerService
	appealService   appealService

	notifier    notifier
	logger      log.Logger
	auditLogger auditLogger

	// appealLock serializes grant mutations with approval processing on the
	// same appeal
	appealLock *lock.KeyedMutex

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

type ServiceDeps struct {
	Repository      repository
	ProviderService providerService
	AppealService   appealService

	Notifier    notifier
	Logger      log.Logger
	AuditLogger auditLogger

	AppealLock *lock.KeyedMutex
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		repo:            deps.Repository,
		providerService: deps.ProviderService,
		appealService:   deps.AppealService,

		notifier:    deps.Notifier,
		logger:      deps.Logger,
		auditLogger: deps.AuditLogger,

		appealLock: deps.AppealLock,
		timers:     map[string]*time.Timer{},
	}
}

// SetAppealService breaks the construction cycle between the appeal and grant
// services. Must be called before the service handles any request.
func (s *Service) SetAppealService(as appealService) {
	s.appealService = as
}

func (s *Service) List(ctx context.Context, filter domain.ListGrantsFilter) ([]domain.Grant, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Grant, error) {
	if id == "" {
		return nil, ErrEmptyIDParam
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores an active grant and registers its expiry timer. The caller
// has already delivered the access in the provider.
func (s *Service) Create(ctx context.Context, g *domain.Grant) error {
	if err := s.repo.Create(ctx, g); err != nil {
		return err
	}

	s.registerExpiration(g)
	return nil
}

// Update transfers grant ownership. Owner is the only mutable field; the
// passed grant is overwritten with the stored record after the change.
func (s *Service) Update(ctx context.Context, payload *domain.Grant) error {
	if payload.ID == "" {
		return ErrEmptyIDParam
	}
	if payload.Owner == "" {
		return ErrEmptyOwner
	}

	grant, err := s.repo.GetByID(ctx, payload.ID)
	if err != nil {
		return err
	}

	previousOwner := grant.Owner
	grant.Owner = payload.Owner
	grant.UpdatedAt = TimeNow()
	if err := s.repo.Update(ctx, grant); err != nil {
		return err
	}
	*payload = *grant

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyUpdate, map[string]interface{}{
			"grant_id":       grant.ID,
			"previous_owner": previousOwner,
			"new_owner":      grant.Owner,
		}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	if previousOwner != grant.Owner {
		s.notify(ctx, domain.Notification{
			User: grant.Owner,
			Message: domain.NotificationMessage{
				Type: domain.NotificationTypeGrantOwnerChanged,
				Variables: map[string]interface{}{
					"grant_id":       grant.ID,
					"previous_owner": previousOwner,
					"new_owner":      grant.Owner,
				},
			},
		})
	}

	return nil
}

// Revoke removes the grant's access in the provider and marks it revoked.
// Revoking a grant that is already terminal is a no-op returning the current
// record. If provider revocation fails after retries the grant stays active,
// flagged for manual intervention.
func (s *Service) Revoke(ctx context.Context, id, actor, reason string, opts ...Option) (*domain.Grant, error) {
	if id == "" {
		return nil, ErrEmptyIDParam
	}
	if actor == "" {
		return nil, ErrEmptyActor
	}

	grant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.appealLock.Lock(grant.AppealID)
	defer unlock()

	return s.revokeLocked(ctx, id, actor, reason, false, opts...)
}

// Expire marks the grant expired after confirming revocation with the
// provider. Used by the expiry timers and the periodic sweep.
func (s *Service) Expire(ctx context.Context, id string) (*domain.Grant, error) {
	if id == "" {
		return nil, ErrEmptyIDParam
	}

	grant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.appealLock.Lock(grant.AppealID)
	defer unlock()

	return s.revokeLocked(ctx, id, domain.SystemActorName, domain.GrantExpirationReason, true)
}

func (s *Service) revokeLocked(ctx context.Context, id, actor, reason string, expire bool, opts ...Option) (*domain.Grant, error) {
	options := s.getOptions(opts...)

	// refetch under the lock, a concurrent caller may have resolved it
	grant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grant.IsTerminal() {
		return grant, nil
	}
	fromStatus := grant.Status

	if !options.skipRevokeInProvider {
		if err := s.providerService.RevokeAccess(ctx, *grant); err != nil {
			grant.RequiresManualRevoke = true
			if updateErr := s.repo.Update(ctx, grant); updateErr != nil {
				s.logger.Error(ctx, "failed to flag grant for manual revoke", "grant", grant.ID, "error", updateErr)
			}
			s.logger.Error(ctx, "provider revocation failed", "grant", grant.ID, "error", err)
			s.notify(ctx, domain.Notification{
				User: grant.Owner,
				Message: domain.NotificationMessage{
					Type: domain.NotificationTypeRevokeFailed,
					Variables: map[string]interface{}{
						"grant_id": grant.ID,
						"error":    err.Error(),
					},
				},
			})
			return nil, ErrManualRevokeRequired
		}
	}

	auditKey := AuditKeyRevoke
	appealStatus := domain.AppealStatusRevoked
	if expire {
		if err := grant.Expire(reason); err != nil {
			return nil, err
		}
		auditKey = AuditKeyExpire
		appealStatus = domain.AppealStatusExpired
	} else {
		if err := grant.Revoke(actor, reason); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, grant); err != nil {
		return nil, err
	}

	if err := s.appealService.UpdateStatus(ctx, grant.AppealID, appealStatus); err != nil {
		s.logger.Error(ctx, "failed to update appeal status", "appeal", grant.AppealID, "error", err)
	}

	s.cancelExpiration(grant.ID)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, auditKey, map[string]interface{}{
			"grant_id":    grant.ID,
			"appeal_id":   grant.AppealID,
			"from_status": fromStatus,
			"to_status":   grant.Status,
			"actor":       actor,
			"reason":      reason,
		}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	if !options.skipNotification {
		s.notify(ctx, domain.Notification{
			User: grant.Owner,
			Message: domain.NotificationMessage{
				Type: domain.NotificationTypeGrantRevoked,
				Variables: map[string]interface{}{
					"grant_id": grant.ID,
					"actor":    actor,
					"reason":   reason,
				},
			},
		})
	}

	return grant, nil
}

// Start reconciles expiry timers with the stored state: grants already past
// their expiration are expired immediately, the rest get their timer
// registered. Called once on boot.
func (s *Service) Start(ctx context.Context) error {
	grants, err := s.repo.List(ctx, domain.ListGrantsFilter{
		Statuses: []string{string(domain.GrantStatusActive)},
	})
	if err != nil {
		return err
	}

	for i := range grants {
		g := grants[i]
		if g.IsPermanent {
			continue
		}
		if g.IsExpired() {
			if _, err := s.Expire(ctx, g.ID); err != nil {
				s.logger.Error(ctx, "failed to expire grant on boot", "grant", g.ID, "error", err)
			}
			continue
		}
		s.registerExpiration(&g)
	}

	return nil
}

// Stop cancels all registered expiry timers
func (s *Service) Stop() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Service) registerExpiration(g *domain.Grant) {
	if g.IsPermanent || g.ExpirationDate == nil {
		return
	}

	id := g.ID
	delay := time.Until(*g.ExpirationDate)
	if delay < 0 {
		delay = 0
	}

	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		ctx := audit.WithActor(context.Background(), domain.SystemActorName)
		if _, err := s.Expire(ctx, id); err != nil {
			s.logger.Error(ctx, "failed to expire grant", "grant", id, "error", err)
		}
	})
}

func (s *Service) cancelExpiration(id string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Service) notify(ctx context.Context, notifications ...domain.Notification) {
	if s.notifier == nil {
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

package audit

import (
	"context"
	"time"
)

type AuditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

type actorContextKey struct{}

// WithActor attaches the acting user to the context so that audit records
// carry who triggered the transition.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorContextKey{}).(string); ok {
		return actor
	}
	return ""
}

// Log is one audit record. Data carries the transition payload, e.g.
// {appeal_id, from_status, to_status, reason}.
type Log struct {
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	Actor     string                 `json:"actor"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

//go:generate mockery --name=repository --exported
type Repository interface {
	Insert(ctx context.Context, l *Log) error
}

type ServiceOption func(*Service)

func WithMetadataExtractor(fn func(context.Context) map[string]interface{}) ServiceOption {
	return func(s *Service) {
		s.withMetadata = fn
	}
}

func WithActorExtractor(fn func(context.Context) (string, error)) ServiceOption {
	return func(s *Service) {
		s.actorExtractor = fn
	}
}

// Service records audit logs through a repository. Delivery failures are the
// caller's concern to log and drop; recording an audit event must never block
// or revert the transition it describes.
type Service struct {
	repository     Repository
	withMetadata   func(context.Context) map[string]interface{}
	actorExtractor func(context.Context) (string, error)

	TimeNow func() time.Time
}

func New(repository Repository, opts ...ServiceOption) *Service {
	svc := &Service{
		repository: repository,
		actorExtractor: func(ctx context.Context) (string, error) {
			return ActorFromContext(ctx), nil
		},
		TimeNow: time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

func (s *Service) Log(ctx context.Context, action string, data interface{}) error {
	l := &Log{
		Timestamp: s.TimeNow(),
		Action:    action,
		Data:      data,
	}
	if actor, err := s.actorExtractor(ctx); err == nil {
		l.Actor = actor
	}
	if s.withMetadata != nil {
		l.Metadata = s.withMetadata(ctx)
	}

	return s.repository.Insert(ctx, l)
}

package notifiers

import (
	"context"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
)

// LogNotifier writes notifications to the structured log instead of an
// external channel.
type LogNotifier struct {
	logger log.Logger
}

func NewLogNotifier(logger log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notifications []domain.Notification) []error {
	for _, notification := range notifications {
		n.logger.Info(ctx, "notification",
			"user", notification.User,
			"type", string(notification.Message.Type),
			"variables", notification.Message.Variables,
		)
	}
	return nil
}

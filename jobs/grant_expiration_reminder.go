package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/raystack/guardian/domain"
)

func (h *handler) GrantExpirationReminder(ctx context.Context, cfg Config) error {
	h.logger.Info(ctx, "running grant expiration reminder job")

	daysBeforeExpired := []int{7, 3, 1}
	for _, d := range daysBeforeExpired {
		now := time.Now().AddDate(0, 0, d)
		year, month, day := now.Date()
		from := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
		to := time.Date(year, month, day, 23, 59, 59, 999999999, now.Location())
		filters := domain.ListGrantsFilter{
			Statuses:                  []string{string(domain.GrantStatusActive)},
			ExpirationDateGreaterThan: from,
			ExpirationDateLessThan:    to,
		}
		grants, err := h.grantService.List(ctx, filters)
		if err != nil {
			h.logger.Error(ctx, "failed to retrieve active grants",
				"expiration_window_in_days", d,
				"error", err,
			)
			continue
		}

		var notifications []domain.Notification
		for _, g := range grants {
			var resourceName string
			if g.Resource != nil {
				resourceName = fmt.Sprintf("%s (%s: %s)", g.Resource.Name, g.Resource.ProviderType, g.Resource.URN)
			}
			notifications = append(notifications, domain.Notification{
				User: g.Owner,
				Labels: map[string]string{
					"appeal_id": g.AppealID,
					"grant_id":  g.ID,
				},
				Message: domain.NotificationMessage{
					Type: domain.NotificationTypeGrantExpiring,
					Variables: map[string]interface{}{
						"resource_name":             resourceName,
						"role":                      g.Role,
						"expiration_date":           g.ExpirationDate,
						"expiration_date_formatted": g.ExpirationDate.Format("Jan 02, 2006 15:04:05 UTC"),
						"account_id":                g.AccountID,
						"requestor":                 g.Owner,
					},
				},
			})
		}

		if errs := h.notifier.Notify(ctx, notifications); errs != nil {
			for _, err1 := range errs {
				h.logger.Error(ctx, "failed to send notifications", "error", err1)
			}
		}
	}

	return nil
}

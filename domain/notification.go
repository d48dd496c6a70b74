package domain

type NotificationType string

const (
	NotificationTypeApproverNotification NotificationType = "ApproverNotification"
	NotificationTypeAppealApproved       NotificationType = "AppealApproved"
	NotificationTypeAppealRejected       NotificationType = "AppealRejected"
	NotificationTypeGrantExpiring        NotificationType = "GrantExpirationReminder"
	NotificationTypeGrantRevoked         NotificationType = "GrantRevoked"
	NotificationTypeGrantOwnerChanged    NotificationType = "GrantOwnerChanged"
	NotificationTypeRevokeFailed         NotificationType = "GrantRevokeFailed"
)

type NotificationMessage struct {
	Type      NotificationType       `json:"type" yaml:"type"`
	Variables map[string]interface{} `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Notification is a best-effort event emitted to the notification sink.
// Delivery failures never block or revert a state transition.
type Notification struct {
	User    string              `json:"user" yaml:"user"`
	Labels  map[string]string   `json:"labels,omitempty" yaml:"labels,omitempty"`
	Message NotificationMessage `json:"message" yaml:"message"`
}

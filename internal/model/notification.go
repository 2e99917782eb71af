package model

import "time"

// NotificationPrefs is the locally persisted new-mail notification
// preference object. Notifications fire only when Enabled is true and the
// platform-level permission has been granted.
type NotificationPrefs struct {
	// Enabled is the user's master switch for new-mail notifications.
	Enabled bool `json:"enabled"`

	// ShowPreview controls whether sender and subject appear in the
	// notification body.
	ShowPreview bool `json:"show_preview"`

	// Silent suppresses the notification sound.
	Silent bool `json:"silent"`
}

// DefaultNotificationPrefs returns the preferences used before the user
// has saved any.
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{Enabled: true, ShowPreview: true, Silent: false}
}

// Notification is a recorded new-mail alert surfaced to the user.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// MessageID links the notification to the arriving message; empty
	// for count-only bulk notifications.
	MessageID string `json:"message_id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}

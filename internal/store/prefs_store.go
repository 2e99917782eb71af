package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/easemail/easemail/internal/model"
)

// notificationPrefsKey is the prefs-table key for the notification
// preferences object.
const notificationPrefsKey = "notification_prefs"

// GetNotificationPrefs returns the stored preferences, or the defaults
// when none have been saved yet.
func (s *SQLiteStore) GetNotificationPrefs(
	ctx context.Context,
) (model.NotificationPrefs, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM prefs WHERE key = ?", notificationPrefsKey,
	)
	if err != nil {
		if isNoRows(err) {
			return model.DefaultNotificationPrefs(), nil
		}
		return model.NotificationPrefs{}, fmt.Errorf("reading notification prefs: %w", err)
	}

	var prefs model.NotificationPrefs
	if err := json.Unmarshal([]byte(value), &prefs); err != nil {
		return model.NotificationPrefs{}, fmt.Errorf("parsing notification prefs: %w", err)
	}
	return prefs, nil
}

// SetNotificationPrefs persists the preferences object.
func (s *SQLiteStore) SetNotificationPrefs(
	ctx context.Context,
	prefs model.NotificationPrefs,
) error {
	value, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding notification prefs: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO prefs (key, value) VALUES (?, ?)",
		notificationPrefsKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("writing notification prefs: %w", err)
	}
	return nil
}

// CreateNotification records a fired notification. Generates a UUID if ID
// is empty.
func (s *SQLiteStore) CreateNotification(
	ctx context.Context,
	n model.Notification,
) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, message_id, message, read, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.MessageID, n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// GetUnreadNotifications returns unread notification history, newest first.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var rows []struct {
		ID        string    `db:"id"`
		MessageID string    `db:"message_id"`
		Message   string    `db:"message"`
		Read      bool      `db:"read"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, message_id, message, read, created_at
		FROM notifications WHERE read = 0
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading notifications: %w", err)
	}

	out := make([]model.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Notification{
			ID:        r.ID,
			MessageID: r.MessageID,
			Message:   r.Message,
			Read:      r.Read,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// MarkNotificationRead marks a notification as seen.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	return nil
}

package store

import (
	"context"

	"github.com/easemail/easemail/internal/model"
)

// Store defines the local persistence interface: a read-through cache of
// message summaries, the AI category cache, notification preferences, and
// notification history. It is a cache, not a sync database; the hosted
// service owns every entity, and the last successful fetch wins.
type Store interface {
	// === Message cache ===

	// ReplaceFolder replaces the cached page for an account/folder with
	// the given messages.
	ReplaceFolder(ctx context.Context, accountID string, folder model.Folder, msgs []model.MessageSummary) error

	// AppendToFolder adds messages to the cached page (pagination).
	AppendToFolder(ctx context.Context, accountID string, folder model.Folder, msgs []model.MessageSummary) error

	// CachedMessages returns the cached page for an account/folder,
	// newest first, for offline startup rendering.
	CachedMessages(ctx context.Context, accountID string, folder model.Folder) ([]model.MessageSummary, error)

	// RemoveMessages drops messages from every cached folder page.
	RemoveMessages(ctx context.Context, ids []string) error

	// === Category cache ===

	GetCategories(ctx context.Context, ids []string) (map[string]model.Category, error)
	PutCategories(ctx context.Context, categories map[string]model.Category) error

	// === Notification preferences ===

	GetNotificationPrefs(ctx context.Context) (model.NotificationPrefs, error)
	SetNotificationPrefs(ctx context.Context, prefs model.NotificationPrefs) error

	// === Notification history ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	// === Lifecycle ===

	Close() error
}

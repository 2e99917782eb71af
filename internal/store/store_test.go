package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/tests/testutil"
)

func cachedMsg(id string, ts int64) model.MessageSummary {
	return model.MessageSummary{
		ID:        id,
		ThreadID:  "t-" + id,
		AccountID: "acct-1",
		From:      []model.Address{{Name: "Sender", Email: "sender@example.com"}},
		Subject:   "subject " + id,
		Snippet:   "snippet " + id,
		Timestamp: ts,
		Unread:    true,
		Folders:   []model.Folder{model.FolderInbox},
	}
}

func TestFolderCacheRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.ReplaceFolder(ctx, "acct-1", model.FolderInbox, []model.MessageSummary{
		cachedMsg("m1", 100),
		cachedMsg("m2", 300),
	})
	require.NoError(t, err)

	msgs, err := s.CachedMessages(ctx, "acct-1", model.FolderInbox)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	// Newest first, with the nested address fields intact.
	assert.Equal(t, "m2", msgs[0].ID)
	assert.Equal(t, "m1", msgs[1].ID)
	assert.Equal(t, "sender@example.com", msgs[1].Sender().Email)
	assert.Equal(t, []model.Folder{model.FolderInbox}, msgs[1].Folders)
	assert.True(t, msgs[1].Unread)
}

func TestReplaceFolderDropsPreviousPage(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderInbox,
		[]model.MessageSummary{cachedMsg("stale", 100)}))
	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderInbox,
		[]model.MessageSummary{cachedMsg("fresh", 200)}))

	msgs, err := s.CachedMessages(ctx, "acct-1", model.FolderInbox)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "fresh", msgs[0].ID)
}

func TestReplaceFolderScopedToAccountAndFolder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderInbox,
		[]model.MessageSummary{cachedMsg("m1", 100)}))
	require.NoError(t, s.ReplaceFolder(ctx, "acct-2", model.FolderInbox,
		[]model.MessageSummary{cachedMsg("m2", 100)}))
	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderArchive,
		[]model.MessageSummary{cachedMsg("m3", 100)}))

	// Replacing one account's inbox leaves the others untouched.
	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderInbox, nil))

	msgs, err := s.CachedMessages(ctx, "acct-1", model.FolderInbox)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = s.CachedMessages(ctx, "acct-2", model.FolderInbox)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	msgs, err = s.CachedMessages(ctx, "acct-1", model.FolderArchive)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestAppendToFolderKeepsExistingPage(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderInbox,
		[]model.MessageSummary{cachedMsg("m1", 300)}))
	require.NoError(t, s.AppendToFolder(ctx, "acct-1", model.FolderInbox,
		[]model.MessageSummary{cachedMsg("m2", 200), cachedMsg("m3", 100)}))

	msgs, err := s.CachedMessages(ctx, "acct-1", model.FolderInbox)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m3", msgs[2].ID)
}

func TestRemoveMessagesDropsFromEveryFolder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderInbox,
		[]model.MessageSummary{cachedMsg("m1", 100), cachedMsg("m2", 200)}))
	require.NoError(t, s.ReplaceFolder(ctx, "acct-1", model.FolderStarred,
		[]model.MessageSummary{cachedMsg("m1", 100)}))

	require.NoError(t, s.RemoveMessages(ctx, []string{"m1"}))

	msgs, err := s.CachedMessages(ctx, "acct-1", model.FolderInbox)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m2", msgs[0].ID)

	msgs, err = s.CachedMessages(ctx, "acct-1", model.FolderStarred)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestCategoryRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutCategories(ctx, map[string]model.Category{
		"m1": model.CategoryPeople,
		"m2": model.CategoryNewsletters,
	}))

	got, err := s.GetCategories(ctx, []string{"m1", "m2", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Category{
		"m1": model.CategoryPeople,
		"m2": model.CategoryNewsletters,
	}, got)
}

func TestPutCategoriesOverwrites(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutCategories(ctx, map[string]model.Category{"m1": model.CategoryPeople}))
	require.NoError(t, s.PutCategories(ctx, map[string]model.Category{"m1": model.CategoryNotifications}))

	got, err := s.GetCategories(ctx, []string{"m1"})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryNotifications, got["m1"])
}

func TestNotificationPrefsDefaultWhenUnset(t *testing.T) {
	s := testutil.NewTestStore(t)

	prefs, err := s.GetNotificationPrefs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultNotificationPrefs(), prefs)
}

func TestNotificationPrefsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	want := model.NotificationPrefs{Enabled: true, ShowPreview: false, Silent: true}
	require.NoError(t, s.SetNotificationPrefs(ctx, want))

	got, err := s.GetNotificationPrefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNotificationHistory(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateNotification(ctx, model.Notification{
		ID:        "n1",
		MessageID: "m1",
		Message:   "Sender: subject m1",
	}))
	require.NoError(t, s.CreateNotification(ctx, model.Notification{
		MessageID: "m2",
		Message:   "New messages",
	}))

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	// An omitted ID is filled in with a generated one.
	for _, n := range unread {
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.Read)
	}

	require.NoError(t, s.MarkNotificationRead(ctx, "n1"))

	unread, err = s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "m2", unread[0].MessageID)
}

func TestMarkNotificationReadUnknownID(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.MarkNotificationRead(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

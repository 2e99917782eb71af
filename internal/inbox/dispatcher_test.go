package inbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/model"
)

// fetchedStore returns a store pre-loaded with the given messages.
func fetchedStore(t *testing.T, svc *fakeService, msgs ...model.MessageSummary) *Store {
	t.Helper()
	svc.listFn = func(_ context.Context, _ api.ListOptions) (*api.MessagePage, error) {
		return &api.MessagePage{Messages: msgs}, nil
	}
	s := NewStore(svc, "acct-1", model.FolderInbox, 50)
	require.NoError(t, s.Fetch(context.Background()))
	return s
}

func TestToggleReadPatchesOnConfirmedResponse(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100))
	d := NewDispatcher(svc, s)

	svc.updateFn = func(_ context.Context, id string, patch api.MessagePatch) (*model.MessageSummary, error) {
		require.NotNil(t, patch.Unread)
		assert.False(t, *patch.Unread)
		updated := msg(id, 100)
		updated.Unread = false
		return &updated, nil
	}

	require.NoError(t, d.ToggleRead(context.Background(), "m1"))

	got, _ := s.Get("m1")
	assert.False(t, got.Unread)
}

func TestToggleReadFailureLeavesStateUntouched(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100))
	d := NewDispatcher(svc, s)

	svc.updateFn = func(_ context.Context, _ string, _ api.MessagePatch) (*model.MessageSummary, error) {
		return nil, fmt.Errorf("server error")
	}

	require.Error(t, d.ToggleRead(context.Background(), "m1"))

	got, _ := s.Get("m1")
	assert.True(t, got.Unread, "failed request must not flip displayed state")
}

func TestArchiveRemovesOnlyOnSuccess(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100), msg("m2", 90))
	d := NewDispatcher(svc, s)

	svc.updateFn = func(_ context.Context, id string, patch api.MessagePatch) (*model.MessageSummary, error) {
		if id == "m1" {
			return nil, fmt.Errorf("server error")
		}
		updated := msg(id, 90)
		updated.Folders = patch.Folders
		return &updated, nil
	}

	require.Error(t, d.Archive(context.Background(), "m1"))
	_, ok := s.Get("m1")
	assert.True(t, ok, "failed archive must keep the message in view")

	require.NoError(t, d.Archive(context.Background(), "m2"))
	_, ok = s.Get("m2")
	assert.False(t, ok)
}

func TestSnoozeSendsOriginalFolderAndRemoves(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100))
	d := NewDispatcher(svc, s)

	var got api.SnoozeRequest
	svc.snoozeFn = func(_ context.Context, req api.SnoozeRequest) error {
		got = req
		return nil
	}

	until := timeAt(2026, 9, 1, 8)
	require.NoError(t, d.Snooze(context.Background(), "m1", until))

	assert.Equal(t, "m1", got.MessageID)
	assert.Equal(t, "t-m1", got.ThreadID)
	assert.Equal(t, until.Unix(), got.SnoozeUntil)
	assert.Equal(t, model.FolderInbox, got.OriginalFolder)

	_, ok := s.Get("m1")
	assert.False(t, ok)
}

func TestBulkArchivePartialFailure(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100), msg("m2", 90), msg("m3", 80))
	d := NewDispatcher(svc, s)

	svc.updateFn = func(_ context.Context, id string, _ api.MessagePatch) (*model.MessageSummary, error) {
		if id == "m2" {
			return nil, fmt.Errorf("server error")
		}
		updated := msg(id, 0)
		updated.Folders = []model.Folder{model.FolderArchive}
		return &updated, nil
	}

	result := d.BulkArchive(context.Background(), []string{"m1", "m2", "m3"})

	assert.ElementsMatch(t, []string{"m1", "m3"}, result.Succeeded)
	assert.Equal(t, []string{"m2"}, result.Failed)
	assert.False(t, result.AllOK())
	assert.Error(t, result.FirstErr)
	assert.Equal(t, "archived 2 of 3 messages (1 failed)", result.Summary("archived"))

	// Only confirmed messages leave the view; the failed one stays.
	_, ok := s.Get("m2")
	assert.True(t, ok)
	_, ok = s.Get("m1")
	assert.False(t, ok)
	_, ok = s.Get("m3")
	assert.False(t, ok)
}

func TestBulkMarkReadPatchesConfirmedOnly(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100), msg("m2", 90))
	d := NewDispatcher(svc, s)

	svc.updateFn = func(_ context.Context, id string, _ api.MessagePatch) (*model.MessageSummary, error) {
		if id == "m2" {
			return nil, fmt.Errorf("server error")
		}
		updated := msg(id, 0)
		updated.Unread = false
		return &updated, nil
	}

	result := d.BulkMarkRead(context.Background(), []string{"m1", "m2"})
	assert.Equal(t, []string{"m1"}, result.Succeeded)

	got1, _ := s.Get("m1")
	assert.False(t, got1.Unread)
	got2, _ := s.Get("m2")
	assert.True(t, got2.Unread, "failed item keeps its displayed state")
}

func TestBulkMoveKeepsMessagesStillInView(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100))
	d := NewDispatcher(svc, s)

	svc.updateFn = func(_ context.Context, id string, patch api.MessagePatch) (*model.MessageSummary, error) {
		updated := msg(id, 0)
		updated.Folders = patch.Folders
		return &updated, nil
	}

	// Moving to the currently displayed folder must not drop the row.
	result := d.BulkMoveToFolder(context.Background(), []string{"m1"}, model.FolderInbox)
	assert.True(t, result.AllOK())
	_, ok := s.Get("m1")
	assert.True(t, ok)

	result = d.BulkMoveToFolder(context.Background(), []string{"m1"}, model.FolderArchive)
	assert.True(t, result.AllOK())
	_, ok = s.Get("m1")
	assert.False(t, ok)
}

func TestReportSpamRemovesFromView(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100))
	d := NewDispatcher(svc, s)

	reported := ""
	svc.spamFn = func(_ context.Context, id string) error {
		reported = id
		return nil
	}

	require.NoError(t, d.ReportSpam(context.Background(), "m1"))
	assert.Equal(t, "m1", reported)
	_, ok := s.Get("m1")
	assert.False(t, ok)
}

func TestToggleStarRoundTrip(t *testing.T) {
	svc := &fakeService{}
	s := fetchedStore(t, svc, msg("m1", 100))
	d := NewDispatcher(svc, s)

	patches := 0
	svc.updateFn = func(_ context.Context, id string, patch api.MessagePatch) (*model.MessageSummary, error) {
		patches++
		require.NotNil(t, patch.Starred)
		updated, _ := s.Get(id)
		updated.Starred = *patch.Starred
		return &updated, nil
	}

	require.NoError(t, d.ToggleStar(context.Background(), "m1"))
	got, _ := s.Get("m1")
	assert.True(t, got.Starred)

	require.NoError(t, d.ToggleStar(context.Background(), "m1"))
	got, _ = s.Get("m1")
	assert.False(t, got.Starred)
	assert.Equal(t, 2, patches)
}

package inbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easemail/easemail/internal/model"
)

func threadMsg(id, threadID string, ts int64, unread bool) model.MessageSummary {
	m := msg(id, ts)
	m.ThreadID = threadID
	m.Unread = unread
	return m
}

func TestGroupThreadsPreservesFirstAppearanceOrder(t *testing.T) {
	groups := GroupThreads([]model.MessageSummary{
		threadMsg("a1", "ta", 300, false),
		threadMsg("b1", "tb", 250, false),
		threadMsg("a2", "ta", 100, true),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "ta", groups[0].ID)
	assert.Equal(t, "tb", groups[1].ID)

	// Members sort ascending by timestamp regardless of page order.
	require.Len(t, groups[0].Messages, 2)
	assert.Equal(t, "a2", groups[0].Messages[0].ID)
	assert.Equal(t, "a1", groups[0].Messages[1].ID)
}

func TestGroupThreadsEmptyThreadIDIsSingleton(t *testing.T) {
	groups := GroupThreads([]model.MessageSummary{
		threadMsg("a1", "", 300, false),
		threadMsg("a2", "", 200, false),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "a1", groups[0].ID)
	assert.Equal(t, "a2", groups[1].ID)
}

func TestThreadGroupPreviewIsNewestMember(t *testing.T) {
	groups := GroupThreads([]model.MessageSummary{
		threadMsg("a1", "ta", 300, false),
		threadMsg("a2", "ta", 100, true),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, "a1", groups[0].Preview().ID)
	assert.True(t, groups[0].HasUnread())
}

func TestExpandMemoizesFetches(t *testing.T) {
	calls := 0
	svc := &fakeService{
		threadFn: func(_ context.Context, threadID string) (*model.Thread, error) {
			calls++
			return &model.Thread{
				ID: threadID,
				Messages: []model.MessageSummary{
					threadMsg("m2", threadID, 200, false),
					threadMsg("m1", threadID, 100, false),
				},
			}, nil
		},
	}

	e := NewThreadExpander(svc)

	first, err := e.Expand(context.Background(), "ta")
	require.NoError(t, err)
	assert.Equal(t, "m1", first.Messages[0].ID, "members re-sorted ascending")

	_, err = e.Expand(context.Background(), "ta")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second expand must hit the memo")

	e.Invalidate("ta")
	_, err = e.Expand(context.Background(), "ta")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExpandDoesNotMemoizeFailures(t *testing.T) {
	calls := 0
	svc := &fakeService{
		threadFn: func(_ context.Context, threadID string) (*model.Thread, error) {
			calls++
			if calls == 1 {
				return nil, fmt.Errorf("server error")
			}
			return &model.Thread{ID: threadID}, nil
		},
	}

	e := NewThreadExpander(svc)

	_, err := e.Expand(context.Background(), "ta")
	require.Error(t, err)

	_, err = e.Expand(context.Background(), "ta")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

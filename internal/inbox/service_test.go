package inbox

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/model"
)

// fakeService is a programmable Service stub. Unset hooks return zero
// values so each test only wires what it exercises.
type fakeService struct {
	listFn       func(ctx context.Context, opts api.ListOptions) (*api.MessagePage, error)
	searchFn     func(ctx context.Context, accountID string, params url.Values) (*api.MessagePage, error)
	updateFn     func(ctx context.Context, id string, patch api.MessagePatch) (*model.MessageSummary, error)
	deleteFn     func(ctx context.Context, id string, permanent bool) error
	snoozeFn     func(ctx context.Context, req api.SnoozeRequest) error
	applyLabelFn func(ctx context.Context, messageID, labelID string) error
	threadFn     func(ctx context.Context, threadID string) (*model.Thread, error)
	categorizeFn func(ctx context.Context, messageIDs []string) (map[string]model.Category, error)
	spamFn       func(ctx context.Context, messageID string) error
}

func (f *fakeService) ListMessages(ctx context.Context, opts api.ListOptions) (*api.MessagePage, error) {
	if f.listFn == nil {
		return &api.MessagePage{}, nil
	}
	return f.listFn(ctx, opts)
}

func (f *fakeService) SearchMessages(ctx context.Context, accountID string, params url.Values) (*api.MessagePage, error) {
	if f.searchFn == nil {
		return &api.MessagePage{}, nil
	}
	return f.searchFn(ctx, accountID, params)
}

func (f *fakeService) UpdateMessage(ctx context.Context, id string, patch api.MessagePatch) (*model.MessageSummary, error) {
	if f.updateFn == nil {
		return nil, fmt.Errorf("unexpected UpdateMessage(%s)", id)
	}
	return f.updateFn(ctx, id, patch)
}

func (f *fakeService) DeleteMessage(ctx context.Context, id string, permanent bool) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id, permanent)
}

func (f *fakeService) SnoozeMessage(ctx context.Context, req api.SnoozeRequest) error {
	if f.snoozeFn == nil {
		return nil
	}
	return f.snoozeFn(ctx, req)
}

func (f *fakeService) ApplyLabel(ctx context.Context, messageID, labelID string) error {
	if f.applyLabelFn == nil {
		return nil
	}
	return f.applyLabelFn(ctx, messageID, labelID)
}

func (f *fakeService) GetThread(ctx context.Context, threadID string) (*model.Thread, error) {
	if f.threadFn == nil {
		return nil, fmt.Errorf("unexpected GetThread(%s)", threadID)
	}
	return f.threadFn(ctx, threadID)
}

func (f *fakeService) Categorize(ctx context.Context, messageIDs []string) (map[string]model.Category, error) {
	if f.categorizeFn == nil {
		return map[string]model.Category{}, nil
	}
	return f.categorizeFn(ctx, messageIDs)
}

func (f *fakeService) ReportSpam(ctx context.Context, messageID string) error {
	if f.spamFn == nil {
		return nil
	}
	return f.spamFn(ctx, messageID)
}

// timeAt builds a UTC timestamp on the hour.
func timeAt(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// msg builds a summary with sensible defaults for list tests.
func msg(id string, ts int64) model.MessageSummary {
	return model.MessageSummary{
		ID:        id,
		ThreadID:  "t-" + id,
		AccountID: "acct-1",
		From:      []model.Address{{Name: "Sender", Email: "sender@example.com"}},
		Subject:   "subject " + id,
		Timestamp: ts,
		Unread:    true,
		Folders:   []model.Folder{model.FolderInbox},
	}
}

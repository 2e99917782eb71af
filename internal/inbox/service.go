package inbox

import (
	"context"
	"net/url"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/model"
)

// Service is the slice of the EaseMail API the inbox orchestrator
// depends on. *api.Client satisfies it; tests substitute stub servers.
type Service interface {
	ListMessages(ctx context.Context, opts api.ListOptions) (*api.MessagePage, error)
	SearchMessages(ctx context.Context, accountID string, params url.Values) (*api.MessagePage, error)
	UpdateMessage(ctx context.Context, id string, patch api.MessagePatch) (*model.MessageSummary, error)
	DeleteMessage(ctx context.Context, id string, permanent bool) error
	SnoozeMessage(ctx context.Context, req api.SnoozeRequest) error
	ApplyLabel(ctx context.Context, messageID, labelID string) error
	GetThread(ctx context.Context, threadID string) (*model.Thread, error)
	Categorize(ctx context.Context, messageIDs []string) (map[string]model.Category, error)
	ReportSpam(ctx context.Context, messageID string) error
}

// The production client must satisfy the orchestrator's contract.
var _ Service = (*api.Client)(nil)

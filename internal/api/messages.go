package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/easemail/easemail/internal/model"
)

// MessagePage is one page of message summaries with its pagination cursor.
// NextPageToken is an opaque server token consumed exactly once by the
// next listing call; HasMore reports whether another page exists.
type MessagePage struct {
	Messages      []model.MessageSummary `json:"messages"`
	NextPageToken string                 `json:"next_page_token"`
	HasMore       bool                   `json:"has_more"`
}

// ListOptions parameterizes a message listing call.
type ListOptions struct {
	AccountID string
	Folder    model.Folder
	PageToken string
	PageSize  int
}

// ListMessages fetches one page of message summaries for an account/folder.
func (c *Client) ListMessages(
	ctx context.Context,
	opts ListOptions,
) (*MessagePage, error) {
	q := url.Values{}
	if opts.AccountID != "" {
		q.Set("accountId", opts.AccountID)
	}
	if opts.Folder != "" {
		q.Set("folder", string(opts.Folder))
	}
	if opts.PageToken != "" {
		q.Set("page_token", opts.PageToken)
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}

	var page MessagePage
	if err := c.Get(ctx, "/api/messages", q, &page); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return &page, nil
}

// SearchMessages runs a server-side search with the given discrete
// operator parameters (see inbox.ParseQuery).
func (c *Client) SearchMessages(
	ctx context.Context,
	accountID string,
	params url.Values,
) (*MessagePage, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if accountID != "" {
		q.Set("accountId", accountID)
	}

	var page MessagePage
	if err := c.Get(ctx, "/api/messages/search", q, &page); err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}
	return &page, nil
}

// MessagePatch is a partial update to a message's mutable state. Nil
// fields are left unchanged by the server.
type MessagePatch struct {
	Unread  *bool          `json:"unread,omitempty"`
	Starred *bool          `json:"starred,omitempty"`
	Folders []model.Folder `json:"folders,omitempty"`
}

// UpdateMessage applies a partial update and returns the server's view of
// the message after the change.
func (c *Client) UpdateMessage(
	ctx context.Context,
	id string,
	patch MessagePatch,
) (*model.MessageSummary, error) {
	var updated model.MessageSummary
	err := c.Patch(ctx, "/api/messages/"+url.PathEscape(id), patch, &updated)
	if err != nil {
		return nil, fmt.Errorf("updating message %s: %w", id, err)
	}
	return &updated, nil
}

// DeleteMessage deletes a message. When permanent is false the message is
// moved to trash; when true it is removed for good.
func (c *Client) DeleteMessage(
	ctx context.Context,
	id string,
	permanent bool,
) error {
	path := fmt.Sprintf(
		"/api/messages/%s?permanent=%t", url.PathEscape(id), permanent,
	)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting message %s: %w", id, err)
	}
	return nil
}

// SendRequest is the payload for sending a new message.
type SendRequest struct {
	AccountID string `json:"account_id"`
	To        string `json:"to"`
	Cc        string `json:"cc,omitempty"`
	Bcc       string `json:"bcc,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// SendMessage dispatches a new message immediately.
func (c *Client) SendMessage(ctx context.Context, req SendRequest) error {
	if err := c.Post(ctx, "/api/messages/send", req, nil); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// ReplyRequest is the payload for replying to an existing message.
type ReplyRequest struct {
	MessageID string `json:"message_id"`
	Body      string `json:"body"`
	ReplyAll  bool   `json:"reply_all"`
}

// ReplyMessage sends a reply to an existing message.
func (c *Client) ReplyMessage(ctx context.Context, req ReplyRequest) error {
	if err := c.Post(ctx, "/api/messages/reply", req, nil); err != nil {
		return fmt.Errorf("replying to message %s: %w", req.MessageID, err)
	}
	return nil
}

// GetThread fetches the full member messages of a thread.
func (c *Client) GetThread(
	ctx context.Context,
	threadID string,
) (*model.Thread, error) {
	var thread model.Thread
	err := c.Get(ctx, "/api/threads/"+url.PathEscape(threadID), nil, &thread)
	if err != nil {
		return nil, fmt.Errorf("fetching thread %s: %w", threadID, err)
	}
	return &thread, nil
}

// RawMessage fetches the raw RFC 822 source of a message.
func (c *Client) RawMessage(ctx context.Context, id string) ([]byte, error) {
	raw, err := c.GetRaw(ctx, "/api/messages/"+url.PathEscape(id)+"/raw")
	if err != nil {
		return nil, fmt.Errorf("fetching raw message %s: %w", id, err)
	}
	return raw, nil
}

// SnoozeRequest hides a message until the given time, recording the folder
// it should return to.
type SnoozeRequest struct {
	MessageID      string       `json:"messageId"`
	ThreadID       string       `json:"threadId"`
	SnoozeUntil    int64        `json:"snoozeUntil"`
	OriginalFolder model.Folder `json:"originalFolder"`
}

// SnoozeMessage snoozes a message until the requested time.
func (c *Client) SnoozeMessage(ctx context.Context, req SnoozeRequest) error {
	if err := c.Post(ctx, "/api/snooze", req, nil); err != nil {
		return fmt.Errorf("snoozing message %s: %w", req.MessageID, err)
	}
	return nil
}

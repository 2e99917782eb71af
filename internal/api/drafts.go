package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/easemail/easemail/internal/model"
)

// CreateDraft saves a new draft and returns the server's record of it,
// including the issued draft ID.
func (c *Client) CreateDraft(
	ctx context.Context,
	draft model.Draft,
) (*model.Draft, error) {
	var saved model.Draft
	if err := c.Post(ctx, "/api/drafts", draft, &saved); err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}
	return &saved, nil
}

// UpdateDraft overwrites an existing draft. The last response to land
// wins; there is no version check.
func (c *Client) UpdateDraft(
	ctx context.Context,
	draft model.Draft,
) (*model.Draft, error) {
	if draft.ID == "" {
		return nil, fmt.Errorf("updating draft: missing draft ID")
	}
	var saved model.Draft
	path := "/api/drafts/" + url.PathEscape(draft.ID)
	if err := c.Patch(ctx, path, draft, &saved); err != nil {
		return nil, fmt.Errorf("updating draft %s: %w", draft.ID, err)
	}
	return &saved, nil
}

// DeleteDraft discards a draft.
func (c *Client) DeleteDraft(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/api/drafts/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	return nil
}

// ListTemplates fetches the user's reusable message templates.
func (c *Client) ListTemplates(ctx context.Context) ([]model.Template, error) {
	var templates []model.Template
	if err := c.Get(ctx, "/api/templates", nil, &templates); err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return templates, nil
}

// CreateTemplate saves a new template.
func (c *Client) CreateTemplate(
	ctx context.Context,
	tpl model.Template,
) (*model.Template, error) {
	var saved model.Template
	if err := c.Post(ctx, "/api/templates", tpl, &saved); err != nil {
		return nil, fmt.Errorf("creating template %q: %w", tpl.Name, err)
	}
	return &saved, nil
}

// ListSignatures fetches the user's signatures.
func (c *Client) ListSignatures(ctx context.Context) ([]model.Signature, error) {
	var signatures []model.Signature
	if err := c.Get(ctx, "/api/signatures", nil, &signatures); err != nil {
		return nil, fmt.Errorf("listing signatures: %w", err)
	}
	return signatures, nil
}

// ScheduleEmail queues a composition for delivery at sendAt.
func (c *Client) ScheduleEmail(
	ctx context.Context,
	draft model.Draft,
	sendAt time.Time,
) (*model.ScheduledEmail, error) {
	body := model.ScheduledEmail{Draft: draft, SendAt: sendAt}
	var saved model.ScheduledEmail
	if err := c.Post(ctx, "/api/scheduled-emails", body, &saved); err != nil {
		return nil, fmt.Errorf("scheduling email: %w", err)
	}
	return &saved, nil
}

// ListScheduledEmails returns compositions queued for later delivery.
func (c *Client) ListScheduledEmails(ctx context.Context) ([]model.ScheduledEmail, error) {
	var scheduled []model.ScheduledEmail
	if err := c.Get(ctx, "/api/scheduled-emails", nil, &scheduled); err != nil {
		return nil, fmt.Errorf("listing scheduled emails: %w", err)
	}
	return scheduled, nil
}

// CancelScheduledEmail deletes a queued composition before dispatch.
func (c *Client) CancelScheduledEmail(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/api/scheduled-emails/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("cancelling scheduled email %s: %w", id, err)
	}
	return nil
}

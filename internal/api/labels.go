package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/easemail/easemail/internal/model"
)

// ListLabels fetches all labels defined by the user.
func (c *Client) ListLabels(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label
	if err := c.Get(ctx, "/api/labels", nil, &labels); err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}
	return labels, nil
}

// CreateLabel creates a new label and returns the server's record of it.
func (c *Client) CreateLabel(
	ctx context.Context,
	name, color string,
) (*model.Label, error) {
	body := map[string]string{"name": name, "color": color}
	var label model.Label
	if err := c.Post(ctx, "/api/labels", body, &label); err != nil {
		return nil, fmt.Errorf("creating label %q: %w", name, err)
	}
	return &label, nil
}

// MessageLabels fetches the labels attached to a single message. The
// label-to-message join is loaded per message on demand.
func (c *Client) MessageLabels(
	ctx context.Context,
	messageID string,
) ([]model.Label, error) {
	path := "/api/messages/" + url.PathEscape(messageID) + "/labels"
	var labels []model.Label
	if err := c.Get(ctx, path, nil, &labels); err != nil {
		return nil, fmt.Errorf("fetching labels for %s: %w", messageID, err)
	}
	return labels, nil
}

// ApplyLabel attaches a label to a message.
func (c *Client) ApplyLabel(
	ctx context.Context,
	messageID, labelID string,
) error {
	path := "/api/messages/" + url.PathEscape(messageID) + "/labels"
	body := map[string]string{"label_id": labelID}
	if err := c.Post(ctx, path, body, nil); err != nil {
		return fmt.Errorf(
			"applying label %s to %s: %w", labelID, messageID, err,
		)
	}
	return nil
}

// RemoveLabel detaches a label from a message.
func (c *Client) RemoveLabel(
	ctx context.Context,
	messageID, labelID string,
) error {
	path := fmt.Sprintf(
		"/api/messages/%s/labels?label_id=%s",
		url.PathEscape(messageID), url.QueryEscape(labelID),
	)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf(
			"removing label %s from %s: %w", labelID, messageID, err,
		)
	}
	return nil
}

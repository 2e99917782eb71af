package api

import (
	"context"
	"fmt"

	"github.com/easemail/easemail/internal/model"
)

// RemixResult is the AI rewriting response: the remixed body and an
// optional suggested subject line.
type RemixResult struct {
	Remixed          string `json:"remixed"`
	SuggestedSubject string `json:"suggestedSubject,omitempty"`
}

// Remix asks the AI service to rewrite text in the given tone
// (e.g., "formal", "friendly", "concise").
func (c *Client) Remix(
	ctx context.Context,
	text, tone string,
) (*RemixResult, error) {
	body := map[string]string{"text": text, "tone": tone}
	var result RemixResult
	if err := c.Post(ctx, "/api/ai/remix", body, &result); err != nil {
		return nil, fmt.Errorf("remixing text: %w", err)
	}
	return &result, nil
}

// Dictate submits recorded audio and returns the polished transcription.
func (c *Client) Dictate(ctx context.Context, audio []byte) (string, error) {
	body := map[string][]byte{"audio": audio}
	var result struct {
		Text string `json:"text"`
	}
	if err := c.Post(ctx, "/api/ai/dictate", body, &result); err != nil {
		return "", fmt.Errorf("transcribing dictation: %w", err)
	}
	return result.Text, nil
}

// Categorize classifies messages into people/newsletters/notifications.
// The response maps message IDs to categories; IDs the service could not
// classify are absent from the map.
func (c *Client) Categorize(
	ctx context.Context,
	messageIDs []string,
) (map[string]model.Category, error) {
	body := map[string][]string{"message_ids": messageIDs}
	var result struct {
		Categories map[string]model.Category `json:"categories"`
	}
	if err := c.Post(ctx, "/api/ai/categorize", body, &result); err != nil {
		return nil, fmt.Errorf("categorizing messages: %w", err)
	}
	return result.Categories, nil
}

// SpamVerdict is the spam-detection response for a single message.
type SpamVerdict struct {
	Spam  bool    `json:"spam"`
	Score float64 `json:"score"`
}

// DetectSpam scores a message for spam likelihood.
func (c *Client) DetectSpam(
	ctx context.Context,
	messageID string,
) (*SpamVerdict, error) {
	body := map[string]string{"message_id": messageID}
	var verdict SpamVerdict
	if err := c.Post(ctx, "/api/spam/detect", body, &verdict); err != nil {
		return nil, fmt.Errorf("detecting spam for %s: %w", messageID, err)
	}
	return &verdict, nil
}

// ReportSpam reports a message as spam, moving it to the spam folder
// server-side.
func (c *Client) ReportSpam(ctx context.Context, messageID string) error {
	body := map[string]string{"message_id": messageID}
	if err := c.Post(ctx, "/api/spam/report", body, nil); err != nil {
		return fmt.Errorf("reporting spam for %s: %w", messageID, err)
	}
	return nil
}

package model

import "time"

// Draft is an unsent composition saved server-side. The composer auto-saves
// drafts on a timer; the last response to land wins (no version check).
type Draft struct {
	// ID is the server-issued draft identifier, empty until first save.
	ID string `json:"id"`

	// AccountID identifies the sending account.
	AccountID string `json:"account_id"`

	// To, Cc, and Bcc are comma-separated recipient lists as typed.
	To  string `json:"to"`
	Cc  string `json:"cc,omitempty"`
	Bcc string `json:"bcc,omitempty"`

	// Subject is the draft subject line.
	Subject string `json:"subject"`

	// Body is the draft body text.
	Body string `json:"body"`

	// ReplyToMessageID links a reply draft to the original message.
	ReplyToMessageID string `json:"reply_to_message_id,omitempty"`

	// UpdatedAt is the server timestamp of the last save.
	UpdatedAt time.Time `json:"updated_at"`
}

// Template is a reusable message body snippet.
type Template struct {
	// ID is the template identifier.
	ID string `json:"id"`

	// Name is the user-visible template name.
	Name string `json:"name"`

	// Subject is an optional subject to apply with the template.
	Subject string `json:"subject,omitempty"`

	// Body is the template body text.
	Body string `json:"body"`
}

// Signature is a per-account sign-off appended to outgoing mail.
type Signature struct {
	// ID is the signature identifier.
	ID string `json:"id"`

	// AccountID identifies which account the signature belongs to.
	AccountID string `json:"account_id"`

	// Body is the signature text.
	Body string `json:"body"`

	// Default reports whether this is the account's default signature.
	Default bool `json:"default"`
}

// ScheduledEmail is a composition queued server-side for later delivery.
type ScheduledEmail struct {
	// ID is the scheduled-email identifier.
	ID string `json:"id"`

	// Draft carries the composition content.
	Draft

	// SendAt is when the server should dispatch the message.
	SendAt time.Time `json:"send_at"`
}

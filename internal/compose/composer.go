package compose

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/model"
)

// Service is the slice of the EaseMail API the composer depends on.
type Service interface {
	SendMessage(ctx context.Context, req api.SendRequest) error
	ReplyMessage(ctx context.Context, req api.ReplyRequest) error
	CreateDraft(ctx context.Context, draft model.Draft) (*model.Draft, error)
	UpdateDraft(ctx context.Context, draft model.Draft) (*model.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
	ScheduleEmail(ctx context.Context, draft model.Draft, sendAt time.Time) (*model.ScheduledEmail, error)
	Remix(ctx context.Context, text, tone string) (*api.RemixResult, error)
	Dictate(ctx context.Context, audio []byte) (string, error)
	ListTemplates(ctx context.Context) ([]model.Template, error)
	ListSignatures(ctx context.Context) ([]model.Signature, error)
}

var _ Service = (*api.Client)(nil)

// ValidationError is a pre-send check failure. It is surfaced to the user
// directly and no network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a composition before any network call: at least one
// recipient with a parseable address, a non-empty subject, and a
// non-empty body.
func Validate(draft model.Draft) error {
	if strings.TrimSpace(draft.To) == "" {
		return &ValidationError{
			Field:   "to",
			Message: "add at least one recipient",
		}
	}
	for _, addr := range splitAddresses(draft.To) {
		if _, err := mail.ParseAddress(addr); err != nil {
			return &ValidationError{
				Field:   "to",
				Message: fmt.Sprintf("invalid recipient %q", addr),
			}
		}
	}
	if strings.TrimSpace(draft.Subject) == "" {
		return &ValidationError{
			Field:   "subject",
			Message: "subject must not be empty",
		}
	}
	if strings.TrimSpace(draft.Body) == "" {
		return &ValidationError{
			Field:   "body",
			Message: "message body must not be empty",
		}
	}
	return nil
}

// splitAddresses splits a comma-separated recipient list as typed.
func splitAddresses(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SendOutcome is delivered on a PendingSend's Done channel once the
// countdown elapses and the send settles, or the send is cancelled.
type SendOutcome struct {
	// Cancelled is true when the user cancelled within the undo window;
	// no network call was issued.
	Cancelled bool

	// Err is the send error, nil on success.
	Err error
}

// PendingSend is a composition inside its undo-send countdown. Cancel
// within the window stops the timer and guarantees the send request is
// never issued.
type PendingSend struct {
	done chan SendOutcome

	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	fired     bool
}

// Done returns the channel that receives the final outcome exactly once.
func (p *PendingSend) Done() <-chan SendOutcome {
	return p.done
}

// Cancel aborts the pending send. It reports false when the countdown had
// already elapsed and the request was (or is being) issued.
func (p *PendingSend) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fired || p.cancelled {
		return false
	}
	p.cancelled = true
	p.timer.Stop()
	p.done <- SendOutcome{Cancelled: true}
	return true
}

// Composer orchestrates sending, replying, scheduling, and AI-assisted
// editing for one composition session.
type Composer struct {
	svc       Service
	undoDelay time.Duration
}

// New creates a composer with the given undo-send window.
func New(svc Service, undoDelay time.Duration) *Composer {
	if undoDelay <= 0 {
		undoDelay = 5 * time.Second
	}
	return &Composer{svc: svc, undoDelay: undoDelay}
}

// Send validates the draft and, on success, starts the undo-send
// countdown. The actual send request is issued only after the countdown
// elapses uncancelled. Validation failures return immediately with no
// PendingSend and no network call.
func (c *Composer) Send(ctx context.Context, draft model.Draft) (*PendingSend, error) {
	if err := Validate(draft); err != nil {
		return nil, err
	}

	pending := &PendingSend{done: make(chan SendOutcome, 1)}
	pending.timer = time.AfterFunc(c.undoDelay, func() {
		pending.mu.Lock()
		if pending.cancelled {
			pending.mu.Unlock()
			return
		}
		pending.fired = true
		pending.mu.Unlock()

		err := c.svc.SendMessage(ctx, api.SendRequest{
			AccountID: draft.AccountID,
			To:        draft.To,
			Cc:        draft.Cc,
			Bcc:       draft.Bcc,
			Subject:   draft.Subject,
			Body:      draft.Body,
		})
		pending.done <- SendOutcome{Err: err}
	})

	return pending, nil
}

// Reply sends a reply to an existing message after the same validation of
// the body (recipients and subject come from the original message
// server-side).
func (c *Composer) Reply(
	ctx context.Context,
	messageID, body string,
	replyAll bool,
) error {
	if strings.TrimSpace(body) == "" {
		return &ValidationError{
			Field:   "body",
			Message: "reply body must not be empty",
		}
	}
	return c.svc.ReplyMessage(ctx, api.ReplyRequest{
		MessageID: messageID,
		Body:      body,
		ReplyAll:  replyAll,
	})
}

// Schedule validates the draft and queues it server-side for delivery at
// sendAt. Scheduling bypasses the undo countdown; the user can delete the
// scheduled email until it is dispatched.
func (c *Composer) Schedule(
	ctx context.Context,
	draft model.Draft,
	sendAt time.Time,
) (*model.ScheduledEmail, error) {
	if err := Validate(draft); err != nil {
		return nil, err
	}
	if !sendAt.After(time.Now()) {
		return nil, &ValidationError{
			Field:   "send_at",
			Message: "scheduled time must be in the future",
		}
	}
	return c.svc.ScheduleEmail(ctx, draft, sendAt)
}

// Remix rewrites the body in the requested tone, returning the rewritten
// text and an optional suggested subject.
func (c *Composer) Remix(
	ctx context.Context,
	body, tone string,
) (*api.RemixResult, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{
			Field:   "body",
			Message: "nothing to remix",
		}
	}
	return c.svc.Remix(ctx, body, tone)
}

// Dictate transcribes recorded audio into polished body text.
func (c *Composer) Dictate(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", &ValidationError{
			Field:   "audio",
			Message: "no audio recorded",
		}
	}
	return c.svc.Dictate(ctx, audio)
}

// ApplyTemplate merges a template into the draft: the template body is
// appended after any existing body text, and the template subject fills
// an empty subject line.
func ApplyTemplate(draft model.Draft, tpl model.Template) model.Draft {
	if draft.Subject == "" && tpl.Subject != "" {
		draft.Subject = tpl.Subject
	}
	if draft.Body == "" {
		draft.Body = tpl.Body
	} else {
		draft.Body = draft.Body + "\n\n" + tpl.Body
	}
	return draft
}

// ApplySignature appends the signature to the draft body, separated by
// the conventional "-- " marker, unless it is already present.
func ApplySignature(draft model.Draft, sig model.Signature) model.Draft {
	if sig.Body == "" || strings.Contains(draft.Body, sig.Body) {
		return draft
	}
	draft.Body = strings.TrimRight(draft.Body, "\n") + "\n\n-- \n" + sig.Body
	return draft
}

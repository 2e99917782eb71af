package compose

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/easemail/easemail/internal/model"
)

// Autosaver periodically saves the current draft while a composition is
// open, and supports an explicit save from the same path. Saves are not
// sequenced against each other: the last response to land wins, matching
// the explicit "Save Draft" action racing the timer. A save that fails is
// dropped silently; the next tick retries with the then-current content.
type Autosaver struct {
	svc      Service
	interval time.Duration

	mu      sync.Mutex
	draft   model.Draft
	dirty   bool
	stopCh  chan struct{}
	stopped bool
}

// NewAutosaver creates an autosaver for one composition session.
func NewAutosaver(svc Service, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Autosaver{
		svc:      svc,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Update replaces the draft content to be saved on the next tick.
func (a *Autosaver) Update(draft model.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	// Preserve the server-issued ID across content updates.
	if draft.ID == "" {
		draft.ID = a.draft.ID
	}
	a.draft = draft
	a.dirty = true
}

// Draft returns the current draft content, including any server-issued ID
// captured by a completed save.
func (a *Autosaver) Draft() model.Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft
}

// Run saves the draft every interval until the context is cancelled or
// Stop is called. Only dirty content is saved.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stopCh:
			return
		case <-ticker.C:
			_ = a.Save(ctx)
		}
	}
}

// Save performs one save of the current content: a create when no draft
// ID has been issued yet, an update otherwise. A clean draft is a no-op.
func (a *Autosaver) Save(ctx context.Context) error {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}
	draft := a.draft
	a.dirty = false
	a.mu.Unlock()

	var saved *model.Draft
	var err error
	if draft.ID == "" {
		saved, err = a.svc.CreateDraft(ctx, draft)
	} else {
		saved, err = a.svc.UpdateDraft(ctx, draft)
	}
	if err != nil {
		// Leave dirty so the next tick retries with current content.
		a.mu.Lock()
		a.dirty = true
		a.mu.Unlock()
		return fmt.Errorf("saving draft: %w", err)
	}

	a.mu.Lock()
	if a.draft.ID == "" {
		a.draft.ID = saved.ID
	}
	a.mu.Unlock()
	return nil
}

// Discard deletes the saved draft, if any, and stops the autosaver.
func (a *Autosaver) Discard(ctx context.Context) error {
	a.Stop()

	a.mu.Lock()
	id := a.draft.ID
	a.mu.Unlock()

	if id == "" {
		return nil
	}
	if err := a.svc.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("discarding draft %s: %w", id, err)
	}
	return nil
}

// Stop halts the periodic save loop. Safe to call more than once.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.stopped {
		a.stopped = true
		close(a.stopCh)
	}
}

package inbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/model"
)

// bulkConcurrency bounds the fan-out of per-message requests in a bulk
// operation.
const bulkConcurrency = 8

// BulkResult reports the per-item outcome of a bulk operation. The store
// is patched only for the succeeded IDs; partial failure is surfaced as
// an aggregate count, never retried automatically.
type BulkResult struct {
	Succeeded []string
	Failed    []string
	FirstErr  error
}

// AllOK reports whether every item in the batch succeeded.
func (r *BulkResult) AllOK() bool {
	return len(r.Failed) == 0
}

// Summary renders the aggregate outcome for a toast.
func (r *BulkResult) Summary(verb string) string {
	total := len(r.Succeeded) + len(r.Failed)
	if r.AllOK() {
		return fmt.Sprintf("%s %d messages", verb, total)
	}
	return fmt.Sprintf(
		"%s %d of %d messages (%d failed)",
		verb, len(r.Succeeded), total, len(r.Failed),
	)
}

// Dispatcher issues message mutations against the server and patches the
// store with confirmed results. The policy is patch-on-success in both
// the single and bulk paths: a failed request leaves the corresponding
// message's displayed state exactly as it was before the attempt. Nothing
// is retried automatically; every failure is terminal for that action.
type Dispatcher struct {
	svc   Service
	store *Store
}

// NewDispatcher creates a dispatcher bound to the given store.
func NewDispatcher(svc Service, store *Store) *Dispatcher {
	return &Dispatcher{svc: svc, store: store}
}

// ToggleRead flips the unread flag of a single message.
func (d *Dispatcher) ToggleRead(ctx context.Context, id string) error {
	msg, ok := d.store.Get(id)
	if !ok {
		return fmt.Errorf("toggling read: message %s not in view", id)
	}

	unread := !msg.Unread
	updated, err := d.svc.UpdateMessage(ctx, id, api.MessagePatch{
		Unread: &unread,
	})
	if err != nil {
		return err
	}

	d.store.ApplyServer(*updated)
	return nil
}

// ToggleStar flips the starred flag of a single message.
func (d *Dispatcher) ToggleStar(ctx context.Context, id string) error {
	msg, ok := d.store.Get(id)
	if !ok {
		return fmt.Errorf("toggling star: message %s not in view", id)
	}

	starred := !msg.Starred
	updated, err := d.svc.UpdateMessage(ctx, id, api.MessagePatch{
		Starred: &starred,
	})
	if err != nil {
		return err
	}

	d.store.ApplyServer(*updated)
	return nil
}

// Archive moves a single message to the archive folder and removes it
// from the displayed list.
func (d *Dispatcher) Archive(ctx context.Context, id string) error {
	_, err := d.svc.UpdateMessage(ctx, id, api.MessagePatch{
		Folders: []model.Folder{model.FolderArchive},
	})
	if err != nil {
		return err
	}

	d.store.Remove(id)
	return nil
}

// Delete removes a single message (to trash, or permanently).
func (d *Dispatcher) Delete(ctx context.Context, id string, permanent bool) error {
	if err := d.svc.DeleteMessage(ctx, id, permanent); err != nil {
		return err
	}

	d.store.Remove(id)
	return nil
}

// Move re-folders a single message, dropping it from the current view
// when it no longer belongs there.
func (d *Dispatcher) Move(ctx context.Context, id string, folder model.Folder) error {
	updated, err := d.svc.UpdateMessage(ctx, id, api.MessagePatch{
		Folders: []model.Folder{folder},
	})
	if err != nil {
		return err
	}

	_, current := d.store.View()
	if updated.InFolder(current) {
		d.store.ApplyServer(*updated)
	} else {
		d.store.Remove(id)
	}
	return nil
}

// Snooze hides a message until the given time, recording the folder it
// returns to.
func (d *Dispatcher) Snooze(ctx context.Context, id string, until time.Time) error {
	msg, ok := d.store.Get(id)
	if !ok {
		return fmt.Errorf("snoozing: message %s not in view", id)
	}

	_, folder := d.store.View()
	err := d.svc.SnoozeMessage(ctx, api.SnoozeRequest{
		MessageID:      id,
		ThreadID:       msg.ThreadID,
		SnoozeUntil:    until.Unix(),
		OriginalFolder: folder,
	})
	if err != nil {
		return err
	}

	d.store.Remove(id)
	return nil
}

// ReportSpam reports a message as spam and drops it from the view.
func (d *Dispatcher) ReportSpam(ctx context.Context, id string) error {
	if err := d.svc.ReportSpam(ctx, id); err != nil {
		return err
	}

	d.store.Remove(id)
	return nil
}

// bulk fans out op over ids with bounded concurrency, waits for all to
// settle, and returns the per-item outcome. There is no per-item
// cancellation: a slow request holds up the aggregate result for the
// whole batch.
func (d *Dispatcher) bulk(
	ctx context.Context,
	ids []string,
	op func(ctx context.Context, id string) error,
) *BulkResult {
	result := &BulkResult{}
	var mu sync.Mutex

	g := &errgroup.Group{}
	g.SetLimit(bulkConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := op(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, id)
				if result.FirstErr == nil {
					result.FirstErr = err
				}
			} else {
				result.Succeeded = append(result.Succeeded, id)
			}
			return nil
		})
	}

	_ = g.Wait()
	return result
}

// BulkDelete deletes the given messages, removing from the displayed list
// exactly the subset whose HTTP calls succeeded.
func (d *Dispatcher) BulkDelete(
	ctx context.Context,
	ids []string,
	permanent bool,
) *BulkResult {
	result := d.bulk(ctx, ids, func(ctx context.Context, id string) error {
		return d.svc.DeleteMessage(ctx, id, permanent)
	})

	d.store.Remove(result.Succeeded...)
	return result
}

// BulkArchive archives the given messages; only confirmed IDs leave the
// displayed list.
func (d *Dispatcher) BulkArchive(ctx context.Context, ids []string) *BulkResult {
	result := d.bulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := d.svc.UpdateMessage(ctx, id, api.MessagePatch{
			Folders: []model.Folder{model.FolderArchive},
		})
		return err
	})

	d.store.Remove(result.Succeeded...)
	return result
}

// BulkMarkRead marks the given messages read; only confirmed responses
// are spliced into the store.
func (d *Dispatcher) BulkMarkRead(ctx context.Context, ids []string) *BulkResult {
	unread := false
	return d.bulkPatch(ctx, ids, api.MessagePatch{Unread: &unread})
}

// BulkStar stars the given messages.
func (d *Dispatcher) BulkStar(ctx context.Context, ids []string) *BulkResult {
	starred := true
	return d.bulkPatch(ctx, ids, api.MessagePatch{Starred: &starred})
}

// BulkMoveToFolder moves the given messages to the folder, dropping
// confirmed ones from the current view when they no longer belong.
func (d *Dispatcher) BulkMoveToFolder(
	ctx context.Context,
	ids []string,
	folder model.Folder,
) *BulkResult {
	result := d.bulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := d.svc.UpdateMessage(ctx, id, api.MessagePatch{
			Folders: []model.Folder{folder},
		})
		return err
	})

	_, current := d.store.View()
	if folder != current {
		d.store.Remove(result.Succeeded...)
	}
	return result
}

// BulkApplyLabel attaches a label to the given messages. Labels are not
// part of the summary state, so no store patch is needed.
func (d *Dispatcher) BulkApplyLabel(
	ctx context.Context,
	ids []string,
	labelID string,
) *BulkResult {
	return d.bulk(ctx, ids, func(ctx context.Context, id string) error {
		return d.svc.ApplyLabel(ctx, id, labelID)
	})
}

// bulkPatch applies the same patch to every ID, splicing each confirmed
// response into the store as it lands.
func (d *Dispatcher) bulkPatch(
	ctx context.Context,
	ids []string,
	patch api.MessagePatch,
) *BulkResult {
	return d.bulk(ctx, ids, func(ctx context.Context, id string) error {
		updated, err := d.svc.UpdateMessage(ctx, id, patch)
		if err != nil {
			return err
		}
		d.store.ApplyServer(*updated)
		return nil
	})
}

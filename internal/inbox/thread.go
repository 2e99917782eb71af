package inbox

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/easemail/easemail/internal/model"
)

// ThreadGroup is a derived, ephemeral bucket of messages sharing a thread
// identifier. It is recomputed from the displayed message slice on demand
// and never persisted.
type ThreadGroup struct {
	// ID is the thread identifier, or the message's own ID for
	// messages without one (singleton threads are a normal case).
	ID string

	// Messages are the bucket members sorted ascending by timestamp.
	Messages []model.MessageSummary
}

// Preview returns the message shown in collapsed form: the most recent
// member of the bucket.
func (g *ThreadGroup) Preview() model.MessageSummary {
	return g.Messages[len(g.Messages)-1]
}

// HasUnread reports whether any bucket member is unread.
func (g *ThreadGroup) HasUnread() bool {
	for i := range g.Messages {
		if g.Messages[i].Unread {
			return true
		}
	}
	return false
}

// GroupThreads buckets messages by thread identifier, sorting each bucket
// ascending by timestamp. Grouping is idempotent and order-stable: the
// same input always yields identical bucket membership and ordering, and
// groups appear in order of first appearance in the input. The input may
// be a search-result slice or a category-filtered slice; the grouper does
// not distinguish, and only ever sees one page of messages at a time.
func GroupThreads(msgs []model.MessageSummary) []ThreadGroup {
	byID := make(map[string]int, len(msgs))
	groups := make([]ThreadGroup, 0, len(msgs))

	for _, m := range msgs {
		key := m.ThreadID
		if key == "" {
			key = m.ID
		}
		idx, ok := byID[key]
		if !ok {
			idx = len(groups)
			byID[key] = idx
			groups = append(groups, ThreadGroup{ID: key})
		}
		groups[idx].Messages = append(groups[idx].Messages, m)
	}

	for i := range groups {
		g := &groups[i]
		sort.SliceStable(g.Messages, func(a, b int) bool {
			return g.Messages[a].Timestamp < g.Messages[b].Timestamp
		})
	}

	return groups
}

// ThreadExpander lazily fetches full threads from the server, memoized by
// thread ID so each thread is fetched exactly once. The fetched thread is
// kept separate from the page-local grouping: server thread membership can
// differ from what is inferable from the currently loaded page, and the
// fetched set only ever backs the expanded view.
type ThreadExpander struct {
	svc Service

	mu      sync.Mutex
	fetched map[string]*model.Thread
}

// NewThreadExpander creates an expander backed by the given service.
func NewThreadExpander(svc Service) *ThreadExpander {
	return &ThreadExpander{
		svc:     svc,
		fetched: make(map[string]*model.Thread),
	}
}

// Expand returns the full thread, fetching it from the server on first
// call and re-sorting members ascending by timestamp. Subsequent calls
// return the memoized result. A failed fetch is not memoized, so the next
// expand attempt retries.
func (e *ThreadExpander) Expand(
	ctx context.Context,
	threadID string,
) (*model.Thread, error) {
	e.mu.Lock()
	if t, ok := e.fetched[threadID]; ok {
		e.mu.Unlock()
		return t, nil
	}
	e.mu.Unlock()

	thread, err := e.svc.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("expanding thread %s: %w", threadID, err)
	}

	sort.SliceStable(thread.Messages, func(a, b int) bool {
		return thread.Messages[a].Timestamp < thread.Messages[b].Timestamp
	})

	e.mu.Lock()
	e.fetched[threadID] = thread
	e.mu.Unlock()

	return thread, nil
}

// Invalidate drops the memoized thread so the next Expand refetches it.
func (e *ThreadExpander) Invalidate(threadID string) {
	e.mu.Lock()
	delete(e.fetched, threadID)
	e.mu.Unlock()
}

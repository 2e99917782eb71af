package inbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/model"
)

// CategoryLookup resolves a message ID to its cached category. The second
// return is false while classification for that message is still pending.
type CategoryLookup func(id string) (model.Category, bool)

// Store holds the ordered message list for the active account/folder view,
// together with the pagination cursor and the search/category display
// overlay. The list is replaced wholesale on account/folder switch and
// refreshed piecemeal from confirmed PATCH responses; there is no durable
// local persistence and no conflict resolution beyond "last successful
// fetch wins".
//
// All methods are safe for concurrent use. Network calls are issued
// without holding the lock, so interleaved responses land in completion
// order and the last write wins.
type Store struct {
	svc      Service
	pageSize int

	mu          sync.Mutex
	accountID   string
	folder      model.Folder
	messages    []model.MessageSummary
	cursor      string
	hasMore     bool
	loading     bool
	loadingMore bool

	openID string

	searchActive  bool
	searchResults []model.MessageSummary

	categoryFilter model.Category
	lookupCategory CategoryLookup
}

// NewStore creates a store for the given account and folder.
func NewStore(svc Service, accountID string, folder model.Folder, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Store{
		svc:       svc,
		pageSize:  pageSize,
		accountID: accountID,
		folder:    folder,
	}
}

// SetView switches the active account/folder. The message list, cursor,
// selection-relevant display slice, and any active search are discarded;
// the caller is expected to Fetch afterwards.
func (s *Store) SetView(accountID string, folder model.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accountID = accountID
	s.folder = folder
	s.messages = nil
	s.cursor = ""
	s.hasMore = false
	s.searchActive = false
	s.searchResults = nil
	s.openID = ""
}

// View returns the active account ID and folder.
func (s *Store) View() (string, model.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountID, s.folder
}

// Fetch replaces the message list from the server and captures the
// returned cursor and has-more flag. Concurrent fetches are coalesced by
// the loading guard: a call that finds one already in flight is a no-op.
// On failure the list and cursor are left exactly as they were.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	accountID, folder := s.accountID, s.folder
	s.mu.Unlock()

	page, err := s.svc.ListMessages(ctx, api.ListOptions{
		AccountID: accountID,
		Folder:    folder,
		PageSize:  s.pageSize,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return fmt.Errorf("fetching messages: %w", err)
	}

	// A view switch while the request was in flight invalidates it.
	if s.accountID != accountID || s.folder != folder {
		return nil
	}

	s.messages = page.Messages
	s.cursor = page.NextPageToken
	s.hasMore = page.HasMore
	return nil
}

// LoadMore appends the next page and advances the cursor. It is a no-op
// (no network call) when there is no cursor, has-more is false, or a load
// is already in flight; calling it twice in rapid succession before the
// first resolves appends exactly once. On failure the cursor and has-more
// flag are left untouched so a later scroll can retry.
func (s *Store) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasMore || s.cursor == "" || s.loadingMore || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loadingMore = true
	accountID, folder, cursor := s.accountID, s.folder, s.cursor
	s.mu.Unlock()

	page, err := s.svc.ListMessages(ctx, api.ListOptions{
		AccountID: accountID,
		Folder:    folder,
		PageToken: cursor,
		PageSize:  s.pageSize,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingMore = false

	if err != nil {
		return fmt.Errorf("loading more messages: %w", err)
	}

	if s.accountID != accountID || s.folder != folder {
		return nil
	}

	s.messages = append(s.messages, page.Messages...)
	s.cursor = page.NextPageToken
	s.hasMore = page.HasMore
	return nil
}

// Search runs a server-side search and overlays its results on the
// displayed list. An empty query clears the overlay, restoring the
// already-set category filter's effect.
func (s *Store) Search(ctx context.Context, query string) error {
	if query == "" {
		s.ClearSearch()
		return nil
	}

	s.mu.Lock()
	accountID := s.accountID
	s.mu.Unlock()

	page, err := s.svc.SearchMessages(ctx, accountID, ParseQuery(query))
	if err != nil {
		return fmt.Errorf("searching messages: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchActive = true
	s.searchResults = page.Messages
	return nil
}

// ClearSearch drops the search overlay.
func (s *Store) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchActive = false
	s.searchResults = nil
}

// SearchActive reports whether a search overlay is in effect.
func (s *Store) SearchActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchActive
}

// SetCategoryFilter sets the client-side category predicate applied when
// no search is active. An empty category clears the filter.
func (s *Store) SetCategoryFilter(cat model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryFilter = cat
}

// SetCategorySource installs the lookup used to resolve per-message
// categories for the category filter.
func (s *Store) SetCategorySource(lookup CategoryLookup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupCategory = lookup
}

// Messages returns a copy of the full in-memory message list.
func (s *Store) Messages() []model.MessageSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.MessageSummary, len(s.messages))
	copy(out, s.messages)
	return out
}

// Displayed returns the slice currently shown: the latest search results
// when a search is active, otherwise the message list filtered by the
// category predicate. The two modes are mutually exclusive; an active
// search ignores the category filter entirely.
func (s *Store) Displayed() []model.MessageSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchActive {
		out := make([]model.MessageSummary, len(s.searchResults))
		copy(out, s.searchResults)
		return out
	}

	if s.categoryFilter == "" || s.lookupCategory == nil {
		out := make([]model.MessageSummary, len(s.messages))
		copy(out, s.messages)
		return out
	}

	var out []model.MessageSummary
	for _, m := range s.messages {
		if cat, ok := s.lookupCategory(m.ID); ok && cat == s.categoryFilter {
			out = append(out, m)
		}
	}
	return out
}

// DisplayedIDs returns the IDs of the displayed slice, in order.
func (s *Store) DisplayedIDs() []string {
	displayed := s.Displayed()
	ids := make([]string, len(displayed))
	for i := range displayed {
		ids[i] = displayed[i].ID
	}
	return ids
}

// HasMore reports whether another page exists for the current view.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Loading reports whether a fetch or load-more is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading || s.loadingMore
}

// Get returns the message with the given ID from the in-memory list.
func (s *Store) Get(id string) (model.MessageSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			return s.messages[i], true
		}
	}
	return model.MessageSummary{}, false
}

// ApplyServer splices a confirmed server response into the list, in both
// the backing list and any active search results. Unknown IDs are ignored
// (the message may have been removed while the request was in flight).
func (s *Store) ApplyServer(updated model.MessageSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == updated.ID {
			s.messages[i] = updated
			break
		}
	}
	for i := range s.searchResults {
		if s.searchResults[i].ID == updated.ID {
			s.searchResults[i] = updated
			break
		}
	}
}

// Remove drops messages by ID from the list and search results, clearing
// the open message if it was among them.
func (s *Store) Remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = deleteMatching(s.messages, drop)
	s.searchResults = deleteMatching(s.searchResults, drop)
	if drop[s.openID] {
		s.openID = ""
	}
}

// SetOpen records which message is open in the detail view. Independent
// of the bulk selection set.
func (s *Store) SetOpen(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openID = id
}

// Open returns the ID of the open message, or "".
func (s *Store) Open() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openID
}

// deleteMatching filters out messages whose ID is in drop, in place.
func deleteMatching(
	msgs []model.MessageSummary,
	drop map[string]bool,
) []model.MessageSummary {
	kept := msgs[:0]
	for _, m := range msgs {
		if !drop[m.ID] {
			kept = append(kept, m)
		}
	}
	return kept
}

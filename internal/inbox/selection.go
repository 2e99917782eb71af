package inbox

import "sync"

// Selection is the set of message IDs checked for bulk operations,
// independent of which message is open in the detail view. The raw set
// may reference messages that have scrolled out of the filtered view;
// consumers read through Visible so hidden or stale entries never reach a
// bulk operation.
type Selection struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips membership for the given ID and reports the new state.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Add inserts IDs into the selection.
func (s *Selection) Add(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Remove deletes IDs from the selection.
func (s *Selection) Remove(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// Has reports whether the ID is selected.
func (s *Selection) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the raw selection size, including entries that may not be
// visible.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// Visible intersects the selection with the currently displayed IDs,
// preserving display order. This is the only form bulk operations accept.
func (s *Selection) Visible(displayedIDs []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, id := range displayedIDs {
		if _, ok := s.ids[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Prune drops selected IDs that are no longer displayed. Called on filter
// or view changes so the set cannot accumulate stale references.
func (s *Selection) Prune(displayedIDs []string) {
	visible := make(map[string]struct{}, len(displayedIDs))
	for _, id := range displayedIDs {
		visible[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		if _, ok := visible[id]; !ok {
			delete(s.ids, id)
		}
	}
}

package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()

	assert.True(t, s.Toggle("m1"))
	assert.True(t, s.Has("m1"))
	assert.Equal(t, 1, s.Len())

	assert.False(t, s.Toggle("m1"))
	assert.False(t, s.Has("m1"))
	assert.Zero(t, s.Len())
}

func TestSelectionVisibleIsOrderedIntersection(t *testing.T) {
	s := NewSelection()
	s.Add("m3", "m1", "gone")

	// Order follows the displayed list, not insertion; hidden ids are
	// excluded without being forgotten.
	visible := s.Visible([]string{"m1", "m2", "m3"})
	assert.Equal(t, []string{"m1", "m3"}, visible)
	assert.True(t, s.Has("gone"))
}

func TestSelectionVisibleEmptyWhenNothingDisplayed(t *testing.T) {
	s := NewSelection()
	s.Add("m1")
	assert.Empty(t, s.Visible(nil))
}

func TestSelectionPruneDropsHiddenIDs(t *testing.T) {
	s := NewSelection()
	s.Add("m1", "m2", "m3")

	s.Prune([]string{"m2"})

	assert.False(t, s.Has("m1"))
	assert.True(t, s.Has("m2"))
	assert.False(t, s.Has("m3"))
	assert.Equal(t, 1, s.Len())
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection()
	s.Add("m1", "m2")
	s.Clear()
	assert.Zero(t, s.Len())
}

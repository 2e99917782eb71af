package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easemail/easemail/internal/model"
)

// recordingRecorder captures persisted notifications.
type recordingRecorder struct {
	recorded []model.Notification
}

func (r *recordingRecorder) RecordNotification(n model.Notification) error {
	r.recorded = append(r.recorded, n)
	return nil
}

func newTestMonitor(prefs model.NotificationPrefs, granted bool, rec Recorder) *Monitor {
	return NewMonitor(
		func() model.NotificationPrefs { return prefs },
		func() bool { return granted },
		rec,
	)
}

func unreadMsg(id string) model.MessageSummary {
	m := msg(id, 100)
	m.Unread = true
	return m
}

func readMsg(id string) model.MessageSummary {
	m := msg(id, 100)
	m.Unread = false
	return m
}

func TestFirstObservationPrimesWithoutFiring(t *testing.T) {
	m := newTestMonitor(model.DefaultNotificationPrefs(), true, nil)

	event := m.Observe([]model.MessageSummary{unreadMsg("m1"), unreadMsg("m2")})
	assert.Nil(t, event, "priming observation must not fire")
}

func TestSingleNewUnreadFiresSingleEvent(t *testing.T) {
	rec := &recordingRecorder{}
	m := newTestMonitor(model.DefaultNotificationPrefs(), true, rec)

	m.Observe([]model.MessageSummary{unreadMsg("m1")})
	event := m.Observe([]model.MessageSummary{unreadMsg("m2"), unreadMsg("m1")})

	require.NotNil(t, event)
	require.NotNil(t, event.Single)
	assert.Equal(t, "m2", event.Single.ID)
	assert.Zero(t, event.Count)
	require.Len(t, rec.recorded, 1)
	assert.Equal(t, "m2", rec.recorded[0].MessageID)
}

func TestMultipleNewUnreadFiresCountEvent(t *testing.T) {
	m := newTestMonitor(model.DefaultNotificationPrefs(), true, nil)

	m.Observe([]model.MessageSummary{unreadMsg("m1")})
	event := m.Observe([]model.MessageSummary{
		unreadMsg("m2"), unreadMsg("m3"), unreadMsg("m1"),
	})

	require.NotNil(t, event)
	assert.Nil(t, event.Single)
	assert.Equal(t, 2, event.Count)
}

func TestNewReadMessagesDoNotFire(t *testing.T) {
	m := newTestMonitor(model.DefaultNotificationPrefs(), true, nil)

	m.Observe([]model.MessageSummary{unreadMsg("m1")})
	event := m.Observe([]model.MessageSummary{readMsg("m2"), unreadMsg("m1")})
	assert.Nil(t, event)
}

func TestReorderingAndRemovalNeverMisattribute(t *testing.T) {
	m := newTestMonitor(model.DefaultNotificationPrefs(), true, nil)

	m.Observe([]model.MessageSummary{
		unreadMsg("m1"), unreadMsg("m2"), unreadMsg("m3"),
	})

	// m1 deleted elsewhere, remaining two reordered: nothing is new.
	event := m.Observe([]model.MessageSummary{unreadMsg("m3"), unreadMsg("m2")})
	assert.Nil(t, event)
}

func TestSuppressedObservationStillAdvancesSeen(t *testing.T) {
	prefs := model.NotificationPrefs{Enabled: false}
	m := NewMonitor(
		func() model.NotificationPrefs { return prefs },
		func() bool { return true },
		nil,
	)

	m.Observe([]model.MessageSummary{unreadMsg("m1")})
	assert.Nil(t, m.Observe([]model.MessageSummary{unreadMsg("m1"), unreadMsg("m2")}))

	// Re-enabling later must not replay m2 as new.
	prefs.Enabled = true
	assert.Nil(t, m.Observe([]model.MessageSummary{unreadMsg("m1"), unreadMsg("m2")}))
}

func TestPermissionDeniedSuppresses(t *testing.T) {
	m := newTestMonitor(model.DefaultNotificationPrefs(), false, nil)

	m.Observe([]model.MessageSummary{unreadMsg("m1")})
	assert.Nil(t, m.Observe([]model.MessageSummary{unreadMsg("m1"), unreadMsg("m2")}))
}

func TestResetPrimesAgain(t *testing.T) {
	m := newTestMonitor(model.DefaultNotificationPrefs(), true, nil)

	m.Observe([]model.MessageSummary{unreadMsg("m1")})
	m.Reset()

	// After reset the next observation primes, not fires.
	assert.Nil(t, m.Observe([]model.MessageSummary{unreadMsg("m2")}))
}

func TestTitleHonorsShowPreview(t *testing.T) {
	single := unreadMsg("m1")
	event := &NotificationEvent{Single: &single}

	withPreview := newTestMonitor(model.NotificationPrefs{Enabled: true, ShowPreview: true}, true, nil)
	assert.Equal(t, "Sender: subject m1", withPreview.Title(event))

	noPreview := newTestMonitor(model.NotificationPrefs{Enabled: true, ShowPreview: false}, true, nil)
	assert.Equal(t, "New message", noPreview.Title(event))

	assert.Equal(t, "New messages", noPreview.Title(&NotificationEvent{Count: 3}))
}

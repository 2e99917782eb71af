package inbox

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/easemail/easemail/internal/model"
)

// NotificationEvent is one new-mail alert produced by the monitor. Either
// Single is set (exactly one new unread message) or Count is set (more
// than one); never both.
type NotificationEvent struct {
	// Single is the one newly arrived unread message, when exactly one
	// qualified.
	Single *model.MessageSummary

	// Count is the number of newly arrived unread messages for a
	// count-only bulk alert.
	Count int
}

// Recorder persists fired notifications for the notification history
// view. Implementations must tolerate being called from the monitor's
// caller goroutine.
type Recorder interface {
	RecordNotification(n model.Notification) error
}

// Monitor detects newly arrived unread mail between observations of the
// message list. It diffs by identifier set rather than positional
// slicing, so reordering or removals elsewhere in the list can never
// misattribute "new" messages. The first observation only seeds the seen
// set and fires nothing.
//
// Observe is fed refresh snapshots of the full message list; load-more
// appends are deliberately not observed, since an older page arriving is
// not new mail.
type Monitor struct {
	prefs      func() model.NotificationPrefs
	permission func() bool
	recorder   Recorder

	mu     sync.Mutex
	seen   map[string]struct{}
	primed bool
}

// NewMonitor creates a monitor. prefs and permission are consulted on
// every observation; recorder may be nil.
func NewMonitor(
	prefs func() model.NotificationPrefs,
	permission func() bool,
	recorder Recorder,
) *Monitor {
	return &Monitor{
		prefs:      prefs,
		permission: permission,
		recorder:   recorder,
		seen:       make(map[string]struct{}),
	}
}

// Observe compares the snapshot to the previously seen identifier set and
// returns a notification event for newly appeared unread messages, or nil
// when nothing qualifies or notifications are suppressed. The seen set is
// always advanced, even while suppressed, so enabling notifications later
// does not replay old mail.
func (m *Monitor) Observe(msgs []model.MessageSummary) *NotificationEvent {
	m.mu.Lock()

	var fresh []model.MessageSummary
	current := make(map[string]struct{}, len(msgs))
	for i := range msgs {
		current[msgs[i].ID] = struct{}{}
		if _, ok := m.seen[msgs[i].ID]; !ok && msgs[i].Unread {
			fresh = append(fresh, msgs[i])
		}
	}

	primed := m.primed
	m.seen = current
	m.primed = true
	m.mu.Unlock()

	if !primed || len(fresh) == 0 {
		return nil
	}
	if !m.prefs().Enabled || !m.permission() {
		return nil
	}

	var event *NotificationEvent
	if len(fresh) == 1 {
		single := fresh[0]
		event = &NotificationEvent{Single: &single}
	} else {
		event = &NotificationEvent{Count: len(fresh)}
	}

	m.record(event)
	return event
}

// Reset clears the seen set, e.g. on account switch, so the next
// observation primes rather than fires.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = make(map[string]struct{})
	m.primed = false
}

// Title renders the notification headline, honoring the show-preview
// preference.
func (m *Monitor) Title(event *NotificationEvent) string {
	if event.Single != nil {
		if m.prefs().ShowPreview {
			return event.Single.Sender().String() + ": " + event.Single.Subject
		}
		return "New message"
	}
	return "New messages"
}

// record persists the event through the recorder, if one is configured.
func (m *Monitor) record(event *NotificationEvent) {
	if m.recorder == nil {
		return
	}

	n := model.Notification{
		ID:        uuid.New().String(),
		Message:   m.Title(event),
		CreatedAt: time.Now().UTC(),
	}
	if event.Single != nil {
		n.MessageID = event.Single.ID
	}
	_ = m.recorder.RecordNotification(n)
}

package model

// Folder identifies a server-side mailbox partition.
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderSent    Folder = "sent"
	FolderArchive Folder = "archive"
	FolderTrash   Folder = "trash"
	FolderStarred Folder = "starred"
	FolderDrafts  Folder = "drafts"
	FolderSpam    Folder = "spam"
	FolderSnoozed Folder = "snoozed"
)

// Category is the AI-assigned classification of a message.
type Category string

const (
	CategoryPeople        Category = "people"
	CategoryNewsletters   Category = "newsletters"
	CategoryNotifications Category = "notifications"
)

// Address is a single mailbox participant.
type Address struct {
	// Name is the display name, possibly empty.
	Name string `json:"name"`

	// Email is the RFC 5321 address.
	Email string `json:"email"`
}

// String renders the address for display, preferring the display name.
func (a Address) String() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

// MessageSummary is the client's view of a single message as returned by
// the message-listing API. It is owned by the inbox store for the lifetime
// of the current account/folder view: replaced wholesale on folder or
// account switch, refreshed piecemeal from PATCH responses.
type MessageSummary struct {
	// ID is the server-issued message identifier.
	ID string `json:"id"`

	// ThreadID groups messages into a conversation. May be empty, in
	// which case the message forms a singleton thread.
	ThreadID string `json:"thread_id"`

	// AccountID identifies which linked mail account owns the message.
	AccountID string `json:"account_id"`

	// From lists the sender addresses.
	From []Address `json:"from"`

	// To and Cc list the recipient addresses.
	To []Address `json:"to"`
	Cc []Address `json:"cc,omitempty"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Snippet is the short body preview returned by the listing API.
	Snippet string `json:"snippet"`

	// Timestamp is the message date in epoch seconds.
	Timestamp int64 `json:"timestamp"`

	// Unread reports whether the message is still unread.
	Unread bool `json:"unread"`

	// Starred reports whether the message is starred.
	Starred bool `json:"starred"`

	// Folders lists the folders the message currently belongs to.
	Folders []Folder `json:"folders"`

	// HasAttachment reports whether the message carries attachments.
	HasAttachment bool `json:"has_attachment"`
}

// InFolder reports whether the message belongs to the given folder.
func (m *MessageSummary) InFolder(f Folder) bool {
	for _, mf := range m.Folders {
		if mf == f {
			return true
		}
	}
	return false
}

// Sender returns the first From address, or a zero Address when absent.
func (m *MessageSummary) Sender() Address {
	if len(m.From) > 0 {
		return m.From[0]
	}
	return Address{}
}

package model

// Label is a user-defined tag attached to messages. The label-to-message
// join is fetched per message on demand, never eagerly loaded into the
// inbox store.
type Label struct {
	// ID is the server-issued label identifier.
	ID string `json:"id"`

	// Name is the user-visible label name.
	Name string `json:"name"`

	// Color is the display color as a hex string (e.g., "#f59e0b").
	Color string `json:"color"`
}

// Thread is a server-defined conversation: a thread identifier with its
// full member messages, as returned by the thread endpoint. It is kept
// separate from the page-local thread grouping derived in the inbox
// package and never merged back into the message list.
type Thread struct {
	// ID is the thread identifier.
	ID string `json:"id"`

	// Messages are the full member messages, sorted ascending by
	// timestamp by the client after fetch.
	Messages []MessageSummary `json:"messages"`
}

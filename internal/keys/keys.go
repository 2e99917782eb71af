package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Open / back / quit
	Open key.Binding
	Back key.Binding
	Quit key.Binding

	// Selection
	ToggleSelect key.Binding
	ClearSelect  key.Binding

	// Message actions
	ToggleRead key.Binding
	Star       key.Binding
	Archive    key.Binding
	Delete     key.Binding
	Move       key.Binding
	Label      key.Binding
	Snooze     key.Binding
	Spam       key.Binding

	// Compose
	Compose key.Binding
	Reply   key.Binding

	// Search
	Search key.Binding

	// Folder switching
	NextFolder key.Binding
	PrevFolder key.Binding

	// Category filters
	FilterPeople        key.Binding
	FilterNewsletters   key.Binding
	FilterNotifications key.Binding

	// Misc
	Refresh  key.Binding
	LoadMore key.Binding
	Help     key.Binding
	OrgAdmin key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open message"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "select"),
		),
		ClearSelect: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear selection"),
		),
		ToggleRead: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "read/unread"),
		),
		Star: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "star"),
		),
		Archive: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("#", "backspace"),
			key.WithHelp("#", "delete"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to folder"),
		),
		Label: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "label"),
		),
		Snooze: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "snooze"),
		),
		Spam: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "report spam"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compose"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextFolder: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next folder"),
		),
		PrevFolder: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev folder"),
		),
		FilterPeople: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "people"),
		),
		FilterNewsletters: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "newsletters"),
		),
		FilterNotifications: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "notifications"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "load more"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		OrgAdmin: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "org admin"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Open, k.Back,
		k.Compose, k.Search, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back, k.Quit},
		{k.ToggleSelect, k.ClearSelect, k.Search, k.Refresh, k.LoadMore},
		{k.ToggleRead, k.Star, k.Archive, k.Delete, k.Move},
		{k.Label, k.Snooze, k.Spam, k.Compose, k.Reply},
		{k.NextFolder, k.PrevFolder, k.FilterPeople, k.FilterNewsletters, k.FilterNotifications},
		{k.Help, k.OrgAdmin},
	}
}

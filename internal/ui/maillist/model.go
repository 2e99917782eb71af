package maillist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/easemail/easemail/internal/inbox"
	"github.com/easemail/easemail/internal/keys"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/theme"
)

// RefreshedMsg is sent when the inbox store has finished a fetch,
// search, or pagination call and the visible list should be rebuilt.
type RefreshedMsg struct {
	Err error
}

// OpenMessageMsg is sent when the user opens a message.
type OpenMessageMsg struct {
	MessageID string
	ThreadID  string
}

// Model is the message list view component.
type Model struct {
	list        list.Model
	store       *inbox.Store
	selection   *inbox.Selection
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new message list model.
func New(
	s *inbox.Store,
	sel *inbox.Selection,
	lookupCategory func(id string) (model.Category, bool),
	k *keys.KeyMap,
	width, height int,
) Model {
	delegate := ItemDelegate{selection: sel, lookupCategory: lookupCategory}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search mail (from: to: subject: is:unread has:attachment)..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		selection:   sel,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the first page.
func (m Model) Init() tea.Cmd {
	return m.FetchCmd()
}

// Update handles messages for the message list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshedMsg:
		m.Rebuild()
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query == "" {
			return m, m.ClearSearchCmd()
		}
		return m, m.SearchCmd(query)

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		return m, m.ClearSearchCmd()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		item, ok := m.list.SelectedItem().(MessageItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return OpenMessageMsg{
				MessageID: item.Message.ID,
				ThreadID:  item.Message.ThreadID,
			}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ToggleSelect):
		if item, ok := m.list.SelectedItem().(MessageItem); ok {
			m.selection.Toggle(item.Message.ID)
			m.Rebuild()
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearSelect):
		m.selection.Clear()
		m.Rebuild()
		return m, nil

	case key.Matches(msg, m.keys.LoadMore):
		return m, m.LoadMoreCmd()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Searching reports whether the search input currently has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Current returns the message under the cursor, if any.
func (m Model) Current() (model.MessageSummary, bool) {
	item, ok := m.list.SelectedItem().(MessageItem)
	if !ok {
		return model.MessageSummary{}, false
	}
	return item.Message, true
}

// Rebuild rebuilds the visible items from the store, grouping the
// displayed page into threads and showing each thread's preview row.
func (m *Model) Rebuild() {
	displayed := m.store.Displayed()
	groups := inbox.GroupThreads(displayed)

	items := make([]list.Item, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		if len(g.Messages) == 0 {
			continue
		}
		preview := g.Preview()
		unread := 0
		for _, msg := range g.Messages {
			if msg.Unread {
				unread++
			}
		}
		items = append(items, MessageItem{
			Message: preview,
			Unread:  unread,
			Size:    len(g.Messages),
		})
	}

	m.list.SetItems(items)
	m.selection.Prune(m.store.DisplayedIDs())
}

// View renders the message list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	listView := m.list.View()
	if m.store.HasMore() {
		hint := theme.HelpStyle.Render(
			fmt.Sprintf("  %s for more", m.keys.LoadMore.Help().Key),
		)
		listView = lipgloss.JoinVertical(lipgloss.Left, listView, hint)
	}
	return listView
}

// renderEmptyState shows guidance text when the folder has no messages.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.store.SearchActive() {
		return style.Render("No matching messages.\nPress esc to clear the search.")
	}

	_, folder := m.store.View()
	return style.Render("No messages in " + string(folder) + ".")
}

// FetchCmd returns a tea.Cmd that reloads the first page of the
// current view.
func (m Model) FetchCmd() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.Fetch(context.Background())
		return RefreshedMsg{Err: err}
	}
}

// LoadMoreCmd returns a tea.Cmd that appends the next page.
func (m Model) LoadMoreCmd() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.LoadMore(context.Background())
		return RefreshedMsg{Err: err}
	}
}

// SearchCmd returns a tea.Cmd that runs a server-side search and
// overlays the results on the current view.
func (m Model) SearchCmd(query string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.Search(context.Background(), query)
		return RefreshedMsg{Err: err}
	}
}

// ClearSearchCmd drops the search overlay and rebuilds the list.
func (m Model) ClearSearchCmd() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.ClearSearch()
		return RefreshedMsg{}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

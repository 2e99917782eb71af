package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/easemail/easemail/internal/eml"
	"github.com/easemail/easemail/internal/inbox"
	"github.com/easemail/easemail/internal/keys"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ThreadLoadedMsg carries the expanded thread for the opened message.
type ThreadLoadedMsg struct {
	Thread *model.Thread
	Err    error
}

// BodyLoadedMsg carries the parsed raw body of one thread member.
type BodyLoadedMsg struct {
	MessageID string
	Parsed    *eml.Parsed
	Err       error
}

// bodyFetcher fetches the raw RFC 822 export of a message.
type bodyFetcher interface {
	RawMessage(ctx context.Context, id string) ([]byte, error)
}

// Model is the message detail view component. It shows the opened
// message's full thread, expanding members on demand.
type Model struct {
	expander *inbox.ThreadExpander
	fetcher  bodyFetcher
	keys     *keys.KeyMap

	openID   string
	threadID string
	thread   *model.Thread
	bodies   map[string]*eml.Parsed

	viewport viewport.Model
	width    int
	height   int
	loading  bool
	loadErr  error
}

// New creates a new detail view model.
func New(expander *inbox.ThreadExpander, fetcher bodyFetcher, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		expander: expander,
		fetcher:  fetcher,
		keys:     k,
		bodies:   make(map[string]*eml.Parsed),
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Open prepares the view for a message and returns the command that
// expands its thread.
func (m *Model) Open(messageID, threadID string) tea.Cmd {
	m.openID = messageID
	m.threadID = threadID
	m.thread = nil
	m.bodies = make(map[string]*eml.Parsed)
	m.loading = true
	m.loadErr = nil

	expander := m.expander
	return func() tea.Msg {
		thread, err := expander.Expand(context.Background(), threadID)
		return ThreadLoadedMsg{Thread: thread, Err: err}
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ThreadLoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		m.thread = msg.Thread
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoBottom()
		if msg.Err == nil && m.thread != nil {
			return m, m.loadBody(m.openID)
		}
		return m, nil

	case BodyLoadedMsg:
		if msg.Err == nil && msg.Parsed != nil {
			m.bodies[msg.MessageID] = msg.Parsed
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading thread...")
	}

	if m.loadErr != nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorRed).
			Render("Could not load thread: " + m.loadErr.Error())
	}

	return m.viewport.View()
}

// loadBody returns a command that fetches and parses one member's raw
// export.
func (m Model) loadBody(messageID string) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		raw, err := fetcher.RawMessage(context.Background(), messageID)
		if err != nil {
			return BodyLoadedMsg{MessageID: messageID, Err: err}
		}
		return BodyLoadedMsg{MessageID: messageID, Parsed: eml.Parse(raw)}
	}
}

// renderContent builds the full thread content string for the viewport.
func (m Model) renderContent() string {
	if m.thread == nil || len(m.thread.Messages) == 0 {
		return ""
	}

	var b strings.Builder

	subject := m.thread.Messages[len(m.thread.Messages)-1].Subject
	if subject == "" {
		subject = "(no subject)"
	}
	b.WriteString(theme.HeaderStyle.Render(subject))
	b.WriteString("\n\n")

	for i, msg := range m.thread.Messages {
		b.WriteString(m.renderMember(msg))
		if i < len(m.thread.Messages)-1 {
			b.WriteString("\n" + theme.HelpStyle.Render(strings.Repeat("─", max(1, m.width-4))) + "\n")
		}
	}

	return b.String()
}

// renderMember draws one thread member with headers and body.
func (m Model) renderMember(msg model.MessageSummary) string {
	var b strings.Builder

	from := theme.UnreadStyle.Render(msg.Sender().String())
	when := theme.SnippetStyle.Render(
		time.Unix(msg.Timestamp, 0).Format("Mon, Jan 2 2006 15:04"),
	)
	b.WriteString(fmt.Sprintf("%s  %s\n", from, when))

	if len(msg.To) > 0 {
		var rcpts []string
		for _, a := range msg.To {
			rcpts = append(rcpts, a.Email)
		}
		b.WriteString(theme.SnippetStyle.Render("to " + strings.Join(rcpts, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	parsed, ok := m.bodies[msg.ID]
	if !ok {
		// Body not fetched yet; fall back to the listing snippet.
		b.WriteString(msg.Snippet)
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(parsed.DisplayBody())
	b.WriteString("\n")

	if len(parsed.Attachments) > 0 {
		b.WriteString("\n")
		for _, a := range parsed.Attachments {
			b.WriteString(theme.HelpStyle.Render(
				fmt.Sprintf("📎 %s (%s)", a.Filename, eml.FormatSize(a.Size)),
			))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Current returns the identifiers of the opened message.
func (m Model) Current() (messageID, threadID string) {
	return m.openID, m.threadID
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

package maillist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/easemail/easemail/internal/inbox"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/theme"
)

// MessageItem wraps a model.MessageSummary so it can be used in a
// bubbles/list.
type MessageItem struct {
	Message model.MessageSummary
	Unread  int // unread count of the thread this message previews, 0 for singletons
	Size    int // number of messages in the thread
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string {
	return i.Message.Subject + " " + i.Message.Sender().String()
}

// Title returns the message subject for the list.
func (i MessageItem) Title() string { return i.Message.Subject }

// Description returns a short summary line for the list.
func (i MessageItem) Description() string {
	parts := []string{
		i.Message.Sender().String(),
		relativeTime(time.Unix(i.Message.Timestamp, 0)),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering message rows.
type ItemDelegate struct {
	// selection is shared by reference with the app model so checkbox
	// state stays current without rebuilding items.
	selection *inbox.Selection

	// lookupCategory resolves a message's cached classification, if any.
	lookupCategory func(id string) (model.Category, bool)
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single message row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}

	msg := mi.Message
	isSelected := index == m.Index()

	checkbox := "[ ]"
	if d.selection != nil && d.selection.Has(msg.ID) {
		checkbox = "[x]"
	}

	star := " "
	if msg.Starred {
		star = lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("★")
	}

	sender := msg.Sender().String()
	if len(sender) > 24 {
		sender = sender[:23] + "…"
	}
	senderCol := fmt.Sprintf("%-24s", sender)

	subject := msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	if mi.Size > 1 {
		subject = fmt.Sprintf("%s (%d)", subject, mi.Size)
	}

	snippet := ""
	if msg.Snippet != "" {
		snippet = theme.SnippetStyle.Render(" — " + msg.Snippet)
	}

	attachment := ""
	if msg.HasAttachment {
		attachment = " 📎"
	}

	category := ""
	if d.lookupCategory != nil {
		if cat, ok := d.lookupCategory(msg.ID); ok {
			category = " " + theme.CategoryStyle(string(cat)).Render(string(cat))
		}
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(time.Unix(msg.Timestamp, 0)))

	if msg.Unread {
		senderCol = theme.UnreadStyle.Render(senderCol)
		subject = theme.UnreadStyle.Render(subject)
	}

	line := fmt.Sprintf(
		"%s %s %s %s%s%s%s  %s",
		checkbox, star, senderCol, subject, snippet, attachment, category, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("Jan 02")
	}
}

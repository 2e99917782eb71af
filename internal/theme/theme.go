package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FolderStyle returns a color-coded style for a mailbox folder badge.
func FolderStyle(folder string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch folder {
	case "inbox":
		return base.Foreground(ColorBlue)
	case "sent":
		return base.Foreground(ColorGreen)
	case "drafts":
		return base.Foreground(ColorYellow)
	case "starred":
		return base.Foreground(ColorOrange)
	case "snoozed":
		return base.Foreground(ColorMagenta)
	case "spam", "trash":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// CategoryStyle returns a color-coded style for an inbox category filter.
func CategoryStyle(category string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch category {
	case "people":
		return base.Foreground(ColorGreen)
	case "newsletters":
		return base.Foreground(ColorMagenta)
	case "notifications":
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// RoleStyle returns a color-coded style for an organization role badge.
func RoleStyle(role string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch role {
	case "OWNER":
		return base.Foreground(ColorOrange)
	case "ADMIN":
		return base.Foreground(ColorBlue)
	case "MEMBER":
		return base.Foreground(ColorGreen)
	case "VIEWER":
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// UnreadStyle marks unread message rows in the list.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// SnippetStyle dims message snippets next to the subject line.
var SnippetStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#06B6D4") // Cyan
	Success    = lipgloss.Color("#10B981") // Green
	Warning    = lipgloss.Color("#F59E0B") // Amber
	Error      = lipgloss.Color("#EF4444") // Red
	Muted      = lipgloss.Color("#6B7280") // Gray
	Foreground = lipgloss.Color("#F9FAFB") // Light
	Border     = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	// Numbered lists
	IndexStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	NameStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	PathStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	StaleStyle = lipgloss.NewStyle().
			Foreground(Error)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Prompts
	QuestionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	DefaultStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Diff lines
	AddStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6e3a1"))

	DeleteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8"))

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Primary)

	// Notification/Toast styles
	SuccessNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#10B981")).
				Bold(true)

	ErrorNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FCA5A5")).
				Bold(true)

	WarningNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FCD34D")).
				Bold(true)

	InfoNotifyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93C5FD"))
)

// Notification kinds accepted by RenderNotification.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyWarning = "warning"
	NotifyInfo    = "info"
)

// RenderNotification renders a styled notification message
func RenderNotification(msgType string, message string) string {
	var icon string
	var style lipgloss.Style

	switch msgType {
	case NotifySuccess:
		icon = "✓"
		style = SuccessNotifyStyle
	case NotifyError:
		icon = "✗"
		style = ErrorNotifyStyle
	case NotifyWarning:
		icon = "⚠"
		style = WarningNotifyStyle
	case NotifyInfo:
		icon = "ℹ"
		style = InfoNotifyStyle
	default:
		icon = "•"
		style = MutedStyle
	}

	return style.Render(icon + " " + message)
}

// RenderHelpItem renders a help key-description pair
func RenderHelpItem(key, desc string) string {
	return IndexStyle.Render(key) + " " + MutedStyle.Render(desc)
}

// RenderQuestion renders a prompt line with its default answer, if any.
func RenderQuestion(question, def string) string {
	if def == "" {
		return QuestionStyle.Render(question) + " "
	}
	return QuestionStyle.Render(question) + " " + DefaultStyle.Render("["+def+"]") + " "
}

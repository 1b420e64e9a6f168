package ui

import "github.com/charmbracelet/lipgloss"

// Colors. Primary, Secondary and Recent follow the configured theme.
var (
	Primary    = lipgloss.Color("#667eea") // Indigo
	Secondary  = lipgloss.Color("#764ba2") // Purple
	Recent     = lipgloss.Color("#ffebee") // Pale pink
	Success    = lipgloss.Color("#10B981") // Green
	Warning    = lipgloss.Color("#F59E0B") // Amber
	Error      = lipgloss.Color("#EF4444") // Red
	Muted      = lipgloss.Color("#6B7280") // Gray
	Foreground = lipgloss.Color("#F9FAFB") // Light
	Border     = lipgloss.Color("#374151") // Border gray
	Selected   = lipgloss.Color("#4F46E5") // Indigo
)

// Styles
var (
	// App container
	AppStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Foreground)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1).
			MarginTop(1)

	StatusTextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	// Help bar
	HelpBarStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Muted text
	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	// Divider
	DividerStyle = lipgloss.NewStyle().
			Foreground(Border)

	// Card for a product not on the list
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	// Notification/Toast styles
	SuccessNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#10B981")).
				Background(lipgloss.Color("#064E3B")).
				Padding(0, 1).
				Bold(true)

	ErrorNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FCA5A5")).
				Background(lipgloss.Color("#7F1D1D")).
				Padding(0, 1).
				Bold(true)

	WarningNotifyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FCD34D")).
				Background(lipgloss.Color("#78350F")).
				Padding(0, 1).
				Bold(true)

	InfoNotifyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93C5FD")).
			Background(lipgloss.Color("#1E3A5F")).
			Padding(0, 1).
			Bold(true)

	// Button styles
	ButtonStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Border).
			Padding(0, 2)
)

// Themed styles, rebuilt by ApplyTheme
var (
	HeaderStyle       lipgloss.Style
	CategoryStyle     lipgloss.Style
	RecentTitleStyle  lipgloss.Style
	ActivePanelStyle  lipgloss.Style
	SelectedCardStyle lipgloss.Style
	OnListCardStyle   lipgloss.Style
	RecentCardStyle   lipgloss.Style
	SelectedItemStyle lipgloss.Style
	CursorStyle       lipgloss.Style
	HelpKeyStyle      lipgloss.Style
	DialogStyle       lipgloss.Style
	ButtonActiveStyle lipgloss.Style
)

func init() {
	buildThemedStyles()
}

// ApplyTheme sets the theme colors. Empty values keep the current color.
func ApplyTheme(primary, secondary, recent string) {
	if primary != "" {
		Primary = lipgloss.Color(primary)
	}
	if secondary != "" {
		Secondary = lipgloss.Color(secondary)
	}
	if recent != "" {
		Recent = lipgloss.Color(recent)
	}
	buildThemedStyles()
}

func buildThemedStyles() {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Foreground).
		Background(Primary).
		Padding(0, 1)

	CategoryStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	RecentTitleStyle = lipgloss.NewStyle().
		Foreground(Recent).
		Bold(true)

	ActivePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)

	SelectedCardStyle = CardStyle.
		BorderForeground(Secondary).
		Bold(true)

	OnListCardStyle = CardStyle.
		BorderForeground(Primary).
		Foreground(Primary)

	RecentCardStyle = CardStyle.
		BorderForeground(Recent)

	SelectedItemStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(Secondary).
		Foreground(Foreground)

	CursorStyle = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	DialogStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2).
		Width(60)

	ButtonActiveStyle = lipgloss.NewStyle().
		Foreground(Foreground).
		Background(Primary).
		Padding(0, 2).
		Bold(true)
}

// RenderHelpItem renders a help key-description pair
func RenderHelpItem(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

// RenderNotification renders a styled notification message
func RenderNotification(msgType string, message string) string {
	var icon string
	var style lipgloss.Style

	switch msgType {
	case "success":
		icon = "✓"
		style = SuccessNotifyStyle
	case "error":
		icon = "✗"
		style = ErrorNotifyStyle
	case "warning":
		icon = "⚠"
		style = WarningNotifyStyle
	case "info":
		icon = "ℹ"
		style = InfoNotifyStyle
	default:
		icon = "•"
		style = MutedStyle
	}

	return style.Render(icon + " " + message)
}

// RenderButton renders a styled button
func RenderButton(label string, active bool) string {
	if active {
		return ButtonActiveStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

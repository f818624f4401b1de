package editor

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#0AF")
	muted  = lipgloss.Color("#667788")
	border = lipgloss.Color("#334455")

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAB")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(accent).
			Bold(true).
			Padding(0, 1)

	tabBarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(border)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCC")).
			Background(lipgloss.Color("#223"))

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(accent).
				Background(lipgloss.Color("#223")).
				Padding(0, 1)

	statusSegmentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAB")).
				Background(lipgloss.Color("#223")).
				Padding(0, 1)

	timerStyle = statusSegmentStyle.Copy().
			Foreground(lipgloss.Color("#cba6f7")).
			Bold(true)

	timerFlashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#D33")).
			Bold(true).
			Padding(0, 1)

	hemingwayStyle = statusSegmentStyle.Copy().
			Foreground(lipgloss.Color("#F5A"))

	selectorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	selectorItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCC")).
				Padding(0, 1)

	selectorCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF")).
				Background(accent).
				Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(border)

	pickerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(accent).
				Background(lipgloss.Color("#224"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FA0")).
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(muted).
				Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))
)

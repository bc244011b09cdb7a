package shell

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset
const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorMauve).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Background(colorSurface0).
				Padding(0, 1)

	urlLabelStyle = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	urlStyle      = lipgloss.NewStyle().Foreground(colorText)
	titleStyle    = lipgloss.NewStyle().Foreground(colorMauve).Bold(true)
	bodyStyle     = lipgloss.NewStyle().Foreground(colorText)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay0)

	statusOK      = lipgloss.NewStyle().Foreground(colorGreen)
	statusWarn    = lipgloss.NewStyle().Foreground(colorYellow)
	statusError   = lipgloss.NewStyle().Foreground(colorRed)
	statusLoading = lipgloss.NewStyle().Foreground(colorBlue).Italic(true)

	ruleStyle = lipgloss.NewStyle().Foreground(colorSurface0)
)

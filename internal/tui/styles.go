package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorWhite)

	unfocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)

	separatorStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Indicator dot styles.
var (
	dotPendingStyle = lipgloss.NewStyle().Foreground(colorYellow)
	dotOKStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	dotErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// Left panel styles.
var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	fieldLabelStyle    = lipgloss.NewStyle().Width(12).Foreground(colorDim)
	fieldValueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	inputLabelStyle    = lipgloss.NewStyle().Width(7).Foreground(colorDim)
	focusedLabelStyle  = lipgloss.NewStyle().Width(7).Bold(true).Foreground(colorCyan)

	dataKeyStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	dataValueStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	dataDeleteStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(colorDim)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
)

// Log panel styles.
var (
	logTimeStyle    = lipgloss.NewStyle().Foreground(colorDim)
	logCallStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	logSuccessStyle = lipgloss.NewStyle().Foreground(colorGreen)
	logErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

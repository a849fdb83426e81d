// Package formatter renders nippo's terminal output: tables, work-time
// summaries, commit listings and the generation spinner.
package formatter

import (
	"strings"

	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

var stateColors = map[domain.WorkTimeState]lipgloss.Color{
	domain.WorkTimeRecording: ColorRed,
	domain.WorkTimeCompleted: ColorGreen,
	domain.WorkTimeDiscarded: ColorYellow,
}

// StateBadge renders a work-time state such as "● RECORDING".
func StateBadge(state domain.WorkTimeState) string {
	color, ok := stateColors[state]
	if !ok {
		color = ColorDim
	}
	return lipgloss.NewStyle().Foreground(color).Render("● " + strings.ToUpper(string(state)))
}

// ReportTypeLabel colors meeting reports purple and daily reports blue.
func ReportTypeLabel(t domain.ReportType) string {
	if t == domain.ReportMeeting {
		return StylePurple.Render(string(t))
	}
	return StyleBlue.Render(string(t))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return lipgloss.NewStyle().Foreground(ColorFg).Bold(true).Render(text)
}

// ABOUTME: Defines lipgloss styles for the results browser: titles, party rows, bars, and agreement dots.
// ABOUTME: Provides DotStyle to map an answer difference to its marker color.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75")).
			MarginTop(1)

	CursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	PartyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	PercentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Width(5).Align(lipgloss.Right)
	BarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	QuestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	SentenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	StrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	HelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	neutralDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dotStyles       = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("106")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
	}
)

// DotStyle returns the marker style for an answer difference. Indifferent
// users get the neutral gray dot.
func DotStyle(difference int, indifferent bool) lipgloss.Style {
	if indifferent || difference < 0 || difference >= len(dotStyles) {
		return neutralDotStyle
	}
	return dotStyles[difference]
}

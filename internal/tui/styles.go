package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/christopherklint97/studyr/internal/planner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Strikethrough(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1)

	priorityStyles = map[planner.Priority]lipgloss.Style{
		planner.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		planner.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		planner.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func renderPriority(p planner.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return ""
	}
	return style.Render(string(p))
}

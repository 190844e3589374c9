package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/christopherklint97/studyr/internal/planner"
)

const pickerVisible = 15

type planPickerModel struct {
	plans    []planner.Plan
	progress map[string]planner.Progress
	filtered []int // indices into plans
	cursor   int
	filter   textinput.Model
	chosen   int
}

func newPlanPicker(plans []planner.Plan, progress map[string]planner.Progress) planPickerModel {
	ti := textinput.New()
	ti.Placeholder = "Filter plans..."
	ti.Focus()

	filtered := make([]int, len(plans))
	for i := range plans {
		filtered[i] = i
	}

	return planPickerModel{
		plans:    plans,
		progress: progress,
		filtered: filtered,
		filter:   ti,
		chosen:   -1,
	}
}

func (m planPickerModel) Update(msg tea.Msg) (planPickerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, pickerKeys.Open):
			if len(m.filtered) > 0 {
				m.chosen = m.filtered[m.cursor]
			}
			return m, nil
		case key.Matches(keyMsg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(keyMsg, pickerKeys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	prevFilter := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)

	if m.filter.Value() != prevFilter {
		m.applyFilter()
	}

	return m, cmd
}

func (m *planPickerModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.filtered = m.filtered[:0]
	for i, p := range m.plans {
		if query == "" ||
			strings.Contains(strings.ToLower(string(p.Type)), query) ||
			strings.Contains(strings.ToLower(strings.Join(p.Subjects(), " ")), query) ||
			strings.Contains(strings.ToLower(p.ID), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m planPickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Study Plans"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No plans match filter"))
		b.WriteString("\n")
		return b.String()
	}

	start := 0
	if m.cursor >= pickerVisible {
		start = m.cursor - pickerVisible + 1
	}
	end := min(start+pickerVisible, len(m.filtered))

	for vi := start; vi < end; vi++ {
		p := m.plans[m.filtered[vi]]

		cursor := "  "
		if vi == m.cursor {
			cursor = "> "
		}

		pct := m.progress[p.ID].CompletionPercentage
		subjects := strings.Join(p.Subjects(), ", ")
		if len(subjects) > 40 {
			subjects = subjects[:40] + "..."
		}

		head := fmt.Sprintf("%s%-12s %s %4.0f%%", cursor, p.Type, p.CreatedAt, pct)
		if vi == m.cursor {
			head = highlightStyle.Render(head)
		}
		b.WriteString(head + "  " + dimStyle.Render(subjects))
		b.WriteString("\n")
	}

	return b.String()
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/christopherklint97/studyr/internal/planner"
)

const defaultTasksVisible = 15

type taskListModel struct {
	plan     planner.Plan
	progress planner.Progress
	cursor   int
	visible  int
	bar      progress.Model
}

func newTaskList(plan planner.Plan, prog planner.Progress) taskListModel {
	return taskListModel{
		plan:     plan,
		progress: prog,
		visible:  defaultTasksVisible,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m *taskListModel) setHeight(h int) {
	m.visible = max(h, 3)
}

func (m *taskListModel) move(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.plan.Tasks)-1, 0))
}

func (m taskListModel) View() string {
	var sb strings.Builder

	title := string(m.plan.Type) + " plan"
	if m.plan.ExamDate != "" {
		title += " (exam " + m.plan.ExamDate + ")"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.bar.ViewAs(m.progress.CompletionPercentage / 100))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d tasks", len(m.progress.CompletedTasks), len(m.plan.Tasks))))
	sb.WriteString("\n\n")

	if len(m.plan.Tasks) == 0 {
		sb.WriteString(dimStyle.Render("  This plan has no tasks"))
		return sb.String()
	}

	start := 0
	if m.cursor >= m.visible {
		start = m.cursor - m.visible + 1
	}
	end := min(start+m.visible, len(m.plan.Tasks))

	lastDate := ""
	for i := start; i < end; i++ {
		t := m.plan.Tasks[i]
		if t.Date != "" && t.Date != lastDate {
			sb.WriteString(dateStyle.Render(t.Date))
			sb.WriteString("\n")
			lastDate = t.Date
		}
		sb.WriteString(m.renderTask(i, t))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m taskListModel) renderTask(i int, t planner.Task) string {
	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}
	check := "[ ]"
	if m.progress.IsDone(i) {
		check = "[x]"
	}

	text := fmt.Sprintf("%s-%s  %s: %s", t.StartTime, t.EndTime, t.Subject, t.Description)
	switch {
	case m.progress.IsDone(i):
		text = doneStyle.Render(text)
	case t.Type == planner.TaskBreak:
		text = dimStyle.Render(text)
	}

	prefix := cursor + check + " "
	if i == m.cursor {
		prefix = highlightStyle.Render(prefix)
	}

	line := prefix + text
	if p := renderPriority(t.Priority); p != "" {
		line += "  " + p
	}
	return line
}

func renderDetails(plan planner.Plan) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Study Techniques"))
	sb.WriteString("\n")
	if len(plan.StudyTechniques) == 0 {
		sb.WriteString(dimStyle.Render("  none"))
		sb.WriteString("\n")
	}
	for _, t := range plan.StudyTechniques {
		sb.WriteString(highlightStyle.Render(t.Name))
		sb.WriteString("\n  ")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("Resources"))
	sb.WriteString("\n")
	if len(plan.Resources) == 0 {
		sb.WriteString(dimStyle.Render("  none"))
		sb.WriteString("\n")
	}
	for _, r := range plan.Resources {
		sb.WriteString(fmt.Sprintf("%s  %s\n", highlightStyle.Render(r.Title), dimStyle.Render(r.Type+", "+r.Difficulty)))
		sb.WriteString("  " + r.URL + "\n")
	}

	return boxStyle.Render(sb.String())
}

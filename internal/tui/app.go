package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/christopherklint97/studyr/internal/planner"
)

type viewState int

const (
	pickerView viewState = iota
	tasksView
	detailsView
)

// Tracker persists a task completion change and returns the plan's new
// progress.
type Tracker interface {
	SetTaskDone(planID string, index int, done bool) (planner.Progress, error)
}

// Result reports the plan that was open when the browser closed.
type Result struct {
	PlanID string
}

type toggledMsg struct {
	planID   string
	progress planner.Progress
	err      error
}

// Browser lists plans and lets the user tick off their tasks.
type Browser struct {
	state    viewState
	plans    []planner.Plan
	progress map[string]planner.Progress
	tracker  Tracker
	picker   planPickerModel
	tasks    taskListModel
	help     help.Model
	errMsg   string
	result   *Result
}

// NewBrowser opens on the plan list, or directly on openPlan when it names
// one of plans.
func NewBrowser(plans []planner.Plan, progress map[string]planner.Progress, tracker Tracker, openPlan string) *Browser {
	if progress == nil {
		progress = make(map[string]planner.Progress)
	}
	b := &Browser{
		state:    pickerView,
		plans:    plans,
		progress: progress,
		tracker:  tracker,
		picker:   newPlanPicker(plans, progress),
		help:     help.New(),
	}
	for i, p := range plans {
		if p.ID == openPlan {
			b.open(i)
			break
		}
	}
	return b
}

func (b *Browser) open(i int) {
	p := b.plans[i]
	prog, ok := b.progress[p.ID]
	if !ok {
		prog = planner.NewProgress(len(p.Tasks))
	}
	b.tasks = newTaskList(p, prog)
	b.state = tasksView
	b.errMsg = ""
}

func (b *Browser) Init() tea.Cmd {
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.help.Width = msg.Width
		b.tasks.setHeight(msg.Height - 10)
		return b, nil
	case toggledMsg:
		return b.handleToggled(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return b.quit()
		}
	}

	switch b.state {
	case pickerView:
		return b.updatePicker(msg)
	case tasksView:
		return b.updateTasks(msg)
	case detailsView:
		return b.updateDetails(msg)
	}

	return b, nil
}

func (b *Browser) View() string {
	var body string
	var keys keyMap
	switch b.state {
	case pickerView:
		if len(b.plans) == 0 {
			body = dimStyle.Render("No study plans yet. Create one with 'studyr new'.")
		} else {
			body = b.picker.View()
		}
		keys = pickerKeys
	case tasksView:
		body = b.tasks.View()
		keys = taskKeys
	case detailsView:
		body = renderDetails(b.tasks.plan)
		keys = keyMap{Back: taskKeys.Back, Quit: taskKeys.Quit}
	}

	if b.errMsg != "" {
		body += "\n" + errorStyle.Render("Error: ") + b.errMsg
	}
	return body + "\n" + helpStyle.Render(b.help.View(keys))
}

func (b *Browser) GetResult() *Result {
	return b.result
}

func (b *Browser) quit() (tea.Model, tea.Cmd) {
	b.result = &Result{}
	if b.state != pickerView {
		b.result.PlanID = b.tasks.plan.ID
	}
	return b, tea.Quit
}

func (b *Browser) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, pickerKeys.Quit) {
		return b.quit()
	}

	var cmd tea.Cmd
	b.picker, cmd = b.picker.Update(msg)
	if b.picker.chosen >= 0 {
		b.open(b.picker.chosen)
		b.picker.chosen = -1
	}
	return b, cmd
}

func (b *Browser) updateTasks(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case key.Matches(keyMsg, taskKeys.Quit):
		return b.quit()
	case key.Matches(keyMsg, taskKeys.Back):
		b.picker = newPlanPicker(b.plans, b.progress)
		b.state = pickerView
	case key.Matches(keyMsg, taskKeys.Up):
		b.tasks.move(-1)
	case key.Matches(keyMsg, taskKeys.Down):
		b.tasks.move(1)
	case key.Matches(keyMsg, taskKeys.Details):
		b.state = detailsView
	case key.Matches(keyMsg, taskKeys.Toggle):
		if len(b.tasks.plan.Tasks) == 0 {
			return b, nil
		}
		i := b.tasks.cursor
		return b, b.toggle(b.tasks.plan.ID, i, !b.tasks.progress.IsDone(i))
	}
	return b, nil
}

func (b *Browser) updateDetails(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, taskKeys.Quit):
			return b.quit()
		case key.Matches(keyMsg, taskKeys.Back), key.Matches(keyMsg, taskKeys.Details):
			b.state = tasksView
		}
	}
	return b, nil
}

func (b *Browser) toggle(planID string, index int, done bool) tea.Cmd {
	return func() tea.Msg {
		prog, err := b.tracker.SetTaskDone(planID, index, done)
		return toggledMsg{planID: planID, progress: prog, err: err}
	}
}

func (b *Browser) handleToggled(msg toggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		b.errMsg = msg.err.Error()
		return b, nil
	}
	b.errMsg = ""
	b.progress[msg.planID] = msg.progress
	if b.tasks.plan.ID == msg.planID {
		b.tasks.progress = msg.progress
	}
	return b, nil
}

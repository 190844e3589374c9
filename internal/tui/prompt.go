package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptResult holds the text entered into a Prompt.
type PromptResult struct {
	Text     string
	Canceled bool
}

// Prompt is a standalone multi-line text entry, used to type form input
// such as "Subject: Topic1, Topic2" lines.
type Prompt struct {
	textarea textarea.Model
	title    string
	hint     string
	result   *PromptResult
}

func NewPrompt(title, hint, prefill string) *Prompt {
	ta := textarea.New()
	ta.Placeholder = hint
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(70)
	ta.SetHeight(8)
	ta.ShowLineNumbers = false

	if prefill != "" {
		ta.SetValue(prefill)
	}

	return &Prompt{textarea: ta, title: title, hint: hint}
}

func (p *Prompt) Init() tea.Cmd {
	return textarea.Blink
}

func (p *Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.textarea.SetWidth(min(max(msg.Width-4, 20), 100))
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			p.result = &PromptResult{Canceled: true}
			return p, tea.Quit
		case "ctrl+d":
			p.result = &PromptResult{Text: p.textarea.Value()}
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	return p, cmd
}

func (p *Prompt) View() string {
	header := titleStyle.Render(p.title)
	hint := subtitleStyle.Render(p.hint)
	help := helpStyle.Render("Ctrl+D: done • Esc: cancel")

	return header + "\n" + hint + "\n" + p.textarea.View() + "\n" + help
}

func (p *Prompt) GetResult() *PromptResult {
	return p.result
}

// RunPrompt shows a Prompt and returns what was typed. ok is false when
// the user cancelled.
func RunPrompt(title, hint, prefill string) (text string, ok bool, err error) {
	p := NewPrompt(title, hint, prefill)
	if _, err := tea.NewProgram(p).Run(); err != nil {
		return "", false, err
	}
	res := p.GetResult()
	if res == nil || res.Canceled {
		return "", false, nil
	}
	return res.Text, true, nil
}

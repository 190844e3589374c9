package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Toggle  key.Binding
	Details key.Binding
	Back    key.Binding
	Quit    key.Binding
}

var pickerKeys = keyMap{
	Up:   key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑", "up")),
	Down: key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓", "down")),
	Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open plan")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

var taskKeys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
	Details: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "techniques & resources")),
	Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "all plans")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range []key.Binding{k.Up, k.Down, k.Open, k.Toggle, k.Details, k.Back, k.Quit} {
		if len(b.Keys()) > 0 {
			out = append(out, b)
		}
	}
	return out
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

package assessment

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Grab    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Start   key.Binding
	Review  key.Binding
	Refresh key.Binding
	Explain key.Binding
	Back    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Done    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Move")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "Column")),
		Right:   key.NewBinding(key.WithKeys("right", "l")),
		Toggle:  key.NewBinding(key.WithKeys("space", "x"), key.WithHelp("Space", "Select")),
		Grab:    key.NewBinding(key.WithKeys("space", "x"), key.WithHelp("Space", "Pick up/drop")),
		Next:    key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("Tab", "Next")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("Shift+Tab", "Prev")),
		Submit:  key.NewBinding(key.WithKeys("s"), key.WithHelp("S", "Submit")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Start")),
		Review:  key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "Review last attempt")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Refresh")),
		Explain: key.NewBinding(key.WithKeys("e"), key.WithHelp("E", "Explain")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Discard attempt")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep going")),
		Done:    key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("Enter", "Continue")),
	}
}

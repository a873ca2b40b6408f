package review

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Accept     key.Binding
	Regenerate key.Binding
	Refine     key.Binding
	Edit       key.Binding
	Previous   key.Binding
	Diff       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Accept: key.NewBinding(
		key.WithKeys("a", "enter"),
		key.WithHelp("a/enter", "accept"),
	),
	Regenerate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "regenerate"),
	),
	Refine: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "refine instructions"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Previous: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "previous candidate"),
	),
	Diff: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "show diff"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "abort"),
	),
}

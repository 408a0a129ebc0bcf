package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// MatchKeyMap defines the key bindings for the match screen.
type MatchKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	Cancel    key.Binding
	Move      key.Binding
	Attack    key.Binding
	Gather    key.Binding
	Build     key.Binding
	NextPhase key.Binding
	EndTurn   key.Binding
	Save      key.Binding
	Surrender key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Move, k.Attack, k.Gather, k.Build, k.EndTurn, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Cancel},
		{k.Move, k.Attack, k.Gather, k.Build},
		{k.NextPhase, k.EndTurn, k.Save, k.Surrender, k.Quit},
	}
}

// DefaultMatchKeyMap returns default key bindings.
func DefaultMatchKeyMap() MatchKeyMap {
	return MatchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "cursor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "cursor down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "cursor right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select/confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Attack: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "attack"),
		),
		Gather: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "gather"),
		),
		Build: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "build"),
		),
		NextPhase: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next phase"),
		),
		EndTurn: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end turn"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Surrender: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "surrender"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

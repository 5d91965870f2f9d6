package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/tiling"
)

type keyMap struct {
	Focus     key.Binding
	Move      key.Binding
	Workspace key.Binding
	Send      key.Binding
	Monocle   key.Binding
	Retile    key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus: key.NewBinding(
			key.WithKeys("h", "j", "k", "l", "left", "down", "up", "right"),
			key.WithHelp("hjkl", "focus"),
		),
		Move: key.NewBinding(
			key.WithKeys("H", "J", "K", "L", "shift+left", "shift+down", "shift+up", "shift+right"),
			key.WithHelp("HJKL", "move"),
		),
		Workspace: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "workspace"),
		),
		Send: key.NewBinding(
			key.WithKeys("!", "@", "#", "$", "%", "^", "&", "*"),
			key.WithHelp("shift+1-8", "send"),
		),
		Monocle: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "monocle"),
		),
		Retile: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "retile"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload config"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Move, k.Workspace, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Move},
		{k.Workspace, k.Send},
		{k.Monocle, k.Retile, k.Reload},
		{k.Help, k.Quit},
	}
}

var shiftedDigits = map[string]int{
	"!": 1, "@": 2, "#": 3, "$": 4, "%": 5, "^": 6, "&": 7, "*": 8,
}

func dirForKey(s string) (tiling.Direction, bool) {
	switch s {
	case "h", "H", "left", "shift+left":
		return tiling.Left, true
	case "j", "J", "down", "shift+down":
		return tiling.Down, true
	case "k", "K", "up", "shift+up":
		return tiling.Up, true
	case "l", "L", "right", "shift+right":
		return tiling.Right, true
	}
	return 0, false
}

// actionForKey maps a key press to a daemon action.
func (k keyMap) actionForKey(s string) (action.Action, bool) {
	msg := keyString(s)
	switch {
	case key.Matches(msg, k.Focus):
		d, _ := dirForKey(s)
		return action.FocusDir(d), true
	case key.Matches(msg, k.Move):
		d, _ := dirForKey(s)
		return action.MoveDir(d), true
	case key.Matches(msg, k.Workspace):
		return action.GoTo(int(s[0] - '0')), true
	case key.Matches(msg, k.Send):
		return action.SendTo(shiftedDigits[s]), true
	case key.Matches(msg, k.Monocle):
		return action.Action{Kind: action.ToggleMonocle}, true
	case key.Matches(msg, k.Retile):
		return action.Action{Kind: action.Retile}, true
	}
	return action.Action{}, false
}

type keyString string

func (s keyString) String() string { return string(s) }

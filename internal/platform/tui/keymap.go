package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/scene"
)

// KeyMap holds the in-level key bindings.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Jump    key.Binding
	Down    key.Binding
	Collect key.Binding
	Swap    key.Binding
	Verify  key.Binding
	Hint    key.Binding
	Replay  key.Binding
	Next    key.Binding
	Back    key.Binding
	Quit    key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the default in-level bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Jump: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "jump"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "descend"),
		),
		Collect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "collect"),
		),
		Swap: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "swap"),
		),
		Verify: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "verify"),
		),
		Hint: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hint"),
		),
		Replay: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "replay"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next level"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "levels"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// Action maps a key press to a semantic action.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Back):
		return core.ActionBack
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Collect):
		return core.ActionConfirm
	case key.Matches(msg, k.Swap):
		return core.ActionSwap
	case key.Matches(msg, k.Verify):
		return core.ActionVerify
	case key.Matches(msg, k.Hint):
		return core.ActionHint
	case key.Matches(msg, k.Replay):
		return core.ActionRestart
	case key.Matches(msg, k.Next):
		return core.ActionNext
	}
	return core.ActionNone
}

// sceneHelp narrows the help footer to the keys of one scene kind.
type sceneHelp struct {
	keys KeyMap
	kind scene.Kind
	done bool // level finished: show replay and next instead of scene keys
}

// ShortHelp implements help.KeyMap.
func (h sceneHelp) ShortHelp() []key.Binding {
	k := h.keys
	if h.done {
		return []key.Binding{k.Next, k.Replay, k.Back, k.Quit}
	}
	switch h.kind {
	case scene.KindFactorial:
		return []key.Binding{k.Down, k.Left, k.Right, k.Jump, k.Hint, k.Help}
	case scene.KindFibonacci:
		return []key.Binding{k.Left, k.Right, k.Collect, k.Hint, k.Help}
	case scene.KindBubbleSort:
		return []key.Binding{k.Left, k.Right, k.Swap, k.Verify, k.Hint, k.Help}
	}
	return []key.Binding{k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (h sceneHelp) FullHelp() [][]key.Binding {
	k := h.keys
	return [][]key.Binding{
		h.ShortHelp(),
		{k.Replay, k.Next, k.Back, k.Quit},
	}
}

// MenuKeyMap holds the level list bindings.
type MenuKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	History key.Binding
	Quit    key.Binding
}

// DefaultMenuKeyMap returns the default level list bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		History: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.History, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

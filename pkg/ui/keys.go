package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Selection
	Activate     key.Binding
	ExtendRange  key.Binding
	ToggleSelect key.Binding
	Clear        key.Binding

	// Folders
	ExpandAll   key.Binding
	CollapseAll key.Binding

	// Drag and drop
	Grab     key.Binding
	Drop     key.Binding
	NextZone key.Binding
	Cancel   key.Binding

	// Commands
	Copy        key.Binding
	Save        key.Binding
	FolderOrder key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),

		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select/toggle"),
		),
		ExtendRange: key.NewBinding(
			key.WithKeys("shift+down", "shift+up", "V"),
			key.WithHelp("V", "extend range"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys("v", "ctrl+@"),
			key.WithHelp("v", "toggle in selection"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear selection"),
		),

		ExpandAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "collapse all"),
		),

		Grab: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "grab for move"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter", "p"),
			key.WithHelp("enter/p", "drop"),
		),
		NextZone: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "inside/before/after"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy ids"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		FolderOrder: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "folders on top"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.ToggleSelect, k.ExtendRange, k.Grab, k.Copy, k.Help, k.Quit}
}

// DragHelp returns the bindings shown while a keyboard drag is active.
func (k KeyMap) DragHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextZone, k.Drop, k.Cancel}
}

// FullHelp returns the grouped bindings shown in the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Activate, k.ExtendRange, k.ToggleSelect, k.Clear, k.ExpandAll, k.CollapseAll},
		{k.Grab, k.NextZone, k.Drop, k.Cancel},
		{k.Copy, k.Save, k.FolderOrder, k.Help, k.Quit},
	}
}

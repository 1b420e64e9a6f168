package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the app
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Home           key.Binding
	End            key.Binding
	Tab            key.Binding
	ShiftTab       key.Binding
	Toggle         key.Binding // Put the product on the list or take it off
	Enter          key.Binding
	Search         key.Binding // Focus the search box
	ShowAll        key.Binding // Show the whole catalog instead of the list
	Collapse       key.Binding // Collapse or expand the current category
	CollapseRecent key.Binding // Collapse or expand "Recently Used"
	AddProduct     key.Binding // Open the new-product dialog
	Storage        key.Binding // Show where custom products are stored
	Layout         key.Binding // Switch between grid and list
	Refresh        key.Binding
	Help           key.Binding
	Quit           key.Binding
	Escape         key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "last"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "add/remove"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all products"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse category"),
		),
		CollapseRecent: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "collapse recent"),
		),
		AddProduct: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new product"),
		),
		Storage: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "storage"),
		),
		Layout: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "grid/list"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "ctrl+r"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns keybindings to show in short help
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Search, k.ShowAll, k.AddProduct, k.Help, k.Quit}
}

// FullHelp returns all keybindings for full help
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End},
		{k.Toggle, k.Search, k.ShowAll, k.AddProduct},
		{k.Collapse, k.CollapseRecent, k.Layout, k.Storage},
		{k.Refresh, k.Help, k.Escape, k.Quit},
	}
}

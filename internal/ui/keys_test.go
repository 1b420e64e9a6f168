package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	// Test all key bindings are defined
	bindings := []struct {
		name    string
		binding key.Binding
	}{
		{"Up", km.Up},
		{"Down", km.Down},
		{"Left", km.Left},
		{"Right", km.Right},
		{"Home", km.Home},
		{"End", km.End},
		{"Tab", km.Tab},
		{"ShiftTab", km.ShiftTab},
		{"Toggle", km.Toggle},
		{"Enter", km.Enter},
		{"Search", km.Search},
		{"ShowAll", km.ShowAll},
		{"Collapse", km.Collapse},
		{"CollapseRecent", km.CollapseRecent},
		{"AddProduct", km.AddProduct},
		{"Storage", km.Storage},
		{"Layout", km.Layout},
		{"Refresh", km.Refresh},
		{"Help", km.Help},
		{"Quit", km.Quit},
		{"Escape", km.Escape},
	}

	for _, b := range bindings {
		if len(b.binding.Keys()) == 0 {
			t.Errorf("%s binding should have keys", b.name)
		}
		if b.binding.Help().Key == "" {
			t.Errorf("%s binding should have help key", b.name)
		}
		if b.binding.Help().Desc == "" {
			t.Errorf("%s binding should have help description", b.name)
		}
	}
}

func TestKeyMap_NoDuplicateLetters(t *testing.T) {
	km := DefaultKeyMap()
	commands := map[string]key.Binding{
		"Search":         km.Search,
		"ShowAll":        km.ShowAll,
		"Collapse":       km.Collapse,
		"CollapseRecent": km.CollapseRecent,
		"AddProduct":     km.AddProduct,
		"Storage":        km.Storage,
		"Layout":         km.Layout,
		"Refresh":        km.Refresh,
		"Help":           km.Help,
		"Quit":           km.Quit,
		"Up":             km.Up,
		"Down":           km.Down,
		"Left":           km.Left,
		"Right":          km.Right,
		"Home":           km.Home,
		"End":            km.End,
	}

	seen := make(map[string]string)
	for name, b := range commands {
		for _, k := range b.Keys() {
			if other, dup := seen[k]; dup {
				t.Errorf("key %q bound to both %s and %s", k, other, name)
			}
			seen[k] = name
		}
	}
}

func TestToggleMatchesSpaceAndEnter(t *testing.T) {
	km := DefaultKeyMap()

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	if !key.Matches(space, km.Toggle) {
		t.Error("Toggle should match space")
	}
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	if !key.Matches(enter, km.Toggle) {
		t.Error("Toggle should match enter")
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp should return bindings")
	}
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()
	groups := km.FullHelp()
	if len(groups) == 0 {
		t.Fatal("FullHelp should return groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Errorf("FullHelp group %d is empty", i)
		}
	}
}

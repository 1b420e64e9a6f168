package components

import (
	"strings"

	"shoplist/internal/suggestions"
	"shoplist/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

// SuggestionList is the dropdown shown under the search input
type SuggestionList struct {
	Suggestions []suggestions.Suggestion
	Cursor      int
	Width       int
	Visible     bool
}

// NewSuggestionList creates a new suggestion list
func NewSuggestionList() *SuggestionList {
	return &SuggestionList{
		Width:   80,
		Visible: true,
	}
}

// SetSuggestions replaces the suggestions and resets the selection
func (s *SuggestionList) SetSuggestions(list []suggestions.Suggestion) {
	s.Suggestions = list
	s.Cursor = 0
}

// Clear removes all suggestions
func (s *SuggestionList) Clear() {
	s.SetSuggestions(nil)
}

// SetWidth sets the width of the dropdown
func (s *SuggestionList) SetWidth(width int) {
	s.Width = width
}

// Show shows the dropdown
func (s *SuggestionList) Show() {
	s.Visible = true
}

// Hide hides the dropdown
func (s *SuggestionList) Hide() {
	s.Visible = false
}

// IsVisible returns whether the dropdown has something to show
func (s *SuggestionList) IsVisible() bool {
	return s.Visible && len(s.Suggestions) > 0
}

// MoveUp selects the previous suggestion
func (s *SuggestionList) MoveUp() {
	if s.Cursor > 0 {
		s.Cursor--
	}
}

// MoveDown selects the next suggestion
func (s *SuggestionList) MoveDown() {
	if s.Cursor < len(s.Suggestions)-1 {
		s.Cursor++
	}
}

// Current returns the selected suggestion
func (s *SuggestionList) Current() *suggestions.Suggestion {
	if len(s.Suggestions) > 0 && s.Cursor < len(s.Suggestions) {
		return &s.Suggestions[s.Cursor]
	}
	return nil
}

// View renders the dropdown
func (s *SuggestionList) View() string {
	if !s.IsVisible() {
		return ""
	}

	rows := make([]string, 0, len(s.Suggestions))
	for i := range s.Suggestions {
		rows = append(rows, s.renderRow(&s.Suggestions[i], i == s.Cursor))
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.Primary).
		Padding(0, 1).
		Width(max(10, s.Width-2))

	return style.Render(strings.Join(rows, "\n"))
}

func (s *SuggestionList) renderRow(sg *suggestions.Suggestion, selected bool) string {
	var b strings.Builder

	if sg.IsAddNew() {
		b.WriteString(ui.HelpKeyStyle.Render("+"))
	} else {
		b.WriteString(ui.MutedStyle.Render("•"))
	}
	b.WriteString(" ")
	b.WriteString(truncate(sg.Label(), max(10, s.Width-30)))

	if sg.Category != "" {
		b.WriteString("  ")
		b.WriteString(ui.MutedStyle.Render(sg.Category))
	}

	if selected {
		return ui.SelectedItemStyle.Render(b.String())
	}
	return " " + b.String()
}

// CompactView renders only the selected suggestion
func (s *SuggestionList) CompactView() string {
	current := s.Current()
	if !s.IsVisible() || current == nil {
		return ""
	}
	return ui.MutedStyle.Render("→ " + truncate(current.Label(), max(10, s.Width-4)))
}

// Height returns the height of the dropdown
func (s *SuggestionList) Height() int {
	if !s.IsVisible() {
		return 0
	}
	return len(s.Suggestions) + 2 // Border top + rows + border bottom
}

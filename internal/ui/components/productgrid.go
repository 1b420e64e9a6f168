package components

import (
	"fmt"
	"strings"

	"shoplist/internal/models"
	"shoplist/internal/ui"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// CardWidth is the outer width of a product card in grid layout
const CardWidth = 24

// RecentSectionKey identifies the "Recently Used" section
const RecentSectionKey = "__recent__"

// Card is a product shown in a section
type Card struct {
	Product  models.Product
	Category string
	OnList   bool
}

// Section is a titled group of cards (a category or the recent items)
type Section struct {
	Key       string
	Title     string
	Cards     []Card
	Collapsed bool
}

// IsRecent reports whether this is the recent items section
func (s *Section) IsRecent() bool {
	return s.Key == RecentSectionKey
}

// Entry is a focusable position in the grid. Card is -1 for a section header.
type Entry struct {
	Section int
	Card    int
}

// IsHeader reports whether the entry points at a section header
func (e Entry) IsHeader() bool {
	return e.Card < 0
}

// ProductGrid renders sections of product cards as a grid or a list
type ProductGrid struct {
	Sections []Section
	Cursor   int
	Width    int
	Height   int
	Columns  int  // 0 = fit to width
	List     bool // One product per line
	Focused  bool
	Title    string
	Empty    string
}

// NewProductGrid creates a new product grid
func NewProductGrid() *ProductGrid {
	return &ProductGrid{
		Cursor:  0,
		Width:   80,
		Height:  20,
		Focused: true,
		Title:   "Shopping List",
		Empty:   "Nothing on the list yet",
	}
}

// SetSections replaces the sections, keeping the cursor on the same
// product or header when it still exists
func (g *ProductGrid) SetSections(sections []Section) {
	key, name := g.cursorIdentity()
	g.Sections = sections

	if key != "" {
		for i, e := range g.entries() {
			s := &g.Sections[e.Section]
			if s.Key != key {
				continue
			}
			if e.IsHeader() && name == "" {
				g.Cursor = i
				return
			}
			if !e.IsHeader() && s.Cards[e.Card].Product.Matches(name) {
				g.Cursor = i
				return
			}
		}
	}

	if n := len(g.entries()); g.Cursor >= n {
		g.Cursor = max(0, n-1)
	}
}

func (g *ProductGrid) cursorIdentity() (string, string) {
	e, ok := g.CurrentEntry()
	if !ok {
		return "", ""
	}
	s := g.Sections[e.Section]
	if e.IsHeader() {
		return s.Key, ""
	}
	return s.Key, s.Cards[e.Card].Product.Name
}

// ColumnCount returns the number of cards per row
func (g *ProductGrid) ColumnCount() int {
	if g.List {
		return 1
	}
	if g.Columns > 0 {
		return g.Columns
	}
	return max(1, (g.Width-2)/(CardWidth+1))
}

// entries returns all focusable positions in display order
func (g *ProductGrid) entries() []Entry {
	var out []Entry
	for si, s := range g.Sections {
		out = append(out, Entry{Section: si, Card: -1})
		if s.Collapsed {
			continue
		}
		for ci := range s.Cards {
			out = append(out, Entry{Section: si, Card: ci})
		}
	}
	return out
}

func (g *ProductGrid) indexOf(target Entry) int {
	for i, e := range g.entries() {
		if e == target {
			return i
		}
	}
	return g.Cursor
}

// MoveLeft moves the cursor to the previous entry
func (g *ProductGrid) MoveLeft() {
	if g.Cursor > 0 {
		g.Cursor--
	}
}

// MoveRight moves the cursor to the next entry
func (g *ProductGrid) MoveRight() {
	if g.Cursor < len(g.entries())-1 {
		g.Cursor++
	}
}

// MoveUp moves the cursor one row up
func (g *ProductGrid) MoveUp() {
	e, ok := g.CurrentEntry()
	if !ok {
		return
	}
	cols := g.ColumnCount()
	switch {
	case e.IsHeader():
		g.MoveLeft()
	case e.Card-cols >= 0:
		g.Cursor = g.indexOf(Entry{Section: e.Section, Card: e.Card - cols})
	default:
		g.Cursor = g.indexOf(Entry{Section: e.Section, Card: -1})
	}
}

// MoveDown moves the cursor one row down
func (g *ProductGrid) MoveDown() {
	e, ok := g.CurrentEntry()
	if !ok {
		return
	}
	if e.IsHeader() {
		g.MoveRight()
		return
	}

	cards := len(g.Sections[e.Section].Cards)
	cols := g.ColumnCount()
	if e.Card+cols < cards {
		g.Cursor = g.indexOf(Entry{Section: e.Section, Card: e.Card + cols})
		return
	}
	// Jump to the next section header
	if e.Section+1 < len(g.Sections) {
		g.Cursor = g.indexOf(Entry{Section: e.Section + 1, Card: -1})
		return
	}
	// Last row of the last section: move to the final card
	g.Cursor = g.indexOf(Entry{Section: e.Section, Card: cards - 1})
}

// GoToFirst moves cursor to the first entry
func (g *ProductGrid) GoToFirst() {
	g.Cursor = 0
}

// GoToLast moves cursor to the last entry
func (g *ProductGrid) GoToLast() {
	if n := len(g.entries()); n > 0 {
		g.Cursor = n - 1
	}
}

// NextSection moves the cursor to the next section header
func (g *ProductGrid) NextSection() {
	e, ok := g.CurrentEntry()
	if !ok || e.Section+1 >= len(g.Sections) {
		return
	}
	g.Cursor = g.indexOf(Entry{Section: e.Section + 1, Card: -1})
}

// PrevSection moves the cursor to the previous section header
func (g *ProductGrid) PrevSection() {
	e, ok := g.CurrentEntry()
	if !ok {
		return
	}
	target := e.Section - 1
	if !e.IsHeader() {
		target = e.Section
	}
	if target < 0 {
		return
	}
	g.Cursor = g.indexOf(Entry{Section: target, Card: -1})
}

// CurrentEntry returns the entry under the cursor
func (g *ProductGrid) CurrentEntry() (Entry, bool) {
	entries := g.entries()
	if len(entries) == 0 || g.Cursor < 0 || g.Cursor >= len(entries) {
		return Entry{}, false
	}
	return entries[g.Cursor], true
}

// Current returns the card under the cursor, nil on a header
func (g *ProductGrid) Current() *Card {
	e, ok := g.CurrentEntry()
	if !ok || e.IsHeader() {
		return nil
	}
	return &g.Sections[e.Section].Cards[e.Card]
}

// CurrentSection returns the section the cursor is in
func (g *ProductGrid) CurrentSection() *Section {
	e, ok := g.CurrentEntry()
	if !ok {
		return nil
	}
	return &g.Sections[e.Section]
}

// CardCount returns the number of cards across all sections
func (g *ProductGrid) CardCount() int {
	n := 0
	for _, s := range g.Sections {
		n += len(s.Cards)
	}
	return n
}

// View renders the grid
func (g *ProductGrid) View() string {
	var b strings.Builder

	title := g.Title
	if n := g.CardCount(); n > 0 {
		title = fmt.Sprintf("%s (%d)", g.Title, n)
	}
	b.WriteString(ui.CategoryStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, g.Width-2))))
	b.WriteString("\n")

	if len(g.Sections) == 0 {
		b.WriteString(ui.MutedStyle.Render(g.Empty))
		return b.String()
	}

	lines, cursorLine := g.renderLines()

	// Calculate visible range
	visibleHeight := g.Height - 2
	if visibleHeight < 1 {
		visibleHeight = len(lines)
	}
	start := 0
	if cursorLine >= visibleHeight {
		start = cursorLine - visibleHeight + 1
	}
	end := min(start+visibleHeight, len(lines))

	if start > 0 {
		lines[start] = ui.MutedStyle.Render("  ↑ more")
	}
	if end < len(lines) && end-1 > start {
		lines[end-1] = ui.MutedStyle.Render("  ↓ more")
	}

	b.WriteString(strings.Join(lines[start:end], "\n"))
	return b.String()
}

// renderLines renders every section and reports the first line of the
// entry under the cursor
func (g *ProductGrid) renderLines() ([]string, int) {
	current, _ := g.CurrentEntry()
	cursorLine := 0
	var lines []string

	for si := range g.Sections {
		s := &g.Sections[si]
		if si > 0 {
			lines = append(lines, "")
		}

		if current.Section == si && current.IsHeader() {
			cursorLine = len(lines)
		}
		lines = append(lines, g.renderHeader(s, current == Entry{Section: si, Card: -1}))

		if s.Collapsed {
			continue
		}

		cols := g.ColumnCount()
		for row := 0; row*cols < len(s.Cards); row++ {
			first := row * cols
			last := min(first+cols, len(s.Cards))
			if current.Section == si && current.Card >= first && current.Card < last {
				cursorLine = len(lines)
			}

			if g.List {
				lines = append(lines, g.renderListItem(s, first, current.Section == si && current.Card == first))
				continue
			}

			cards := make([]string, 0, last-first)
			for ci := first; ci < last; ci++ {
				cards = append(cards, g.renderCard(s, ci, current.Section == si && current.Card == ci))
			}
			row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
			lines = append(lines, strings.Split(row, "\n")...)
		}
	}
	return lines, cursorLine
}

func (g *ProductGrid) renderHeader(s *Section, selected bool) string {
	arrow := "▾"
	if s.Collapsed {
		arrow = "▸"
	}
	text := fmt.Sprintf("%s %s (%d)", arrow, s.Title, len(s.Cards))

	switch {
	case selected && g.Focused:
		return ui.SelectedItemStyle.Render(text)
	case s.IsRecent():
		return ui.RecentTitleStyle.Render(text)
	default:
		return ui.CategoryStyle.Render(text)
	}
}

func (g *ProductGrid) renderCard(s *Section, i int, selected bool) string {
	card := s.Cards[i]
	mark := " "
	if card.OnList {
		mark = "✓"
	}
	name := truncate(card.Product.Name, CardWidth-6)

	var style lipgloss.Style
	switch {
	case selected && g.Focused:
		style = ui.SelectedCardStyle
	case card.OnList:
		style = ui.OnListCardStyle
	case s.IsRecent():
		style = ui.RecentCardStyle
	default:
		style = ui.CardStyle
	}
	return style.Width(CardWidth - 2).Render(mark + " " + name)
}

func (g *ProductGrid) renderListItem(s *Section, i int, selected bool) string {
	card := s.Cards[i]
	cursor := "  "
	if selected && g.Focused {
		cursor = ui.CursorStyle.Render("▸ ")
	}
	mark := ui.MutedStyle.Render("○")
	if card.OnList {
		mark = ui.CategoryStyle.Render("●")
	}

	line := mark + " " + truncate(card.Product.Name, max(10, g.Width-30))
	if s.IsRecent() && card.Category != "" {
		line += "  " + ui.MutedStyle.Render(card.Category)
	}
	if selected && g.Focused {
		line = ui.SelectedItemStyle.Render(line)
	}
	return cursor + line
}

// truncate shortens s to at most width terminal cells
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

package components

import (
	"strings"
	"testing"

	"shoplist/internal/models"
)

func cards(names ...string) []Card {
	out := make([]Card, len(names))
	for i, n := range names {
		out[i] = Card{Product: models.Product{Name: n}}
	}
	return out
}

func testSections() []Section {
	return []Section{
		{Key: RecentSectionKey, Title: "Recently Used", Cards: cards("🥛 Milk", "🍞 Bread")},
		{Key: "Drinks", Title: "🥤 Drinks", Cards: cards("💧 Water", "☕ Coffee", "🧃 Juice")},
		{Key: "Frozen", Title: "🧊 Frozen", Cards: cards("🍕 Pizza")},
	}
}

func TestNewProductGrid(t *testing.T) {
	g := NewProductGrid()

	if g == nil {
		t.Fatal("NewProductGrid should return a ProductGrid")
	}
	if g.Cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", g.Cursor)
	}
	if !g.Focused {
		t.Error("Expected Focused to be true")
	}
	if g.Current() != nil {
		t.Error("Expected no current card for an empty grid")
	}
}

func TestProductGrid_Entries(t *testing.T) {
	g := NewProductGrid()
	g.SetSections(testSections())

	// 3 headers + 6 cards
	if got := len(g.entries()); got != 9 {
		t.Errorf("Expected 9 entries, got %d", got)
	}

	g.Sections[1].Collapsed = true
	if got := len(g.entries()); got != 6 {
		t.Errorf("Expected 6 entries with Drinks collapsed, got %d", got)
	}
}

func TestProductGrid_MoveLeftRight(t *testing.T) {
	g := NewProductGrid()
	g.SetSections(testSections())

	g.MoveLeft()
	if g.Cursor != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", g.Cursor)
	}

	g.MoveRight()
	if c := g.Current(); c == nil || c.Product.Name != "🥛 Milk" {
		t.Errorf("Expected Milk, got %+v", c)
	}

	g.GoToLast()
	g.MoveRight()
	if c := g.Current(); c == nil || c.Product.Name != "🍕 Pizza" {
		t.Errorf("Expected to stay on Pizza, got %+v", c)
	}
}

func TestProductGrid_MoveDownByRow(t *testing.T) {
	g := NewProductGrid()
	g.Columns = 2
	g.SetSections(testSections())
	g.Cursor = g.indexOf(Entry{Section: 1, Card: 0}) // Water

	g.MoveDown()
	if c := g.Current(); c == nil || c.Product.Name != "🧃 Juice" {
		t.Fatalf("Expected Juice one row below Water, got %+v", c)
	}

	g.MoveDown()
	e, _ := g.CurrentEntry()
	if !e.IsHeader() || e.Section != 2 {
		t.Errorf("Expected Frozen header, got %+v", e)
	}

	g.MoveUp()
	if c := g.Current(); c == nil || c.Product.Name != "🧃 Juice" {
		t.Errorf("Expected MoveUp from a header to go to the previous entry, got %+v", c)
	}

	g.MoveUp()
	if c := g.Current(); c == nil || c.Product.Name != "💧 Water" {
		t.Errorf("Expected Water one row above Juice, got %+v", c)
	}

	g.MoveUp()
	e, _ = g.CurrentEntry()
	if !e.IsHeader() || e.Section != 1 {
		t.Errorf("Expected Drinks header, got %+v", e)
	}
}

func TestProductGrid_ListLayout(t *testing.T) {
	g := NewProductGrid()
	g.List = true
	g.Columns = 4
	g.SetSections(testSections())

	if g.ColumnCount() != 1 {
		t.Errorf("Expected 1 column in list layout, got %d", g.ColumnCount())
	}
}

func TestProductGrid_ColumnCount(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		columns  int
		expected int
	}{
		{"fixed", 200, 3, 3},
		{"auto wide", 2 + 4*(CardWidth+1), 0, 4},
		{"auto narrow", 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewProductGrid()
			g.Width = tt.width
			g.Columns = tt.columns
			if got := g.ColumnCount(); got != tt.expected {
				t.Errorf("ColumnCount() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestProductGrid_Sections(t *testing.T) {
	g := NewProductGrid()
	g.SetSections(testSections())

	g.NextSection()
	if s := g.CurrentSection(); s == nil || s.Key != "Drinks" {
		t.Errorf("Expected Drinks section, got %+v", s)
	}

	g.MoveRight() // Water
	g.PrevSection()
	e, _ := g.CurrentEntry()
	if !e.IsHeader() || e.Section != 1 {
		t.Errorf("Expected PrevSection from a card to go to its header, got %+v", e)
	}

	g.PrevSection()
	if s := g.CurrentSection(); s == nil || !s.IsRecent() {
		t.Errorf("Expected recent section, got %+v", s)
	}
}

func TestProductGrid_SetSectionsKeepsCursor(t *testing.T) {
	g := NewProductGrid()
	g.SetSections(testSections())
	g.Cursor = g.indexOf(Entry{Section: 1, Card: 1}) // Coffee

	sections := testSections()
	sections[0].Collapsed = true
	sections[1].Cards[1].OnList = true
	g.SetSections(sections)

	c := g.Current()
	if c == nil || c.Product.Name != "☕ Coffee" {
		t.Fatalf("Expected cursor to stay on Coffee, got %+v", c)
	}
	if !c.OnList {
		t.Error("Expected the refreshed card")
	}
}

func TestProductGrid_SetSectionsClampsCursor(t *testing.T) {
	g := NewProductGrid()
	g.SetSections(testSections())
	g.GoToLast()

	g.SetSections(testSections()[:1])

	if g.Cursor != 2 {
		t.Errorf("Expected cursor clamped to 2, got %d", g.Cursor)
	}
}

func TestProductGrid_View(t *testing.T) {
	g := NewProductGrid()
	g.Width = 100
	g.Height = 40

	if !strings.Contains(g.View(), g.Empty) {
		t.Error("Expected empty text for a grid without sections")
	}

	sections := testSections()
	sections[1].Cards[0].OnList = true
	sections[2].Collapsed = true
	g.SetSections(sections)

	view := g.View()
	for _, want := range []string{"Recently Used", "Drinks", "Water", "✓", "▸ 🧊 Frozen (1)"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
	if strings.Contains(view, "Pizza") {
		t.Error("Collapsed section should not render its cards")
	}
}

func TestProductGrid_ListView(t *testing.T) {
	g := NewProductGrid()
	g.List = true
	g.Width = 80
	g.Height = 40
	sections := testSections()
	sections[0].Cards[0].Category = "Fridge"
	g.SetSections(sections)

	view := g.View()
	if !strings.Contains(view, "Fridge") {
		t.Error("Expected recent items to show their category in list layout")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("🥛 Milk", 20); got != "🥛 Milk" {
		t.Errorf("Expected short text unchanged, got %q", got)
	}
	if got := truncate("Very long product name", 8); !strings.HasSuffix(got, "…") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
	if got := truncate("x", 0); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

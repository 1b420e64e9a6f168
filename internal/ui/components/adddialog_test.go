package components

import (
	"strings"
	"testing"

	"shoplist/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

var dialogCategories = []string{"Drinks", "Frozen", models.OtherCategory}

func TestNewAddDialog(t *testing.T) {
	d := NewAddDialog()

	if d.IsVisible() {
		t.Error("Dialog should start hidden")
	}
	if d.View() != "" {
		t.Error("Hidden dialog should render nothing")
	}
}

func TestAddDialog_ShowPrefills(t *testing.T) {
	d := NewAddDialog()
	d.Show("  Dragon fruit ", dialogCategories)

	if !d.IsVisible() {
		t.Fatal("Expected dialog to be visible")
	}
	if d.Field != FieldName {
		t.Errorf("Expected name field focused, got %d", d.Field)
	}
	in := d.Input()
	if in.Name != "Dragon fruit" {
		t.Errorf("Expected prefilled name, got %q", in.Name)
	}
	if in.Category != models.OtherCategory {
		t.Errorf("Expected default category Other, got %q", in.Category)
	}
}

func TestAddDialog_FieldNavigation(t *testing.T) {
	d := NewAddDialog()
	d.Show("", dialogCategories)

	d.PrevField()
	if d.Field != FieldCancel {
		t.Errorf("Expected PrevField to wrap to Cancel, got %d", d.Field)
	}
	if d.EditingText() {
		t.Error("Cancel is not a text field")
	}

	d.NextField()
	d.NextField()
	if d.Field != FieldCategory {
		t.Errorf("Expected Category, got %d", d.Field)
	}
}

func TestAddDialog_Category(t *testing.T) {
	d := NewAddDialog()
	d.Show("", dialogCategories)

	d.NextCategory()
	if d.Category() != models.OtherCategory {
		t.Errorf("Expected to stay on the last category, got %s", d.Category())
	}

	d.PrevCategory()
	d.PrevCategory()
	d.PrevCategory()
	if d.Category() != "Drinks" {
		t.Errorf("Expected Drinks, got %s", d.Category())
	}
}

func TestAddDialog_TypingUpdatesFocusedField(t *testing.T) {
	d := NewAddDialog()
	d.Show("", dialogCategories)

	d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Kiwi")})
	d.NextField() // Category
	d.NextField() // Icon
	d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("mdi:fruit-kiwi")})

	in := d.Input()
	if in.Name != "Kiwi" {
		t.Errorf("Expected name Kiwi, got %q", in.Name)
	}
	if in.Icon != "mdi:fruit-kiwi" {
		t.Errorf("Expected icon, got %q", in.Icon)
	}
	if in.Image != "" {
		t.Errorf("Expected empty image, got %q", in.Image)
	}
}

func TestAddDialog_SubmitRequiresName(t *testing.T) {
	d := NewAddDialog()
	d.Show("   ", dialogCategories)
	d.NextField()

	if _, _, ok := d.Submit(); ok {
		t.Fatal("Expected submit to fail without a name")
	}
	if !d.NameInvalid {
		t.Error("Expected name to be marked invalid")
	}
	if d.Field != FieldName {
		t.Error("Expected focus back on the name field")
	}
	if !strings.Contains(d.View(), "please enter a product name") {
		t.Error("Expected the inline cue in the view")
	}

	d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	if d.NameInvalid {
		t.Error("Typing a name should clear the cue")
	}

	in, _, ok := d.Submit()
	if !ok || in.Name != "X" {
		t.Errorf("Expected successful submit, got %+v %v", in, ok)
	}
}

func TestAddDialog_Hide(t *testing.T) {
	d := NewAddDialog()
	d.Show("x", dialogCategories)
	d.Hide()

	if d.IsVisible() {
		t.Error("Expected dialog hidden")
	}
}

package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shoplist/internal/models"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltin(t *testing.T) {
	def := Builtin()

	products := def.Products()
	if len(products) != 10 {
		t.Fatalf("Expected 10 built-in categories, got %d", len(products))
	}

	order := def.Order(products)
	if order[0] != "Fruit & Vegetables" {
		t.Errorf("Expected first category 'Fruit & Vegetables', got %s", order[0])
	}
	if order[len(order)-1] != "Personal Care" {
		t.Errorf("Expected last category 'Personal Care', got %s", order[len(order)-1])
	}

	if _, _, ok := products.Find("🥛 Milk", order); !ok {
		t.Error("Expected Milk in the built-in catalog")
	}
}

func TestBuiltin_ProductsIsACopy(t *testing.T) {
	p := Builtin().Products()
	p["Drinks"][0].Name = "mutated"
	delete(p, "Frozen")

	again := Builtin().Products()
	if again["Drinks"][0].Name != "💧 Water" {
		t.Error("Products() should return an independent copy")
	}
	if _, ok := again["Frozen"]; !ok {
		t.Error("Deleting from a copy should not affect the built-in catalog")
	}
}

func TestBuiltin_KeepsDuplicateEntries(t *testing.T) {
	care := Builtin().Products()["Personal Care"]
	count := 0
	for _, p := range care {
		if p.Name == "☀️ Sunscreen" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Expected duplicated Sunscreen to be kept, found %d", count)
	}
}

func TestMerge_NewCategoryKeepsCustomOrder(t *testing.T) {
	custom := models.Catalog{
		"Pets": {
			{Name: "🐶 Dog Food", Icon: "mdi:dog"},
			{Name: "🐱 Cat Litter", Icon: "mdi:cat"},
		},
	}

	merged := Builtin().Merge(custom)

	if diff := cmp.Diff(custom["Pets"], merged["Pets"]); diff != "" {
		t.Errorf("Pets mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_DuplicateNameKeepsBoth(t *testing.T) {
	base := models.Catalog{
		"Drinks": {{Name: "☕ Coffee", Icon: "mdi:coffee"}},
	}
	custom := models.Catalog{
		"Drinks": {{Name: "☕ coffee", Icon: "mdi:coffee-outline"}},
	}

	merged := Merge(base, custom)

	want := []models.Product{
		{Name: "☕ Coffee", Icon: "mdi:coffee"},
		{Name: "☕ coffee", Icon: "mdi:coffee-outline"},
	}
	if diff := cmp.Diff(want, merged["Drinks"]); diff != "" {
		t.Errorf("Drinks mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := models.Catalog{"Drinks": {{Name: "💧 Water"}}}
	custom := models.Catalog{"Drinks": {{Name: "🥥 Coconut Water"}}}

	_ = Merge(base, custom)
	_ = Merge(base, custom)

	if len(base["Drinks"]) != 1 {
		t.Errorf("Expected base to stay at 1 product, got %d", len(base["Drinks"]))
	}
	if len(custom["Drinks"]) != 1 {
		t.Errorf("Expected custom to stay at 1 product, got %d", len(custom["Drinks"]))
	}
}

func TestOrder_CustomCategoriesAfterBuiltin(t *testing.T) {
	def := Builtin()
	merged := def.Merge(models.Catalog{
		"Pets":               {{Name: "🐶 Dog Food"}},
		models.OtherCategory: {{Name: "🔋 Batteries"}},
		"Garden":             {{Name: "🌱 Seeds"}},
	})

	order := def.Order(merged)
	tail := order[len(order)-3:]
	want := []string{models.OtherCategory, "Garden", "Pets"}
	if diff := cmp.Diff(want, tail); diff != "" {
		t.Errorf("Order tail mismatch (-want +got):\n%s", diff)
	}
}

func TestEmoji(t *testing.T) {
	def := Builtin()

	tests := []struct {
		category string
		expected string
	}{
		{"Fruit & Vegetables", "🥬"},
		{"Frozen", "🧊"},
		{models.OtherCategory, "📦"},
		{"Unknown Category", "📦"},
	}

	for _, tt := range tests {
		if got := def.Emoji(tt.category); got != tt.expected {
			t.Errorf("Emoji(%s) = %s, want %s", tt.category, got, tt.expected)
		}
	}
}

func TestDialogCategories(t *testing.T) {
	cats := Builtin().DialogCategories()
	if len(cats) != 11 {
		t.Fatalf("Expected 11 dialog categories, got %d", len(cats))
	}
	if cats[len(cats)-1] != models.OtherCategory {
		t.Errorf("Expected last dialog category Other, got %s", cats[len(cats)-1])
	}
}

func TestGroupOnList(t *testing.T) {
	def := Builtin()
	merged := def.Merge(nil)
	order := def.Order(merged)

	g := GroupOnList([]string{"🥛 milk", "🍞 Bread", "Dragon fruit", "🧀 Cheese"}, merged, order)

	if got := len(g.ByCategory["Fridge, Delivery & Eggs"]); got != 2 {
		t.Errorf("Expected 2 fridge items, got %d", got)
	}
	if got := len(g.ByCategory["Bread & Bakery"]); got != 1 {
		t.Errorf("Expected 1 bakery item, got %d", got)
	}
	if diff := cmp.Diff([]string{"Dragon fruit"}, g.Unmatched); diff != "" {
		t.Errorf("Unmatched mismatch (-want +got):\n%s", diff)
	}
	if g.Count() != 4 {
		t.Errorf("Expected count 4, got %d", g.Count())
	}
	// The catalog record is used, not the summary's casing
	if g.ByCategory["Fridge, Delivery & Eggs"][0].Name != "🥛 Milk" {
		t.Errorf("Expected catalog name, got %s", g.ByCategory["Fridge, Delivery & Eggs"][0].Name)
	}
}

func TestLoad_MissingFileUsesBuiltin(t *testing.T) {
	def, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def != Builtin() {
		t.Error("Expected built-in definition for a missing file")
	}
}

func TestLoad_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `categories:
  - name: Hardware
    emoji: "🔧"
    products:
      - { name: "🔩 Screws", icon: "mdi:screw-flat-top" }
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write file error = %v", err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.Emoji("Hardware") != "🔧" {
		t.Errorf("Expected Hardware emoji, got %s", def.Emoji("Hardware"))
	}
	if len(def.Products()["Hardware"]) != 1 {
		t.Error("Expected one Hardware product")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "categories: [unclosed"},
		{"missing name", "categories:\n  - emoji: x\n"},
		{"duplicate", "categories:\n  - name: A\n  - name: A\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestDiff(t *testing.T) {
	local := models.Catalog{"Pets": {{Name: "🐶 Dog Food", Icon: "mdi:dog"}}}
	shared := models.Catalog{"Pets": {{Name: "🐶 Dog Food", Icon: "mdi:dog"}, {Name: "🐱 Cat Litter", Icon: "mdi:cat"}}}

	same := Diff(local, local)
	if !same.Identical {
		t.Error("Expected identical catalogs")
	}

	d := Diff(local, shared)
	if d.Identical {
		t.Fatal("Expected a difference")
	}
	if d.LinesAdded == 0 {
		t.Error("Expected added lines")
	}
	if !strings.Contains(d.String(), "+") || !strings.Contains(d.String(), "Cat Litter") {
		t.Errorf("Expected diff to show the added product, got:\n%s", d.String())
	}
}

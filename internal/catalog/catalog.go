// Package catalog holds the built-in product catalog and the rules for merging
// user-added products into it.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"shoplist/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// defaultEmoji is shown for categories without an emoji
const defaultEmoji = "📦"

// CategoryDefinition is the YAML structure of one category
type CategoryDefinition struct {
	Name     string           `yaml:"name"`
	Emoji    string           `yaml:"emoji"`
	Products []models.Product `yaml:"products"`
}

// File is the root YAML structure
type File struct {
	Categories []CategoryDefinition `yaml:"categories"`
}

// Definition is a parsed base catalog: products plus category order and emoji
type Definition struct {
	products models.Catalog
	order    []string
	emoji    map[string]string
}

var (
	builtinOnce sync.Once
	builtinDef  *Definition
)

// Builtin returns the catalog compiled into the binary
func Builtin() *Definition {
	builtinOnce.Do(func() {
		def, err := Parse(builtinYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: invalid built-in catalog: %v", err))
		}
		builtinDef = def
	})
	return builtinDef
}

// Load reads a catalog definition from a YAML file. An empty path or a
// missing file yields the built-in catalog.
func Load(path string) (*Definition, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Builtin(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse parses a YAML catalog definition
func Parse(data []byte) (*Definition, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	def := &Definition{
		products: make(models.Catalog, len(f.Categories)),
		emoji:    make(map[string]string, len(f.Categories)+1),
	}
	for _, c := range f.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("parse catalog: category without name")
		}
		if _, dup := def.products[name]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate category %q", name)
		}
		def.order = append(def.order, name)
		def.products[name] = append([]models.Product{}, c.Products...)
		if c.Emoji != "" {
			def.emoji[name] = c.Emoji
		}
	}
	if _, ok := def.emoji[models.OtherCategory]; !ok {
		def.emoji[models.OtherCategory] = defaultEmoji
	}
	return def, nil
}

// Products returns a copy of the base catalog
func (d *Definition) Products() models.Catalog {
	return d.products.Clone()
}

// Order returns the display order of categories in c: base categories first,
// then "Other", then any remaining categories alphabetically.
func (d *Definition) Order(c models.Catalog) []string {
	order := make([]string, 0, len(d.order)+1)
	order = append(order, d.order...)
	order = append(order, models.OtherCategory)
	return c.Categories(order)
}

// Emoji returns the emoji for a category
func (d *Definition) Emoji(category string) string {
	if e, ok := d.emoji[category]; ok {
		return e
	}
	return defaultEmoji
}

// DialogCategories returns the categories offered when creating a product
func (d *Definition) DialogCategories() []string {
	out := make([]string, 0, len(d.order)+1)
	out = append(out, d.order...)
	for _, name := range d.order {
		if name == models.OtherCategory {
			return out
		}
	}
	return append(out, models.OtherCategory)
}

// Merge returns the base catalog with custom products appended
func (d *Definition) Merge(custom models.Catalog) models.Catalog {
	return Merge(d.products, custom)
}

// Merge appends each custom category's products after the base products of
// the same category, creating categories the base does not have. Base entries
// are never replaced and duplicates are kept. Neither input is modified.
func Merge(base, custom models.Catalog) models.Catalog {
	all := base.Clone()
	for category, products := range custom {
		merged := make([]models.Product, 0, len(all[category])+len(products))
		merged = append(merged, all[category]...)
		merged = append(merged, products...)
		all[category] = merged
	}
	return all
}

// Grouped is the on-list view of a catalog
type Grouped struct {
	ByCategory map[string][]models.Product
	Unmatched  []string // Summaries not found in the catalog
}

// Count returns the number of grouped items, unmatched included
func (g Grouped) Count() int {
	n := len(g.Unmatched)
	for _, products := range g.ByCategory {
		n += len(products)
	}
	return n
}

// GroupOnList assigns each on-list summary to the first category (in order)
// holding a product with that name.
func GroupOnList(summaries []string, c models.Catalog, order []string) Grouped {
	g := Grouped{ByCategory: make(map[string][]models.Product)}
	for _, summary := range summaries {
		p, category, ok := c.Find(summary, order)
		if !ok {
			g.Unmatched = append(g.Unmatched, summary)
			continue
		}
		g.ByCategory[category] = append(g.ByCategory[category], p)
	}
	return g
}

package models

import (
	"sort"
	"strings"
)

// DefaultIcon is used for products created without an icon
const DefaultIcon = "mdi:cart"

// OtherCategory collects products that fit no named category
const OtherCategory = "Other"

// Product is a single catalog record
type Product struct {
	Name  string `json:"name" yaml:"name"`                       // Emoji + display text, matching key
	Icon  string `json:"icon" yaml:"icon"`                       // Symbolic icon identifier (mdi:*)
	Image string `json:"image,omitempty" yaml:"image,omitempty"` // Optional image URL
}

// Matches reports whether name refers to this product (case-insensitive)
func (p Product) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}

// Catalog maps category name to its ordered products
type Catalog map[string][]Product

// Clone returns a deep copy of the catalog
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for category, products := range c {
		cp := make([]Product, len(products))
		copy(cp, products)
		out[category] = cp
	}
	return out
}

// Len returns the total number of products across all categories
func (c Catalog) Len() int {
	n := 0
	for _, products := range c {
		n += len(products)
	}
	return n
}

// Categories returns category names: those listed in order first (when present),
// then the rest sorted alphabetically.
func (c Catalog) Categories(order []string) []string {
	seen := make(map[string]bool, len(c))
	names := make([]string, 0, len(c))
	for _, name := range order {
		if _, ok := c[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range c {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Find returns the first product matching name, walking categories in order
func (c Catalog) Find(name string, order []string) (Product, string, bool) {
	for _, category := range c.Categories(order) {
		for _, p := range c[category] {
			if p.Matches(name) {
				return p, category, true
			}
		}
	}
	return Product{}, "", false
}

// RecentEntry is a recently used product together with its category
type RecentEntry struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category"`
}

// NewRecentEntry creates a RecentEntry from a product
func NewRecentEntry(p Product, category string) RecentEntry {
	return RecentEntry{
		Name:     p.Name,
		Icon:     p.Icon,
		Image:    p.Image,
		Category: category,
	}
}

// Product returns the product part of the entry
func (r RecentEntry) Product() Product {
	return Product{Name: r.Name, Icon: r.Icon, Image: r.Image}
}

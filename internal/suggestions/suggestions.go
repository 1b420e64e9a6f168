// Package suggestions provides search-as-you-type product suggestions.
package suggestions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"shoplist/internal/models"
)

const (
	// MinQueryLength is the number of characters needed before suggesting
	MinQueryLength = 2
	// MaxMatches caps the catalog matches shown above the "add new" entry
	MaxMatches = 8
)

// SuggestionType represents the type of suggestion
type SuggestionType int

const (
	// TypeProduct is an existing catalog product
	TypeProduct SuggestionType = iota
	// TypeAddNew offers to create the query as a new product
	TypeAddNew
)

// String returns the string representation of the suggestion type
func (t SuggestionType) String() string {
	switch t {
	case TypeProduct:
		return "product"
	case TypeAddNew:
		return "add_new"
	default:
		return "unknown"
	}
}

// Suggestion is one entry of the suggestion dropdown
type Suggestion struct {
	Type     SuggestionType
	Product  models.Product // Zero for TypeAddNew
	Category string         // Empty for TypeAddNew
	Query    string         // The trimmed query that produced it
}

// Icon returns the icon identifier to show next to the suggestion
func (s *Suggestion) Icon() string {
	if s.Type == TypeAddNew {
		return "mdi:plus-circle"
	}
	if s.Product.Icon == "" {
		return models.DefaultIcon
	}
	return s.Product.Icon
}

// Label returns the main text of the suggestion
func (s *Suggestion) Label() string {
	if s.Type == TypeAddNew {
		return fmt.Sprintf("Add %q as new product", s.Query)
	}
	return s.Product.Name
}

// IsAddNew reports whether this is the synthetic "add new" entry
func (s *Suggestion) IsAddNew() bool {
	return s.Type == TypeAddNew
}

// Suggest matches query against product names (case-insensitive substring)
// in category order. At most MaxMatches products are returned, followed by
// the "add new" entry. Queries shorter than MinQueryLength return nil.
func Suggest(query string, catalog models.Catalog, order []string) []Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil
	}

	needle := strings.ToLower(query)
	var out []Suggestion

categories:
	for _, category := range catalog.Categories(order) {
		for _, p := range catalog[category] {
			if !strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
			out = append(out, Suggestion{
				Type:     TypeProduct,
				Product:  p,
				Category: category,
				Query:    query,
			})
			if len(out) == MaxMatches {
				break categories
			}
		}
	}

	return append(out, Suggestion{Type: TypeAddNew, Query: query})
}

// Matches returns only the product suggestions
func Matches(list []Suggestion) []Suggestion {
	var out []Suggestion
	for _, s := range list {
		if s.Type == TypeProduct {
			out = append(out, s)
		}
	}
	return out
}

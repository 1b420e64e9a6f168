package manager

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// DefaultCategory is used for products added without a category
	DefaultCategory = "other"
	// DefaultUnit is used for products added without a unit
	DefaultUnit = "pcs"
)

var (
	// ErrInvariantViolation marks errors where an active entry has no product
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrUnknownProduct is returned when setting a quantity for a missing product
	ErrUnknownProduct = fmt.Errorf("%w: unknown product", ErrInvariantViolation)
	// ErrNegativeQty is returned for quantities below zero
	ErrNegativeQty = errors.New("quantity cannot be negative")
	// ErrKeyRequired is returned when a product has no key
	ErrKeyRequired = errors.New("product key is required")
	// ErrNameRequired is returned when a product has no name
	ErrNameRequired = errors.New("product name is required")
)

// Product is a catalog entry managed by the product manager
type Product struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Image    string `json:"image"`
}

// withDefaults fills the optional fields
func (p Product) withDefaults() Product {
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	return p
}

// ActiveItem is a product on the shopping list
type ActiveItem struct {
	Qty int `json:"qty"`
}

// FullState is the combined view of products and the active list
type FullState struct {
	Products   map[string]Product    `json:"products"`
	ActiveList map[string]ActiveItem `json:"active_list"`
}

// ValidateInvariant checks that every active key refers to a product
func ValidateInvariant(products map[string]Product, active map[string]ActiveItem) error {
	orphans := orphanKeys(products, active)
	if len(orphans) > 0 {
		return fmt.Errorf("%w: active items without product: %v", ErrInvariantViolation, orphans)
	}
	return nil
}

func orphanKeys(products map[string]Product, active map[string]ActiveItem) []string {
	var orphans []string
	for key := range active {
		if _, ok := products[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	return orphans
}

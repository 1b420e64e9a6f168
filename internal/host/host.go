// Package host defines the contract with the system that owns the to-do list.
package host

import (
	"context"
	"errors"

	"shoplist/internal/models"
)

// ErrEntityNotFound is returned when the configured to-do entity does not exist
var ErrEntityNotFound = errors.New("entity not found")

// Host owns the to-do list entity. Implementations must be safe for
// concurrent use.
type Host interface {
	// EntityState returns the entity's current state or ErrEntityNotFound
	EntityState(ctx context.Context, entityID string) (models.EntityState, error)
	// ListItems returns every item on the list, completed ones included
	ListItems(ctx context.Context, entityID string) ([]models.TodoItem, error)
	AddItem(ctx context.Context, entityID, summary string) error
	// RemoveItem removes the item with the given summary
	RemoveItem(ctx context.Context, entityID, summary string) error
	// Watch delivers the entity state each time it changes. The channel is
	// closed when ctx is done or the host connection ends.
	Watch(ctx context.Context, entityID string) (<-chan models.EntityState, error)
}

// OnListSummaries returns the summaries of items still to buy
func OnListSummaries(ctx context.Context, h Host, entityID string) ([]string, error) {
	items, err := h.ListItems(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return models.NeedsAction(items), nil
}

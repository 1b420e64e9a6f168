package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shoplist/internal/host"
	"shoplist/internal/models"

	"go.uber.org/zap"
)

var _ host.Host = (*Client)(nil)

// EntityState looks the entity up in the full state list
func (c *Client) EntityState(ctx context.Context, entityID string) (models.EntityState, error) {
	raw, err := c.Call(ctx, map[string]any{"type": "get_states"})
	if err != nil {
		return models.EntityState{}, fmt.Errorf("get states: %w", err)
	}

	var states []models.EntityState
	if err := json.Unmarshal(raw, &states); err != nil {
		return models.EntityState{}, fmt.Errorf("decode states: %w", err)
	}
	for _, s := range states {
		if s.EntityID == entityID {
			return s, nil
		}
	}
	return models.EntityState{}, fmt.Errorf("%s: %w", entityID, host.ErrEntityNotFound)
}

// ListItems returns the items of a to-do entity
func (c *Client) ListItems(ctx context.Context, entityID string) ([]models.TodoItem, error) {
	raw, err := c.Call(ctx, map[string]any{
		"type":      "todo/item/list",
		"entity_id": entityID,
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	var res struct {
		Items []models.TodoItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return res.Items, nil
}

func (c *Client) AddItem(ctx context.Context, entityID, summary string) error {
	return c.CallService(ctx, "todo", "add_item", map[string]any{
		"entity_id": entityID,
		"item":      summary,
	})
}

func (c *Client) RemoveItem(ctx context.Context, entityID, summary string) error {
	return c.CallService(ctx, "todo", "remove_item", map[string]any{
		"entity_id": entityID,
		"item":      summary,
	})
}

type stateChangedEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string              `json:"entity_id"`
		NewState *models.EntityState `json:"new_state"`
	} `json:"data"`
}

// Watch subscribes to state_changed events for entityID
func (c *Client) Watch(ctx context.Context, entityID string) (<-chan models.EntityState, error) {
	sub, events, err := c.Subscribe(ctx, map[string]any{
		"type":       "subscribe_events",
		"event_type": "state_changed",
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to state changes: %w", err)
	}

	out := make(chan models.EntityState, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				if err := c.Unsubscribe(uctx, sub); err != nil {
					c.log.Debug("unsubscribe failed", zap.Error(err))
				}
				cancel()
				return

			case raw, ok := <-events:
				if !ok {
					return
				}
				var ev stateChangedEvent
				if err := json.Unmarshal(raw, &ev); err != nil {
					c.log.Warn("malformed state_changed event", zap.Error(err))
					continue
				}
				if ev.Data.EntityID != entityID || ev.Data.NewState == nil {
					continue
				}
				select {
				case out <- *ev.Data.NewState:
				case <-ctx.Done():
				}
			}
		}
	}()
	return out, nil
}

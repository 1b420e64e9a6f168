package manager

import (
	"context"
	"testing"
	"time"

	"shoplist/internal/host"
	"shoplist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entity = "todo.shopping_list"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"🥛 Milk", "milk"},
		{"Cookies/Biscuits", "cookies-biscuits"},
		{"  Soda/L&P ", "soda-l-p"},
		{"🥛", "item"},
		{"Eggs 12", "eggs-12"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestItemUID_Stable(t *testing.T) {
	assert.Equal(t, ItemUID("milk"), ItemUID("milk"))
	assert.NotEqual(t, ItemUID("milk"), ItemUID("bread"))
	assert.Len(t, ItemUID("milk"), 36)
}

func TestTodoHost_AddListRemove(t *testing.T) {
	m, _ := newManager(t)
	h := NewTodoHost(m, entity)
	ctx := context.Background()

	require.NoError(t, h.AddItem(ctx, entity, "🥛 Milk"))
	require.NoError(t, h.AddItem(ctx, entity, "🍞 Bread"))
	require.NoError(t, h.AddItem(ctx, entity, "🥛 milk"), "adding a listed item again is a no-op")

	summaries, err := host.OnListSummaries(ctx, h, entity)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"🥛 Milk", "🍞 Bread"}, summaries)

	items, err := h.ListItems(ctx, entity)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, models.StatusNeedsAction, it.Status)
		assert.NotEmpty(t, it.UID)
	}

	require.NoError(t, h.RemoveItem(ctx, entity, "🥛 MILK"))
	summaries, err = host.OnListSummaries(ctx, h, entity)
	require.NoError(t, err)
	assert.Equal(t, []string{"🍞 Bread"}, summaries)

	// The product stays in the catalog after removal
	_, ok := m.Product("milk")
	assert.True(t, ok)

	assert.Error(t, h.RemoveItem(ctx, entity, "🥛 Milk"))
}

func TestTodoHost_KeyCollision(t *testing.T) {
	m, _ := newManager(t)
	h := NewTodoHost(m, entity)
	ctx := context.Background()

	require.NoError(t, h.AddItem(ctx, entity, "🥛 Milk"))
	require.NoError(t, h.AddItem(ctx, entity, "Milk"))

	assert.Len(t, m.Products(), 2)
	_, ok := m.Product("milk-2")
	assert.True(t, ok)
}

func TestTodoHost_UnknownEntity(t *testing.T) {
	m, _ := newManager(t)
	h := NewTodoHost(m, entity)
	ctx := context.Background()

	_, err := h.EntityState(ctx, "todo.other")
	assert.ErrorIs(t, err, host.ErrEntityNotFound)
	_, err = h.ListItems(ctx, "todo.other")
	assert.ErrorIs(t, err, host.ErrEntityNotFound)
	_, err = h.Watch(ctx, "todo.other")
	assert.ErrorIs(t, err, host.ErrEntityNotFound)
}

func TestTodoHost_EntityStateAndWatch(t *testing.T) {
	m, _ := newManager(t)
	h := NewTodoHost(m, entity)
	ctx, cancel := context.WithCancel(context.Background())

	states, err := h.Watch(ctx, entity)
	require.NoError(t, err)

	require.NoError(t, h.AddItem(context.Background(), entity, "🧀 Cheese"))

	select {
	case s := <-states:
		assert.Equal(t, entity, s.EntityID)
	case <-time.After(time.Second):
		t.Fatal("Expected a state update")
	}

	s, err := h.EntityState(context.Background(), entity)
	require.NoError(t, err)
	assert.Equal(t, "1", s.State)
	assert.False(t, s.LastUpdated.IsZero())

	cancel()
	for range states {
	}
}

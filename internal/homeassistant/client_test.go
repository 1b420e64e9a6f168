package homeassistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shoplist/internal/host"
	"shoplist/internal/models"
	"shoplist/internal/sharedfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dial(t *testing.T, f *fakeHA) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, f.URL(), testToken, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDial_InvalidToken(t *testing.T) {
	f := newFakeHA(t)

	_, err := Dial(context.Background(), f.URL(), "wrong", nil)
	assert.ErrorIs(t, err, ErrAuthInvalid)
}

func TestDial_BadScheme(t *testing.T) {
	_, err := Dial(context.Background(), "ftp://example.com", testToken, nil)
	assert.Error(t, err)
}

func TestWebsocketURL(t *testing.T) {
	f := newFakeHA(t)
	c := dial(t, f)

	got, err := websocketURL(c.baseURL)
	require.NoError(t, err)
	assert.Equal(t, "ws"+f.URL()[len("http"):]+"/api/websocket", got)
}

func TestEntityState(t *testing.T) {
	c := dial(t, newFakeHA(t))
	ctx := context.Background()

	s, err := c.EntityState(ctx, testEntity)
	require.NoError(t, err)
	assert.Equal(t, testEntity, s.EntityID)
	assert.Equal(t, "0", s.State)
	assert.Equal(t, 2024, s.LastUpdated.Year())

	_, err = c.EntityState(ctx, "todo.missing")
	assert.ErrorIs(t, err, host.ErrEntityNotFound)
}

func TestAddListRemove(t *testing.T) {
	c := dial(t, newFakeHA(t))
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, testEntity, "🥛 Milk"))
	require.NoError(t, c.AddItem(ctx, testEntity, "🍞 Bread"))

	items, err := c.ListItems(ctx, testEntity)
	require.NoError(t, err)
	assert.Equal(t, []string{"🥛 Milk", "🍞 Bread"}, models.NeedsAction(items))

	require.NoError(t, c.RemoveItem(ctx, testEntity, "🥛 Milk"))

	summaries, err := host.OnListSummaries(ctx, c, testEntity)
	require.NoError(t, err)
	assert.Equal(t, []string{"🍞 Bread"}, summaries)
}

func TestCommandError(t *testing.T) {
	c := dial(t, newFakeHA(t))

	_, err := c.ListItems(context.Background(), "todo.other")
	var haErr *Error
	require.True(t, errors.As(err, &haErr), "expected *Error, got %v", err)
	assert.Equal(t, "not_found", haErr.Code)
}

func TestWatch(t *testing.T) {
	c := dial(t, newFakeHA(t))
	ctx, cancel := context.WithCancel(context.Background())

	states, err := c.Watch(ctx, testEntity)
	require.NoError(t, err)

	require.NoError(t, c.AddItem(context.Background(), testEntity, "🥚 Eggs"))

	select {
	case s := <-states:
		assert.Equal(t, testEntity, s.EntityID)
		assert.Equal(t, "1", s.State)
	case <-time.After(3 * time.Second):
		t.Fatal("Expected a state change")
	}

	cancel()
	for range states {
	}
}

func TestCallsAfterClose(t *testing.T) {
	f := newFakeHA(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, f.URL(), testToken, nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	<-c.Done()
	_, err = c.ListItems(ctx, testEntity)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSharedCatalog(t *testing.T) {
	f := newFakeHA(t)
	c := dial(t, f)
	ctx := context.Background()
	shared := NewSharedCatalog(c, "/local/shopping_list_products.json", "save_shopping_products")

	_, err := shared.Read(ctx)
	assert.ErrorIs(t, err, sharedfile.ErrNotFound)

	f.mu.Lock()
	f.files["/local/shopping_list_products.json"] = `{"Pets":[{"name":"🐶 Dog Food","icon":"mdi:dog"}]}`
	f.mu.Unlock()

	got, err := shared.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Catalog{"Pets": {{Name: "🐶 Dog Food", Icon: "mdi:dog"}}}, got)

	require.NoError(t, shared.Write(ctx, got))
	calls := f.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "shell_command", calls[0].Domain)
	assert.Equal(t, "save_shopping_products", calls[0].Service)
	assert.Contains(t, calls[0].Data["products"], "Dog Food")

	broken := NewSharedCatalog(c, "/local/x.json", "broken")
	assert.Error(t, broken.Write(ctx, got))
}

func TestFetchFile_TooLarge(t *testing.T) {
	f := newFakeHA(t)
	c := dial(t, f)
	ctx := context.Background()

	f.mu.Lock()
	f.files["/local/exact.json"] = strings.Repeat("x", maxFileSize)
	f.files["/local/huge.json"] = strings.Repeat("x", maxFileSize+1)
	f.mu.Unlock()

	data, err := c.FetchFile(ctx, "/local/exact.json")
	require.NoError(t, err)
	assert.Len(t, data, maxFileSize)

	_, err = c.FetchFile(ctx, "/local/huge.json")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = NewSharedCatalog(c, "/local/huge.json", "save_shopping_products").Read(ctx)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

package manager

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"shoplist/internal/host"
	"shoplist/internal/models"

	"github.com/google/uuid"
)

// itemNamespace derives stable to-do item UIDs from product keys
var itemNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8e-9a51-7f0d2c4e8b13")

// TodoHost exposes the manager as a to-do list entity so the shopping list
// can be used without Home Assistant.
type TodoHost struct {
	m        *Manager
	entityID string
}

var _ host.Host = (*TodoHost)(nil)

// NewTodoHost serves m as the entity entityID
func NewTodoHost(m *Manager, entityID string) *TodoHost {
	return &TodoHost{m: m, entityID: entityID}
}

// ItemUID returns the to-do item UID for a product key
func ItemUID(key string) string {
	return uuid.NewSHA1(itemNamespace, []byte(key)).String()
}

func (h *TodoHost) check(entityID string) error {
	if entityID != h.entityID {
		return fmt.Errorf("%s: %w", entityID, host.ErrEntityNotFound)
	}
	return nil
}

func (h *TodoHost) EntityState(_ context.Context, entityID string) (models.EntityState, error) {
	if err := h.check(entityID); err != nil {
		return models.EntityState{}, err
	}
	return h.state(), nil
}

func (h *TodoHost) state() models.EntityState {
	return models.EntityState{
		EntityID:    h.entityID,
		State:       strconv.Itoa(len(h.m.Active())),
		LastUpdated: h.m.UpdatedAt(),
	}
}

// ListItems returns one item per listed product, sorted by name
func (h *TodoHost) ListItems(_ context.Context, entityID string) ([]models.TodoItem, error) {
	if err := h.check(entityID); err != nil {
		return nil, err
	}

	st, err := h.m.FullState()
	if err != nil {
		return nil, err
	}
	items := make([]models.TodoItem, 0, len(st.ActiveList))
	for key := range st.ActiveList {
		items = append(items, models.TodoItem{
			UID:     ItemUID(key),
			Summary: st.Products[key].Name,
			Status:  models.StatusNeedsAction,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Summary < items[j].Summary })
	return items, nil
}

// AddItem lists the product named summary, creating it when unknown
func (h *TodoHost) AddItem(ctx context.Context, entityID, summary string) error {
	if err := h.check(entityID); err != nil {
		return err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ErrNameRequired
	}

	key, ok := h.findKey(summary)
	if !ok {
		key = h.newKey(summary)
		if _, err := h.m.AddProduct(ctx, Product{Key: key, Name: summary}); err != nil {
			return err
		}
	}
	if h.m.ActiveQty(key) > 0 {
		return nil
	}
	return h.m.SetQty(ctx, key, 1)
}

// RemoveItem takes the product named summary off the list
func (h *TodoHost) RemoveItem(ctx context.Context, entityID, summary string) error {
	if err := h.check(entityID); err != nil {
		return err
	}
	key, ok := h.findKey(summary)
	if !ok || h.m.ActiveQty(key) == 0 {
		return fmt.Errorf("item %q is not on the list", summary)
	}
	return h.m.SetQty(ctx, key, 0)
}

// Watch reports the entity state after each manager change
func (h *TodoHost) Watch(ctx context.Context, entityID string) (<-chan models.EntityState, error) {
	if err := h.check(entityID); err != nil {
		return nil, err
	}

	changes, cancel := h.m.Subscribe()
	out := make(chan models.EntityState, 1)
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				select {
				case out <- h.state():
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (h *TodoHost) findKey(summary string) (string, bool) {
	products := h.m.Products()
	keys := make([]string, 0, len(products))
	for key := range products {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.EqualFold(strings.TrimSpace(products[key].Name), strings.TrimSpace(summary)) {
			return key, true
		}
	}
	return "", false
}

func (h *TodoHost) newKey(summary string) string {
	base := Slugify(summary)
	key := base
	for i := 2; ; i++ {
		if _, taken := h.m.Product(key); !taken {
			return key
		}
		key = base + "-" + strconv.Itoa(i)
	}
}

// Slugify turns a product name into a key: lowercase ASCII letters and
// digits separated by single dashes. Names without any ("🥛") become "item".
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))

	var b strings.Builder
	lastDash := false
	for _, r := range s {
		isAlphaNum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlphaNum {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "item"
	}
	return out
}

// Package manager keeps a product catalog and a quantity-based shopping list
// with the invariant that every listed item refers to a known product.
package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"shoplist/internal/store"

	"go.uber.org/zap"
)

const (
	// DocumentKey is the store key of the persisted manager document
	DocumentKey = "shoplist/manager"
	// DocumentVersion is the version written by this package
	DocumentVersion = 1
)

type document struct {
	Version    int                   `json:"version"`
	Products   map[string]Product    `json:"products"`
	ActiveList map[string]ActiveItem `json:"active_list"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// Manager is safe for concurrent use. Every mutation is persisted before it
// becomes visible.
type Manager struct {
	kv  store.KV
	log *zap.Logger
	now func() time.Time

	mu        sync.RWMutex
	products  map[string]Product
	active    map[string]ActiveItem
	updatedAt time.Time

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan struct{}
}

// New creates an empty manager persisting to kv. Call Load to restore the
// saved state.
func New(kv store.KV, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		kv:       kv,
		log:      log,
		now:      time.Now,
		products: make(map[string]Product),
		active:   make(map[string]ActiveItem),
		subs:     make(map[int]chan struct{}),
	}
}

// Load restores the saved state. Active entries whose product is missing are
// dropped and the repaired state is saved.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok, err := m.kv.Get(ctx, DocumentKey)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if ok {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			m.log.Warn("product document is malformed, starting empty", zap.Error(err))
		} else {
			if doc.Products != nil {
				m.products = doc.Products
			}
			if doc.ActiveList != nil {
				m.active = doc.ActiveList
			}
			m.updatedAt = doc.UpdatedAt
		}
	}

	if orphans := orphanKeys(m.products, m.active); len(orphans) > 0 {
		m.log.Warn("removing orphaned active items",
			zap.Int("count", len(orphans)),
			zap.Strings("keys", orphans))
		active := maps.Clone(m.active)
		for _, key := range orphans {
			delete(active, key)
		}
		if err := m.commit(ctx, m.products, active); err != nil {
			return err
		}
	}

	m.log.Info("products loaded",
		zap.Int("products", len(m.products)),
		zap.Int("active", len(m.active)))
	return nil
}

// commit saves the given state and installs it. Callers hold m.mu.
func (m *Manager) commit(ctx context.Context, products map[string]Product, active map[string]ActiveItem) error {
	now := m.now().UTC()
	data, err := json.Marshal(document{
		Version:    DocumentVersion,
		Products:   products,
		ActiveList: active,
		UpdatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	if err := m.kv.Put(ctx, DocumentKey, data); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	m.products = products
	m.active = active
	m.updatedAt = now
	return nil
}

// AddProduct creates or replaces a product. Quantities are not touched.
func (m *Manager) AddProduct(ctx context.Context, p Product) (Product, error) {
	p.Key = strings.TrimSpace(p.Key)
	p.Name = strings.TrimSpace(p.Name)
	if p.Key == "" {
		return Product{}, ErrKeyRequired
	}
	if p.Name == "" {
		return Product{}, ErrNameRequired
	}
	p = p.withDefaults()

	m.mu.Lock()
	products := maps.Clone(m.products)
	products[p.Key] = p
	err := m.commit(ctx, products, m.active)
	m.mu.Unlock()
	if err != nil {
		return Product{}, err
	}

	m.log.Debug("product saved", zap.String("key", p.Key), zap.String("name", p.Name))
	m.notify()
	return p, nil
}

// SetQty puts a product on the list with qty, or removes it when qty is 0.
func (m *Manager) SetQty(ctx context.Context, key string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeQty, qty)
	}

	m.mu.Lock()
	if _, ok := m.products[key]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w %q: add it with AddProduct first", ErrUnknownProduct, key)
	}
	active := maps.Clone(m.active)
	if qty > 0 {
		active[key] = ActiveItem{Qty: qty}
	} else {
		delete(active, key)
	}
	err := m.commit(ctx, m.products, active)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.log.Debug("quantity set", zap.String("key", key), zap.Int("qty", qty))
	m.notify()
	return nil
}

// DeleteProduct removes a product and its list entry. Deleting an unknown
// key only logs a warning.
func (m *Manager) DeleteProduct(ctx context.Context, key string) error {
	m.mu.Lock()
	if _, ok := m.products[key]; !ok {
		m.mu.Unlock()
		m.log.Warn("attempted to delete unknown product", zap.String("key", key))
		return nil
	}
	products := maps.Clone(m.products)
	active := maps.Clone(m.active)
	delete(products, key)
	delete(active, key)
	err := m.commit(ctx, products, active)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.log.Debug("product deleted", zap.String("key", key))
	m.notify()
	return nil
}

// Products returns a copy of the catalog
func (m *Manager) Products() map[string]Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.products)
}

// Active returns a copy of the shopping list
func (m *Manager) Active() map[string]ActiveItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.active)
}

// FullState returns products and the active list after checking the invariant
func (m *Manager) FullState() (FullState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := ValidateInvariant(m.products, m.active); err != nil {
		return FullState{}, err
	}
	return FullState{
		Products:   maps.Clone(m.products),
		ActiveList: maps.Clone(m.active),
	}, nil
}

// Product returns a single product
func (m *Manager) Product(key string) (Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[key]
	return p, ok
}

// ActiveQty returns the listed quantity of a product, 0 when not listed
func (m *Manager) ActiveQty(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[key].Qty
}

// UpdatedAt returns the time of the last saved change
func (m *Manager) UpdatedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updatedAt
}

// Subscribe returns a channel signalled after every change and a function
// that cancels the subscription and closes the channel.
func (m *Manager) Subscribe() (<-chan struct{}, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	m.nextSub++
	id := m.nextSub
	ch := make(chan struct{}, 1)
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) notify() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Package state keeps the locally persisted shopping-list document: the
// mirror of custom products and the recently used list.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"shoplist/internal/models"
	"shoplist/internal/recent"
	"shoplist/internal/store"

	"go.uber.org/zap"
)

const (
	// Key is the store key holding the document
	Key = "shoplist/state"
	// Version is the document version written by this package
	Version = 1

	// Keys used by earlier releases, one blob per concern
	LegacyCustomProductsKey = "shopping-list-custom-products"
	LegacyRecentKey         = "shopping-list-recent"
)

// Document is the persisted state
type Document struct {
	Version        int                  `json:"version"`
	CustomProducts models.Catalog       `json:"custom_products"`
	Recent         []models.RecentEntry `json:"recent"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Empty returns a document with no custom products and no recent items
func Empty() Document {
	return Document{
		Version:        Version,
		CustomProducts: models.Catalog{},
		Recent:         []models.RecentEntry{},
	}
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	out := d
	out.CustomProducts = d.CustomProducts.Clone()
	out.Recent = append([]models.RecentEntry{}, d.Recent...)
	return out
}

// Store reads and writes the document. Update is the only write path.
type Store struct {
	kv  store.KV
	log *zap.Logger
	now func() time.Time

	mu sync.Mutex
}

// New creates a state store on top of kv
func New(kv store.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log, now: time.Now}
}

// Load returns the current document. A missing document is migrated from the
// legacy keys; unreadable data yields an empty document rather than an error.
// Only storage failures are returned.
func (s *Store) Load(ctx context.Context) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (Document, error) {
	data, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return Empty(), fmt.Errorf("load state: %w", err)
	}
	if !ok {
		return s.migrate(ctx)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn("state document is malformed, starting empty", zap.Error(err))
		return Empty(), nil
	}
	if doc.Version > Version {
		s.log.Warn("state document is newer than supported, reading best-effort",
			zap.Int("version", doc.Version))
	}
	return normalize(doc), nil
}

func (s *Store) migrate(ctx context.Context) (Document, error) {
	doc := Empty()

	if data, ok, err := s.kv.Get(ctx, LegacyCustomProductsKey); err != nil {
		return doc, fmt.Errorf("load legacy custom products: %w", err)
	} else if ok {
		var c models.Catalog
		if err := json.Unmarshal(data, &c); err != nil {
			s.log.Warn("legacy custom products are malformed, ignoring", zap.Error(err))
		} else {
			doc.CustomProducts = c
		}
	}

	if data, ok, err := s.kv.Get(ctx, LegacyRecentKey); err != nil {
		return doc, fmt.Errorf("load legacy recent items: %w", err)
	} else if ok {
		var r []models.RecentEntry
		if err := json.Unmarshal(data, &r); err != nil {
			s.log.Warn("legacy recent items are malformed, ignoring", zap.Error(err))
		} else {
			doc.Recent = r
		}
	}

	return normalize(doc), nil
}

// Update loads the document, applies fn and writes the result. Calls are
// serialised. If fn returns an error nothing is written.
func (s *Store) Update(ctx context.Context, fn func(*Document) error) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return doc, err
	}

	next := doc.Clone()
	if err := fn(&next); err != nil {
		return doc, err
	}
	next.Version = Version
	next.UpdatedAt = s.now().UTC()
	next = normalize(next)

	data, err := json.Marshal(next)
	if err != nil {
		return doc, fmt.Errorf("encode state: %w", err)
	}
	if err := s.kv.Put(ctx, Key, data); err != nil {
		return doc, fmt.Errorf("save state: %w", err)
	}

	for _, key := range []string{LegacyCustomProductsKey, LegacyRecentKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.log.Warn("failed to remove legacy key", zap.String("key", key), zap.Error(err))
		}
	}

	s.log.Debug("state saved",
		zap.Int("custom_products", next.CustomProducts.Len()),
		zap.Int("recent", len(next.Recent)))
	return next, nil
}

// PushRecent records entry as the most recently used item
func (s *Store) PushRecent(ctx context.Context, entry models.RecentEntry) (Document, error) {
	return s.Update(ctx, func(d *Document) error {
		d.Recent = recent.Add(d.Recent, entry)
		return nil
	})
}

// SetCustomProducts replaces the local mirror of the custom catalog
func (s *Store) SetCustomProducts(ctx context.Context, c models.Catalog) (Document, error) {
	return s.Update(ctx, func(d *Document) error {
		d.CustomProducts = c.Clone()
		return nil
	})
}

func normalize(doc Document) Document {
	if doc.CustomProducts == nil {
		doc.CustomProducts = models.Catalog{}
	}
	doc.Recent = recent.Normalize(doc.Recent)
	return doc
}

// Package customproducts manages the user-added product catalog: a shared
// copy visible to every session and a local mirror used when the shared copy
// cannot be read.
package customproducts

import (
	"context"
	"errors"

	"shoplist/internal/models"
	"shoplist/internal/sharedfile"
	"shoplist/internal/state"

	"go.uber.org/zap"
)

// Source identifies where a loaded catalog came from
type Source int

const (
	SourceEmpty Source = iota
	SourceLocal
	SourceShared
)

// String returns the string representation of the source
func (s Source) String() string {
	switch s {
	case SourceShared:
		return "shared"
	case SourceLocal:
		return "local"
	default:
		return "empty"
	}
}

// Store persists custom products.
type Store struct {
	shared sharedfile.Source
	state  *state.Store
	log    *zap.Logger
}

// New creates a custom-product store. shared may be nil when no shared
// resource is configured.
func New(shared sharedfile.Source, st *state.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{shared: shared, state: st, log: log}
}

// Load returns the custom catalog: the shared copy when readable, otherwise
// the local mirror, otherwise an empty catalog. Products saved only on this
// device are kept alongside the shared copy. It never fails.
func (s *Store) Load(ctx context.Context) (models.Catalog, Source) {
	doc, localErr := s.state.Load(ctx)
	if localErr != nil {
		s.log.Warn("failed to read local mirror", zap.Error(localErr))
	}
	local := doc.CustomProducts

	if s.shared != nil {
		c, err := s.shared.Read(ctx)
		if err == nil {
			merged, fromShared := union(c, local)
			if fromShared > 0 && localErr == nil {
				if _, err := s.state.SetCustomProducts(ctx, merged); err != nil {
					s.log.Warn("failed to refresh local mirror", zap.Error(err))
				}
			}
			return merged, SourceShared
		}
		if errors.Is(err, sharedfile.ErrNotFound) {
			s.log.Debug("shared catalog not created yet, using local mirror")
		} else {
			s.log.Warn("failed to read shared catalog, using local mirror", zap.Error(err))
		}
	}

	if localErr != nil || len(local) == 0 {
		return models.Catalog{}, SourceEmpty
	}
	return local, SourceLocal
}

// union returns shared plus every local product missing from its category
// in shared, and the number of shared products the local copy lacked.
func union(shared, local models.Catalog) (models.Catalog, int) {
	merged := shared.Clone()
	for category, products := range local {
		for _, p := range products {
			if !contains(merged[category], p.Name) {
				merged[category] = append(merged[category], p)
			}
		}
	}

	missing := 0
	for category, products := range shared {
		for _, p := range products {
			if !contains(local[category], p.Name) {
				missing++
			}
		}
	}
	return merged, missing
}

func contains(products []models.Product, name string) bool {
	for _, p := range products {
		if p.Matches(name) {
			return true
		}
	}
	return false
}

// Added describes the result of Add
type Added struct {
	Product  models.Product
	Category string
	Catalog  models.Catalog // The custom catalog after the addition
	// SharedErr is set when the shared write failed. The product is still
	// saved locally.
	SharedErr error
}

// Add validates the form, appends the product to its category and saves the
// catalog locally and then to the shared resource. A shared failure is
// reported in Added.SharedErr rather than as an error.
func (s *Store) Add(ctx context.Context, in FormInput) (Added, error) {
	p, category, err := BuildProduct(in)
	if err != nil {
		return Added{}, err
	}

	current, _ := s.Load(ctx)
	next := current.Clone()
	next[category] = append(next[category], p)

	if _, err := s.state.SetCustomProducts(ctx, next); err != nil {
		return Added{}, err
	}

	res := Added{Product: p, Category: category, Catalog: next}
	if s.shared != nil {
		if err := s.shared.Write(ctx, next); err != nil {
			s.log.Warn("failed to save shared catalog", zap.Error(err))
			res.SharedErr = err
		}
	}

	s.log.Info("custom product added",
		zap.String("name", p.Name),
		zap.String("category", category))
	return res, nil
}

package main

import (
	"context"
	"errors"
	"fmt"

	"shoplist/internal/catalog"
	"shoplist/internal/config"
	"shoplist/internal/customproducts"
	"shoplist/internal/homeassistant"
	"shoplist/internal/host"
	"shoplist/internal/manager"
	"shoplist/internal/sharedfile"
	"shoplist/internal/state"
	"shoplist/internal/store"

	"go.uber.org/zap"
)

// App holds the collaborators behind the TUI
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	kv      store.KV
	state   *state.Store
	catalog *catalog.Definition
	shared  sharedfile.Source
	custom  *customproducts.Store
	host    host.Host

	// watchShared reports changes to the shared file, nil when the file is
	// not local
	watchShared func(ctx context.Context) (<-chan struct{}, error)

	closers []func() error
}

// openApp opens local storage and connects to the configured host
func openApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	def, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	kv, err := store.OpenSQLite(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		kv:      kv,
		state:   state.New(kv, log.Named("state")),
		catalog: def,
		closers: []func() error{kv.Close},
	}

	switch cfg.Host {
	case config.HostLocal:
		err = a.openLocal(ctx)
	default:
		err = a.openHomeAssistant(ctx)
	}
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.custom = customproducts.New(a.shared, a.state, log.Named("custom"))
	return a, nil
}

func (a *App) openHomeAssistant(ctx context.Context) error {
	client, err := homeassistant.Dial(ctx, a.cfg.HomeAssistant.URL, a.cfg.HomeAssistant.Token, a.log.Named("homeassistant"))
	if err != nil {
		if errors.Is(err, homeassistant.ErrAuthInvalid) {
			return fmt.Errorf("home assistant rejected the token (set SHOPLIST_HA_TOKEN): %w", err)
		}
		return fmt.Errorf("failed to connect to home assistant: %w", err)
	}
	a.closers = append(a.closers, client.Close)

	a.host = client
	a.shared = homeassistant.NewSharedCatalog(client, a.cfg.SharedFile.Path, a.cfg.SharedFile.Service)
	return nil
}

func (a *App) openLocal(ctx context.Context) error {
	m := manager.New(a.kv, a.log.Named("manager"))
	if err := m.Load(ctx); err != nil {
		return err
	}
	a.host = manager.NewTodoHost(m, a.cfg.TodoList)

	fs := sharedfile.NewFileSource(a.cfg.SharedFile.LocalPath, a.cfg.SharedFile.Command, a.log.Named("sharedfile"))
	a.shared = fs
	a.watchShared = fs.Watch
	return nil
}

// Close releases everything opened by openApp, in reverse order
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

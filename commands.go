package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shoplist/internal/catalog"
	"shoplist/internal/customproducts"
	"shoplist/internal/manager"
	"shoplist/internal/state"
	"shoplist/internal/store"
	"shoplist/internal/suggestions"
	"shoplist/internal/ui"
	"shoplist/internal/wsapi"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runTUI(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file
	log, err := newLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ui.ApplyTheme(cfg.PrimaryColor, cfg.SecondaryColor, cfg.RecentColor)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("failed to close", zap.Error(err))
		}
	}()

	log.Info("starting", zap.String("version", version), zap.String("host", cfg.Host), zap.String("entity", cfg.TodoList))

	p := tea.NewProgram(newModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the product manager over a WebSocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8099", "listen address")
	return cmd
}

func runServe(ctx context.Context, opts *options, addr string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log, err := newLogger("")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := store.OpenSQLite(cfg.StatePath)
	if err != nil {
		return err
	}
	defer kv.Close()

	m := manager.New(kv, log.Named("manager"))
	if err := m.Load(ctx); err != nil {
		return err
	}

	api := wsapi.New(m, log.Named("wsapi"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("state", kv.Path()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown
	if err := api.Close(); err != nil {
		log.Warn("failed to close websocket connections", zap.Error(err))
	}
	return srv.Shutdown(shutdownCtx)
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the product catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, strings.Join(args, " "))
		},
	}
}

// runSearch prints suggestions using the built-in catalog and the custom
// products saved on this device
func runSearch(cmd *cobra.Command, opts *options, query string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log, err := newLogger("")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	def, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	kv, err := store.OpenSQLite(cfg.StatePath)
	if err != nil {
		return err
	}
	defer kv.Close()

	custom, _ := customproducts.New(nil, state.New(kv, log.Named("state")), log).Load(cmd.Context())
	merged := def.Merge(custom)

	out := cmd.OutOrStdout()
	list := suggestions.Suggest(query, merged, def.Order(merged))
	if list == nil {
		return fmt.Errorf("query must be at least %d characters", suggestions.MinQueryLength)
	}
	for _, s := range list {
		if s.IsAddNew() {
			fmt.Fprintf(out, "+ %s\n", s.Label())
			continue
		}
		fmt.Fprintf(out, "  %s\t%s\n", s.Label(), s.Category)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shoplist/internal/catalog"
	"shoplist/internal/config"
	"shoplist/internal/customproducts"
	"shoplist/internal/host"
	"shoplist/internal/models"
	"shoplist/internal/state"
	"shoplist/internal/suggestions"
	"shoplist/internal/ui"
	"shoplist/internal/ui/components"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Screen represents different screens in the app
type Screen int

const (
	ScreenMain    Screen = iota
	ScreenDialog         // Add-product dialog
	ScreenStorage        // Custom product storage status
	ScreenHelp
)

// Model is the TUI state. View renders it and nothing else mutates the
// screen.
type Model struct {
	ctx context.Context
	app *App
	log *zap.Logger

	// UI Components
	grid        *components.ProductGrid
	suggestList *components.SuggestionList
	dialog      *components.AddDialog
	storage     *components.StorageView
	helpVP      viewport.Model
	keys        ui.KeyMap
	search      textinput.Model

	// Host data
	entity        models.EntityState
	entityMissing bool
	onList        []string
	loaded        bool

	// Catalog data
	custom       models.Catalog
	customSource customproducts.Source
	merged       models.Catalog
	order        []string
	recent       []models.RecentEntry

	// UI state
	screen          Screen
	searchMode      bool
	showAll         bool
	collapsed       map[string]bool
	recentCollapsed bool
	pendingName     string

	refreshSeq uint64

	status string
	width  int
	height int
}

const (
	statusLoading    = "Loading..."
	statusRefreshing = "Refreshing..."
)

// Messages
type refreshMsg struct {
	seq     uint64
	entity  models.EntityState
	missing bool
	items   []string
	listErr error
	err     error
}

type localStateMsg struct {
	doc state.Document
	err error
}

type customProductsMsg struct {
	catalog models.Catalog
	source  customproducts.Source
}

type entityChangedMsg struct {
	ch <-chan models.EntityState
}

type watchEndedMsg struct {
	err error
}

type sharedChangedMsg struct {
	ch <-chan struct{}
}

type itemToggledMsg struct {
	name    string
	removed bool
	err     error
	recent  []models.RecentEntry
}

type productAddedMsg struct {
	added  customproducts.Added
	err    error
	addErr error // Putting the new product on the list failed
	recent []models.RecentEntry
}

type storageLoadedMsg struct {
	source    customproducts.Source
	effective models.Catalog
	local     models.Catalog
	shared    models.Catalog
	sharedErr error
}

func newModel(ctx context.Context, app *App) *Model {
	search := textinput.New()
	search.Placeholder = "Search products..."
	search.Prompt = "🔍 "
	search.CharLimit = 80
	search.Width = 50

	grid := components.NewProductGrid()
	grid.List = app.cfg.Layout == config.LayoutList
	grid.Columns = int(app.cfg.Columns)

	m := &Model{
		ctx:         ctx,
		app:         app,
		log:         app.log.Named("tui"),
		grid:        grid,
		suggestList: components.NewSuggestionList(),
		dialog:      components.NewAddDialog(),
		storage:     components.NewStorageView(),
		keys:        ui.DefaultKeyMap(),
		search:      search,
		custom:      models.Catalog{},
		collapsed:   make(map[string]bool),
		screen:      ScreenMain,
		status:      statusLoading,
		width:       80,
		height:      24,
	}
	m.rebuild()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadLocalState,
		m.loadCustomProducts,
		m.refresh(),
		m.startWatch,
		m.startSharedWatch,
	)
}

// refresh fetches entity state and list items. Results of an older refresh
// than the latest one requested are dropped.
func (m *Model) refresh() tea.Cmd {
	m.refreshSeq++
	seq := m.refreshSeq
	ctx, h, entityID := m.ctx, m.app.host, m.app.cfg.TodoList

	return func() tea.Msg {
		msg := refreshMsg{seq: seq}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			st, err := h.EntityState(gctx, entityID)
			if errors.Is(err, host.ErrEntityNotFound) {
				msg.missing = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("entity state: %w", err)
			}
			msg.entity = st
			return nil
		})
		g.Go(func() error {
			items, err := host.OnListSummaries(gctx, h, entityID)
			if err != nil {
				msg.listErr = err
				return nil
			}
			msg.items = items
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m *Model) loadLocalState() tea.Msg {
	doc, err := m.app.state.Load(m.ctx)
	return localStateMsg{doc: doc, err: err}
}

func (m *Model) loadCustomProducts() tea.Msg {
	c, source := m.app.custom.Load(m.ctx)
	return customProductsMsg{catalog: c, source: source}
}

func (m *Model) startWatch() tea.Msg {
	ch, err := m.app.host.Watch(m.ctx, m.app.cfg.TodoList)
	if err != nil {
		return watchEndedMsg{err: err}
	}
	return waitForEntity(ch)()
}

// waitForEntity waits for the next entity change
func waitForEntity(ch <-chan models.EntityState) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watchEndedMsg{}
		}
		return entityChangedMsg{ch: ch}
	}
}

func (m *Model) startSharedWatch() tea.Msg {
	if m.app.watchShared == nil {
		return nil
	}
	ch, err := m.app.watchShared(m.ctx)
	if err != nil {
		m.log.Warn("failed to watch shared file", zap.Error(err))
		return nil
	}
	return waitForShared(ch)()
}

func waitForShared(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sharedChangedMsg{ch: ch}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case refreshMsg:
		if msg.seq < m.refreshSeq {
			debugLog("dropping refresh %d, latest is %d", msg.seq, m.refreshSeq)
			return m, nil
		}
		m.loaded = true
		m.entityMissing = msg.missing
		if msg.err != nil {
			m.log.Warn("refresh failed", zap.Error(msg.err))
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.entity = msg.entity
			if m.status == statusLoading || m.status == statusRefreshing {
				m.status = fmt.Sprintf("%d items on the list", len(msg.items))
			}
		}
		if msg.listErr != nil {
			m.log.Warn("failed to list items", zap.String("entity", m.app.cfg.TodoList), zap.Error(msg.listErr))
			m.onList = nil
		} else {
			m.onList = msg.items
		}
		m.rebuild()

	case localStateMsg:
		if msg.err != nil {
			m.log.Warn("failed to load local state", zap.Error(msg.err))
		}
		m.recent = msg.doc.Recent
		m.rebuild()

	case customProductsMsg:
		m.custom = msg.catalog
		m.customSource = msg.source
		debugLog("loaded %d custom products from %s", msg.catalog.Len(), msg.source)
		m.rebuild()

	case entityChangedMsg:
		return m, tea.Batch(m.refresh(), waitForEntity(msg.ch))

	case watchEndedMsg:
		if msg.err != nil {
			m.log.Warn("entity watch ended", zap.Error(msg.err))
			m.status = fmt.Sprintf("Error: live updates stopped: %v", msg.err)
		} else if m.ctx.Err() == nil {
			m.status = "Live updates stopped, press R to refresh"
		}

	case sharedChangedMsg:
		return m, tea.Batch(m.loadCustomProducts, waitForShared(msg.ch))

	case itemToggledMsg:
		if msg.recent != nil {
			m.recent = msg.recent
		}
		switch {
		case msg.err != nil:
			m.log.Warn("failed to update list", zap.String("item", msg.name), zap.Error(msg.err))
			m.status = fmt.Sprintf("Error: could not update %s", msg.name)
		case msg.removed:
			m.status = "✓ Removed " + msg.name
		default:
			m.status = "✓ Added " + msg.name
		}
		m.rebuild()
		return m, m.refresh()

	case productAddedMsg:
		return m.handleProductAdded(msg)

	case storageLoadedMsg:
		m.storage.SetData(msg.source, msg.effective, msg.local, msg.shared, msg.sharedErr)
	}

	if m.screen == ScreenMain && m.searchMode {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	if m.screen == ScreenDialog {
		return m, m.dialog.Update(msg)
	}
	return m, nil
}

func (m *Model) handleProductAdded(msg productAddedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, customproducts.ErrNameRequired) {
			m.dialog.NameInvalid = true
			return m, nil
		}
		m.log.Error("failed to save custom product", zap.Error(msg.err))
		m.status = fmt.Sprintf("Error: %v", msg.err)
		return m, nil
	}

	m.custom = msg.added.Catalog
	m.customSource = customproducts.SourceLocal
	if m.app.shared != nil && msg.added.SharedErr == nil {
		m.customSource = customproducts.SourceShared
	}
	if msg.recent != nil {
		m.recent = msg.recent
	}

	m.closeDialog()
	name := msg.added.Product.Name
	switch {
	case msg.addErr != nil:
		m.log.Warn("failed to add new product to the list", zap.String("item", name), zap.Error(msg.addErr))
		m.status = fmt.Sprintf("Error: saved %s but could not add it to the list", name)
	case msg.added.SharedErr != nil:
		m.status = fmt.Sprintf("✓ Added %s (saved on this device only)", name)
	default:
		m.status = "✓ Added " + name
	}
	m.rebuild()
	return m, m.refresh()
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenDialog:
		return m.handleDialogKeys(msg)
	case ScreenStorage:
		return m.handleStorageKeys(msg)
	case ScreenHelp:
		if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
			m.screen = ScreenMain
			return m, nil
		}
		// Forward to viewport for scrolling
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	if m.searchMode {
		return m.handleSearchKeys(msg)
	}
	return m.handleMainKeys(msg)
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.showAll {
			m.showAll = false
			m.rebuild()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.screen = ScreenHelp
		m.helpVP = viewport.New(m.width-4, m.height-4)
		m.helpVP.SetContent(m.renderHelp())
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.search.SetValue("")
		m.suggestList.Clear()
		m.updateSizes()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.ShowAll):
		m.showAll = !m.showAll
		m.rebuild()
		if m.showAll {
			m.status = fmt.Sprintf("Showing all %d products", m.merged.Len())
		} else {
			m.status = fmt.Sprintf("%d items on the list", len(m.onList))
		}
		return m, nil

	case key.Matches(msg, m.keys.Collapse):
		if s := m.grid.CurrentSection(); s != nil {
			m.toggleSection(s.Key)
		}
		return m, nil

	case key.Matches(msg, m.keys.CollapseRecent):
		m.toggleSection(components.RecentSectionKey)
		return m, nil

	case key.Matches(msg, m.keys.AddProduct):
		return m, m.openDialog("")

	case key.Matches(msg, m.keys.Storage):
		m.screen = ScreenStorage
		return m, m.loadStorage

	case key.Matches(msg, m.keys.Layout):
		m.grid.List = !m.grid.List
		if m.grid.List {
			m.status = "List layout"
		} else {
			m.status = "Grid layout"
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.status = statusRefreshing
		return m, tea.Batch(m.refresh(), m.loadCustomProducts, m.loadLocalState)

	case key.Matches(msg, m.keys.Up):
		m.grid.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.grid.MoveDown()
	case key.Matches(msg, m.keys.Left):
		m.grid.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		m.grid.MoveRight()
	case key.Matches(msg, m.keys.Home):
		m.grid.GoToFirst()
	case key.Matches(msg, m.keys.End):
		m.grid.GoToLast()
	case key.Matches(msg, m.keys.Tab):
		m.grid.NextSection()
	case key.Matches(msg, m.keys.ShiftTab):
		m.grid.PrevSection()

	case key.Matches(msg, m.keys.Toggle):
		if m.entityMissing {
			return m, nil
		}
		if card := m.grid.Current(); card != nil {
			return m, m.toggleCard(*card)
		}
		if s := m.grid.CurrentSection(); s != nil {
			m.toggleSection(s.Key)
		}
	}

	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeSearch()
		return m, nil

	case tea.KeyEnter:
		sg := m.suggestList.Current()
		if sg == nil {
			m.closeSearch()
			return m, nil
		}
		if sg.IsAddNew() {
			query := sg.Query
			m.closeSearch()
			return m, m.openDialog(query)
		}
		product, category := sg.Product, sg.Category
		m.closeSearch()
		return m, m.addItem(product, category)

	case tea.KeyUp:
		m.suggestList.MoveUp()
		return m, nil

	case tea.KeyDown:
		m.suggestList.MoveDown()
		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit

	default:
		// Handle regular typing
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.suggestList.SetSuggestions(suggestions.Suggest(m.search.Value(), m.merged, m.order))
		m.updateSizes()
		return m, cmd
	}
}

func (m *Model) closeSearch() {
	m.searchMode = false
	m.search.SetValue("")
	m.search.Blur()
	m.suggestList.Clear()
	m.updateSizes()
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeDialog()
		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyTab:
		return m, m.dialog.NextField()

	case tea.KeyShiftTab:
		return m, m.dialog.PrevField()

	case tea.KeyLeft, tea.KeyRight:
		if m.dialog.Field == components.FieldCategory {
			if msg.Type == tea.KeyLeft {
				m.dialog.PrevCategory()
			} else {
				m.dialog.NextCategory()
			}
			return m, nil
		}

	case tea.KeyEnter:
		if m.dialog.Field == components.FieldCancel {
			m.closeDialog()
			return m, nil
		}
		in, cmd, ok := m.dialog.Submit()
		if !ok {
			return m, cmd
		}
		return m, m.saveProduct(in)
	}

	return m, m.dialog.Update(msg)
}

func (m *Model) handleStorageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Storage, m.keys.Quit):
		m.screen = ScreenMain
	case key.Matches(msg, m.keys.Up):
		m.storage.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.storage.ScrollDown()
	case key.Matches(msg, m.keys.Tab):
		m.storage.ToggleMode()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadStorage
	}
	return m, nil
}

func (m *Model) openDialog(name string) tea.Cmd {
	m.pendingName = strings.TrimSpace(name)
	m.screen = ScreenDialog
	return m.dialog.Show(m.pendingName, m.app.catalog.DialogCategories())
}

func (m *Model) closeDialog() {
	m.dialog.Hide()
	m.pendingName = ""
	m.screen = ScreenMain
}

func (m *Model) toggleSection(key string) {
	if key == components.RecentSectionKey {
		m.recentCollapsed = !m.recentCollapsed
	} else {
		m.collapsed[key] = !m.collapsed[key]
	}
	m.rebuild()
}

// toggleCard takes a product off the list when it is on it, otherwise puts
// it on the list
func (m *Model) toggleCard(card components.Card) tea.Cmd {
	if models.OnList(m.onList, card.Product.Name) {
		return m.removeItem(card.Product.Name)
	}
	return m.addItem(card.Product, card.Category)
}

// addItem puts a product on the list and records it as recently used
func (m *Model) addItem(p models.Product, category string) tea.Cmd {
	ctx, h, st, entityID := m.ctx, m.app.host, m.app.state, m.app.cfg.TodoList
	log := m.log
	m.status = "Adding " + p.Name + "..."

	return func() tea.Msg {
		msg := itemToggledMsg{name: p.Name}
		msg.err = h.AddItem(ctx, entityID, p.Name)

		doc, err := st.PushRecent(ctx, models.NewRecentEntry(p, category))
		if err != nil {
			log.Warn("failed to save recent items", zap.Error(err))
		} else {
			msg.recent = doc.Recent
		}
		return msg
	}
}

func (m *Model) removeItem(name string) tea.Cmd {
	ctx, h, entityID := m.ctx, m.app.host, m.app.cfg.TodoList
	m.status = "Removing " + name + "..."

	return func() tea.Msg {
		return itemToggledMsg{
			name:    name,
			removed: true,
			err:     h.RemoveItem(ctx, entityID, name),
		}
	}
}

// saveProduct stores a new custom product, puts it on the list and records
// it as recently used
func (m *Model) saveProduct(in customproducts.FormInput) tea.Cmd {
	ctx, h, st, custom, entityID := m.ctx, m.app.host, m.app.state, m.app.custom, m.app.cfg.TodoList
	log := m.log

	return func() tea.Msg {
		added, err := custom.Add(ctx, in)
		if err != nil {
			return productAddedMsg{err: err}
		}

		msg := productAddedMsg{added: added}
		msg.addErr = h.AddItem(ctx, entityID, added.Product.Name)

		doc, err := st.PushRecent(ctx, models.NewRecentEntry(added.Product, added.Category))
		if err != nil {
			log.Warn("failed to save recent items", zap.Error(err))
		} else {
			msg.recent = doc.Recent
		}
		return msg
	}
}

func (m *Model) loadStorage() tea.Msg {
	msg := storageLoadedMsg{}

	doc, err := m.app.state.Load(m.ctx)
	if err != nil {
		m.log.Warn("failed to read local state", zap.Error(err))
	}
	msg.local = doc.CustomProducts

	if m.app.shared == nil {
		msg.sharedErr = errors.New("no shared file configured")
	} else {
		msg.shared, msg.sharedErr = m.app.shared.Read(m.ctx)
	}

	msg.effective, msg.source = m.app.custom.Load(m.ctx)
	return msg
}

// rebuild recomputes the merged catalog and the grid sections from the
// current state
func (m *Model) rebuild() {
	m.merged = m.app.catalog.Merge(m.custom)
	m.order = m.app.catalog.Order(m.merged)

	if m.entityMissing {
		m.grid.Empty = "Entity not found: " + m.app.cfg.TodoList
	} else if !m.loaded {
		m.grid.Empty = "Loading..."
	} else {
		m.grid.Empty = "No items on your list. Search above to add items!"
	}
	m.grid.SetSections(m.sections())
}

func (m *Model) sections() []components.Section {
	var out []components.Section

	if len(m.recent) > 0 {
		cards := make([]components.Card, 0, len(m.recent))
		for _, e := range m.recent {
			cards = append(cards, components.Card{
				Product:  e.Product(),
				Category: e.Category,
				OnList:   models.OnList(m.onList, e.Name),
			})
		}
		out = append(out, components.Section{
			Key:       components.RecentSectionKey,
			Title:     "📌 Recently Used",
			Cards:     cards,
			Collapsed: m.recentCollapsed,
		})
	}

	if m.showAll {
		for _, category := range m.order {
			products := m.merged[category]
			if len(products) == 0 {
				continue
			}
			cards := make([]components.Card, 0, len(products))
			for _, p := range products {
				cards = append(cards, components.Card{
					Product:  p,
					Category: category,
					OnList:   models.OnList(m.onList, p.Name),
				})
			}
			out = append(out, m.categorySection(category, cards))
		}
		return out
	}

	grouped := catalog.GroupOnList(m.onList, m.merged, m.order)
	for _, summary := range grouped.Unmatched {
		grouped.ByCategory[models.OtherCategory] = append(grouped.ByCategory[models.OtherCategory],
			models.Product{Name: summary, Icon: models.DefaultIcon})
	}

	order := m.order
	if _, ok := m.merged[models.OtherCategory]; !ok && len(grouped.Unmatched) > 0 {
		order = append(append([]string{}, order...), models.OtherCategory)
	}
	for _, category := range order {
		products := grouped.ByCategory[category]
		if len(products) == 0 {
			continue
		}
		cards := make([]components.Card, 0, len(products))
		for _, p := range products {
			cards = append(cards, components.Card{Product: p, Category: category, OnList: true})
		}
		out = append(out, m.categorySection(category, cards))
	}
	return out
}

func (m *Model) categorySection(category string, cards []components.Card) components.Section {
	return components.Section{
		Key:       category,
		Title:     m.app.catalog.Emoji(category) + " " + category,
		Cards:     cards,
		Collapsed: m.collapsed[category],
	}
}

// updateSizes lays out the components for the window size
func (m *Model) updateSizes() {
	contentWidth := m.width - 4
	m.grid.Width = contentWidth
	m.suggestList.SetWidth(contentWidth)
	m.search.Width = max(10, contentWidth-6)
	m.storage.Width = contentWidth
	m.storage.Height = m.height - 6
	m.dialog.Width = min(60, contentWidth)

	// header + search + status bar + help bar
	reserved := 2 + 2 + 4
	if m.searchMode {
		reserved += m.suggestList.Height()
	}
	m.grid.Height = max(3, m.height-reserved)

	if m.screen == ScreenHelp {
		m.helpVP.Width = m.width - 4
		m.helpVP.Height = m.height - 4
	}
}

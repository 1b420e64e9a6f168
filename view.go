package main

import (
	"fmt"
	"strings"

	"shoplist/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	switch m.screen {
	case ScreenDialog:
		return m.renderDialog()
	case ScreenStorage:
		return m.renderStorage()
	default:
		return m.renderMain()
	}
}

func (m *Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.screen == ScreenHelp:
		b.WriteString(m.helpVP.View())

	case m.entityMissing:
		placeholder := ui.PanelStyle.
			BorderForeground(ui.Warning).
			Render("Entity not found: " + m.app.cfg.TodoList)
		b.WriteString("\n")
		b.WriteString(placeholder)

	default:
		b.WriteString(m.renderSearch())
		b.WriteString("\n")
		if m.searchMode && m.suggestList.IsVisible() {
			b.WriteString(m.suggestList.View())
			b.WriteString("\n")
		}
		b.WriteString(m.grid.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return ui.AppStyle.Render(b.String())
}

func (m *Model) renderHeader() string {
	title := ui.TitleStyle.Render("🛒 Shopping List")
	ver := ui.VersionStyle.Render("v" + version)
	entity := "  " + m.app.cfg.TodoList

	if !m.entity.LastUpdated.IsZero() {
		entity += " · updated " + m.entity.LastUpdated.Local().Format("15:04:05")
	}

	mode := ""
	if m.showAll {
		mode = "  [all products]"
	}
	return ui.HeaderStyle.Render(title + "  " + ver + entity + mode)
}

func (m *Model) renderSearch() string {
	if m.searchMode {
		return ui.ActivePanelStyle.Width(max(10, m.width-6)).Render(m.search.View())
	}
	hint := ui.MutedStyle.Render("Press / to search products")
	return ui.PanelStyle.Width(max(10, m.width-6)).Render(hint)
}

func (m *Model) renderDialog() string {
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		m.dialog.View(),
	)
}

func (m *Model) renderStorage() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.storage.View())
	return ui.AppStyle.Render(b.String())
}

func (m *Model) renderStatusBar() string {
	var stats []string
	stats = append(stats, fmt.Sprintf("On list: %d", len(m.onList)))
	stats = append(stats, fmt.Sprintf("Recent: %d", len(m.recent)))
	if n := m.custom.Len(); n > 0 {
		stats = append(stats, fmt.Sprintf("Custom: %d (%s)", n, m.customSource))
	}

	// Style status message based on content
	styledStatus := ui.StatusTextStyle.Render(m.status)
	if strings.HasPrefix(m.status, "✓") {
		styledStatus = ui.RenderNotification("success", strings.TrimPrefix(m.status, "✓ "))
	} else if strings.HasPrefix(m.status, "Error") {
		styledStatus = ui.RenderNotification("error", m.status)
	} else if strings.Contains(m.status, "stopped") {
		styledStatus = ui.RenderNotification("warning", m.status)
	}

	return ui.StatusBarStyle.Render(styledStatus + "  •  " + strings.Join(stats, "  •  "))
}

func (m *Model) renderHelpBar() string {
	// Show different help bar based on current screen
	switch {
	case m.screen == ScreenHelp:
		scrollPct := fmt.Sprintf("%d%%", int(m.helpVP.ScrollPercent()*100))
		items := []string{
			ui.RenderHelpItem("↑↓/j/k", "scroll"),
			ui.RenderHelpItem("esc/?", "close"),
			ui.RenderHelpItem(scrollPct, ""),
		}
		return ui.HelpBarStyle.Render(strings.Join(items, "  "))

	case m.searchMode:
		items := []string{
			ui.RenderHelpItem("↑↓", "choose"),
			ui.RenderHelpItem("enter", "add"),
			ui.RenderHelpItem("esc", "cancel"),
		}
		return ui.HelpBarStyle.Render("🔍 " + strings.Join(items, "  "))
	}

	items := []string{
		ui.RenderHelpItem("space", "add/remove"),
		ui.RenderHelpItem("/", "search"),
		ui.RenderHelpItem("a", "all"),
		ui.RenderHelpItem("n", "new"),
		ui.RenderHelpItem("c", "collapse"),
		ui.RenderHelpItem("v", "layout"),
		ui.RenderHelpItem("?", "help"),
		ui.RenderHelpItem("q", "quit"),
	}
	return ui.HelpBarStyle.Render(strings.Join(items, "  "))
}

func (m *Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(ui.CategoryStyle.Render("⌨️  Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"🛒 List", [][2]string{
			{"space/enter", "Put the product on the list, or take it off"},
			{"/", "Search products, enter adds the highlighted one"},
			{"n", "Create a new product"},
			{"a", "Show every product instead of the list"},
		}},
		{"🧭 Navigation", [][2]string{
			{"↑↓←→ / hjkl", "Move between products"},
			{"tab/shift+tab", "Next / previous category"},
			{"g / G", "First / last"},
			{"c", "Collapse the current category"},
			{"r", "Collapse Recently Used"},
		}},
		{"⚙️  Other", [][2]string{
			{"v", "Switch between grid and list"},
			{"s", "Custom product storage"},
			{"R", "Refresh"},
			{"?", "This help"},
			{"q", "Quit"},
		}},
	}

	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ui.MutedStyle.Render("  ─── " + section.title + " ───"))
		b.WriteString("\n")
		for _, bind := range section.bindings {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				ui.HelpKeyStyle.Width(16).Render(bind[0]),
				ui.HelpDescStyle.Render(bind[1]),
			))
		}
	}

	return b.String()
}

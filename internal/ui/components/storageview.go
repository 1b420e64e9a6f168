package components

import (
	"fmt"
	"strings"

	"shoplist/internal/catalog"
	"shoplist/internal/customproducts"
	"shoplist/internal/models"
	"shoplist/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

// StorageMode selects what the storage view shows
type StorageMode int

const (
	StorageJSON StorageMode = iota // Effective custom catalog as JSON
	StorageDiff                    // Local mirror vs shared file
)

// StorageView shows where custom products come from and how the local
// mirror differs from the shared file
type StorageView struct {
	Width  int
	Height int
	Mode   StorageMode

	Source    customproducts.Source
	Effective models.Catalog
	Local     models.Catalog
	Shared    models.Catalog
	SharedErr error

	ScrollOffset int

	highlighter *ui.Highlighter
	diff        *catalog.DiffResult

	addStyle     lipgloss.Style
	deleteStyle  lipgloss.Style
	contextStyle lipgloss.Style
}

// NewStorageView creates a new storage view
func NewStorageView() *StorageView {
	return &StorageView{
		Width:       80,
		Height:      20,
		highlighter: ui.NewHighlighter(),
		addStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6e3a1")),
		deleteStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8")),
		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")),
	}
}

// SetData sets the catalogs to display
func (v *StorageView) SetData(source customproducts.Source, effective, local, shared models.Catalog, sharedErr error) {
	v.Source = source
	v.Effective = effective
	v.Local = local
	v.Shared = shared
	v.SharedErr = sharedErr
	v.diff = catalog.Diff(local, shared)
	v.ScrollOffset = 0
}

// ToggleMode switches between the JSON and diff views
func (v *StorageView) ToggleMode() {
	if v.Mode == StorageJSON {
		v.Mode = StorageDiff
	} else {
		v.Mode = StorageJSON
	}
	v.ScrollOffset = 0
}

// ScrollUp scrolls up by one line
func (v *StorageView) ScrollUp() {
	if v.ScrollOffset > 0 {
		v.ScrollOffset--
	}
}

// ScrollDown scrolls down by one line
func (v *StorageView) ScrollDown() {
	if v.ScrollOffset < len(v.lines())-1 {
		v.ScrollOffset++
	}
}

// InSync reports whether the local mirror matches the shared file
func (v *StorageView) InSync() bool {
	return v.diff == nil || v.diff.Identical
}

// View renders the storage view
func (v *StorageView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, v.Width-2))))
	b.WriteString("\n")

	lines := v.lines()
	visible := v.Height - 4
	if visible < 1 {
		visible = 10
	}
	start := min(v.ScrollOffset, max(0, len(lines)-1))
	end := min(start+visible, len(lines))
	b.WriteString(strings.Join(lines[start:end], "\n"))

	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

func (v *StorageView) renderHeader() string {
	title := ui.CategoryStyle.Render("Custom products")
	count := ui.MutedStyle.Render(fmt.Sprintf("  %d products", v.Effective.Len()))
	source := ui.MutedStyle.Render("  source: " + v.Source.String())

	var status string
	switch {
	case v.SharedErr != nil:
		status = ui.RenderNotification("warning", "shared file unavailable")
	case v.InSync():
		status = ui.RenderNotification("success", "in sync")
	default:
		status = ui.RenderNotification("info", fmt.Sprintf("+%d -%d", v.diff.LinesAdded, v.diff.LinesRemoved))
	}
	return title + count + source + "  " + status
}

func (v *StorageView) lines() []string {
	if v.Mode == StorageDiff {
		return v.diffLines()
	}
	return v.highlighter.HighlightJSON(catalog.MarshalPretty(v.Effective))
}

func (v *StorageView) diffLines() []string {
	if v.SharedErr != nil {
		return []string{ui.ErrorTextStyle.Render(v.SharedErr.Error())}
	}
	if v.InSync() {
		return []string{ui.MutedStyle.Render("Local copy matches the shared file")}
	}

	maxWidth := max(10, v.Width-4)
	out := make([]string, 0, len(v.diff.Lines))
	for _, line := range v.diff.Lines {
		content := truncate(line.Content, maxWidth)
		switch line.Type {
		case catalog.DiffInsert:
			out = append(out, v.addStyle.Render("+ "+content))
		case catalog.DiffDelete:
			out = append(out, v.deleteStyle.Render("- "+content))
		default:
			out = append(out, v.contextStyle.Render("  ")+v.highlighter.HighlightLine(content, "json"))
		}
	}
	return out
}

func (v *StorageView) renderFooter() string {
	mode := "diff local/shared"
	if v.Mode == StorageDiff {
		mode = "show json"
	}
	items := []string{
		ui.RenderHelpItem("j/k", "scroll"),
		ui.RenderHelpItem("tab", mode),
		ui.RenderHelpItem("esc", "close"),
	}
	return ui.HelpBarStyle.Render(strings.Join(items, "  "))
}

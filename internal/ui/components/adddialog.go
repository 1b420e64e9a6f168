package components

import (
	"strings"

	"shoplist/internal/customproducts"
	"shoplist/internal/models"
	"shoplist/internal/ui"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DialogField is a focusable field of the add-product dialog
type DialogField int

const (
	FieldName DialogField = iota
	FieldCategory
	FieldIcon
	FieldImage
	FieldSave
	FieldCancel
	fieldCount
)

// AddDialog is the form for creating a custom product
type AddDialog struct {
	Categories  []string
	CategoryIdx int
	Field       DialogField
	Width       int
	Visible     bool
	NameInvalid bool

	name  textinput.Model
	icon  textinput.Model
	image textinput.Model
}

// NewAddDialog creates a new add-product dialog
func NewAddDialog() *AddDialog {
	name := textinput.New()
	name.Placeholder = "e.g. 🥭 Mango"
	name.CharLimit = 80
	name.Width = 40

	icon := textinput.New()
	icon.Placeholder = models.DefaultIcon
	icon.CharLimit = 64
	icon.Width = 40

	image := textinput.New()
	image.Placeholder = "https://… (optional)"
	image.CharLimit = 512
	image.Width = 40

	return &AddDialog{
		Width: 60,
		name:  name,
		icon:  icon,
		image: image,
	}
}

// Show opens the dialog with the name prefilled
func (d *AddDialog) Show(name string, categories []string) tea.Cmd {
	d.Categories = categories
	d.CategoryIdx = len(categories) - 1
	for i, c := range categories {
		if c == models.OtherCategory {
			d.CategoryIdx = i
			break
		}
	}
	if d.CategoryIdx < 0 {
		d.CategoryIdx = 0
	}

	d.name.SetValue(strings.TrimSpace(name))
	d.name.CursorEnd()
	d.icon.SetValue("")
	d.image.SetValue("")
	d.NameInvalid = false
	d.Visible = true
	return d.focus(FieldName)
}

// Hide hides the dialog
func (d *AddDialog) Hide() {
	d.Visible = false
	d.name.Blur()
	d.icon.Blur()
	d.image.Blur()
}

// IsVisible returns whether the dialog is visible
func (d *AddDialog) IsVisible() bool {
	return d.Visible
}

// NextField moves focus to the next field
func (d *AddDialog) NextField() tea.Cmd {
	return d.focus((d.Field + 1) % fieldCount)
}

// PrevField moves focus to the previous field
func (d *AddDialog) PrevField() tea.Cmd {
	return d.focus((d.Field + fieldCount - 1) % fieldCount)
}

func (d *AddDialog) focus(f DialogField) tea.Cmd {
	d.Field = f
	d.name.Blur()
	d.icon.Blur()
	d.image.Blur()

	if in := d.input(); in != nil {
		return in.Focus()
	}
	return nil
}

func (d *AddDialog) input() *textinput.Model {
	switch d.Field {
	case FieldName:
		return &d.name
	case FieldIcon:
		return &d.icon
	case FieldImage:
		return &d.image
	default:
		return nil
	}
}

// EditingText reports whether a text field has focus
func (d *AddDialog) EditingText() bool {
	return d.input() != nil
}

// NextCategory selects the next category
func (d *AddDialog) NextCategory() {
	if d.CategoryIdx < len(d.Categories)-1 {
		d.CategoryIdx++
	}
}

// PrevCategory selects the previous category
func (d *AddDialog) PrevCategory() {
	if d.CategoryIdx > 0 {
		d.CategoryIdx--
	}
}

// Category returns the selected category
func (d *AddDialog) Category() string {
	if d.CategoryIdx >= 0 && d.CategoryIdx < len(d.Categories) {
		return d.Categories[d.CategoryIdx]
	}
	return models.OtherCategory
}

// Update forwards a message to the focused text field
func (d *AddDialog) Update(msg tea.Msg) tea.Cmd {
	in := d.input()
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if d.Field == FieldName && strings.TrimSpace(d.name.Value()) != "" {
		d.NameInvalid = false
	}
	return cmd
}

// Input returns the form data
func (d *AddDialog) Input() customproducts.FormInput {
	return customproducts.FormInput{
		Name:     d.name.Value(),
		Category: d.Category(),
		Icon:     d.icon.Value(),
		Image:    d.image.Value(),
	}
}

// Submit returns the form data. An empty name marks the field invalid,
// focuses it and returns false.
func (d *AddDialog) Submit() (customproducts.FormInput, tea.Cmd, bool) {
	in := d.Input()
	if strings.TrimSpace(in.Name) == "" {
		d.NameInvalid = true
		return in, d.focus(FieldName), false
	}
	return in, nil, true
}

// View renders the dialog
func (d *AddDialog) View() string {
	if !d.Visible {
		return ""
	}

	var b strings.Builder

	b.WriteString(ui.CategoryStyle.Render("Add new product"))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, d.Width-6))))
	b.WriteString("\n\n")

	b.WriteString(d.renderLabel("Name", FieldName))
	b.WriteString("\n")
	b.WriteString(d.name.View())
	if d.NameInvalid {
		b.WriteString("\n")
		b.WriteString(ui.ErrorTextStyle.Render("⚠ " + customproducts.ErrNameRequired.Error()))
	}
	b.WriteString("\n\n")

	b.WriteString(d.renderLabel("Category", FieldCategory))
	b.WriteString("\n")
	b.WriteString(d.renderCategory())
	b.WriteString("\n\n")

	b.WriteString(d.renderLabel("Icon", FieldIcon))
	b.WriteString("\n")
	b.WriteString(d.icon.View())
	b.WriteString("\n\n")

	b.WriteString(d.renderLabel("Image URL", FieldImage))
	b.WriteString("\n")
	b.WriteString(d.image.View())
	b.WriteString("\n\n")

	b.WriteString(ui.RenderButton("Save", d.Field == FieldSave))
	b.WriteString("  ")
	b.WriteString(ui.RenderButton("Cancel", d.Field == FieldCancel))
	b.WriteString("\n\n")
	b.WriteString(d.renderHelp())

	style := ui.DialogStyle.Width(d.Width)
	if d.NameInvalid {
		style = style.BorderForeground(ui.Error)
	}
	return style.Render(b.String())
}

func (d *AddDialog) renderLabel(label string, field DialogField) string {
	if field == FieldName && d.NameInvalid {
		return ui.ErrorTextStyle.Render(label + " *")
	}
	if d.Field == field {
		return ui.CursorStyle.Render("▸ " + label)
	}
	return ui.MutedStyle.Render("  " + label)
}

func (d *AddDialog) renderCategory() string {
	if len(d.Categories) == 0 {
		return ui.MutedStyle.Render(models.OtherCategory)
	}
	text := "◂ " + d.Category() + " ▸"
	if d.Field == FieldCategory {
		return ui.SelectedItemStyle.Render(text)
	}
	return text
}

// renderHelp renders the help bar
func (d *AddDialog) renderHelp() string {
	items := []string{
		ui.RenderHelpItem("Tab", "next field"),
	}
	if d.Field == FieldCategory {
		items = append(items, ui.RenderHelpItem("←/→", "category"))
	}
	items = append(items,
		ui.RenderHelpItem("Enter", "save"),
		ui.RenderHelpItem("Esc", "cancel"),
	)
	return strings.Join(items, "  ")
}

package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/mutation"
)

// formField pairs an input with the name validation errors are keyed by.
type formField struct {
	label string
	name  string
	input textinput.Model
}

// productForm is the create/edit modal.
type productForm struct {
	fields  []formField
	focus   int
	errs    mutation.ValidationErrors
	err     string
	editing *catalog.Product // nil when creating
}

func newProductForm(editing *catalog.Product) productForm {
	var draft mutation.Draft
	if editing != nil {
		draft = mutation.DraftFrom(*editing)
	}

	mk := func(label, name, value, placeholder string, limit int) formField {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 48
		ti.SetValue(value)
		ti.CursorEnd()
		return formField{label: label, name: name, input: ti}
	}

	f := productForm{
		editing: editing,
		fields: []formField{
			mk("Title", "title", draft.Title, "Classic Sneakers", 120),
			mk("Price", "price", draft.Price, "49.99", 20),
			mk("Description", "description", draft.Description, "Optional", 500),
			mk("Category ID", "category", draft.CategoryID, "1", 10),
			mk("Images", "images", draft.Images, "https://... (comma separated)", 1000),
		},
	}
	f.fields[0].input.Focus()
	return f
}

func (f productForm) draft() mutation.Draft {
	return mutation.Draft{
		Title:       f.fields[0].input.Value(),
		Price:       f.fields[1].input.Value(),
		Description: f.fields[2].input.Value(),
		CategoryID:  f.fields[3].input.Value(),
		Images:      f.fields[4].input.Value(),
	}
}

func (f *productForm) setFocus(i int) tea.Cmd {
	n := len(f.fields)
	i = ((i % n) + n) % n
	f.fields[f.focus].input.Blur()
	f.focus = i
	return f.fields[i].input.Focus()
}

func (f productForm) onLastField() bool { return f.focus == len(f.fields)-1 }

func (m Model) openForm(editing *catalog.Product) (tea.Model, tea.Cmd) {
	if m.coord == nil {
		m.banner = warnBanner("Editing is unavailable without an API connection")
		return m, nil
	}
	m.form = newProductForm(editing)
	m.mode = modeForm
	return m, textinput.Blink
}

// handleFormKey moves between fields and submits. Letter keys always go to
// the focused input, so navigation only uses tab and the arrow keys.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		return m, nil
	case key.Matches(msg, m.keys.Tab), msg.Type == tea.KeyDown:
		return m, m.form.setFocus(m.form.focus + 1)
	case key.Matches(msg, m.keys.ShiftTab), msg.Type == tea.KeyUp:
		return m, m.form.setFocus(m.form.focus - 1)
	case key.Matches(msg, m.keys.SubmitForm):
		return m.submitForm()
	case key.Matches(msg, m.keys.Confirm):
		if m.form.onLastField() {
			return m.submitForm()
		}
		return m, m.form.setFocus(m.form.focus + 1)
	}

	var cmd tea.Cmd
	field := &m.form.fields[m.form.focus]
	field.input, cmd = field.input.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.form.err = ""
	m.form.errs = nil

	in, err := m.form.draft().Input()
	if err != nil {
		var verrs mutation.ValidationErrors
		if errors.As(err, &verrs) {
			m.form.errs = verrs
		} else {
			m.form.err = describeError(err)
		}
		return m, nil
	}

	m.pending = true
	if m.form.editing != nil {
		return m, m.updateCmd(m.form.editing.ID, in)
	}
	return m, m.createCmd(in)
}

func (m Model) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ConfirmYes):
		if m.pending || m.coord == nil {
			return m, nil
		}
		m.pending = true
		return m, m.deleteCmd(m.deleteTarget.ID)
	case key.Matches(msg, m.keys.ConfirmNo):
		if !m.pending {
			m.mode = modeBrowse
		}
	}
	return m, nil
}

func (m Model) handleWriteDone(msg writeDoneMsg) (tea.Model, tea.Cmd) {
	m.pending = false

	if msg.err == nil {
		m.closeWriteModal()
		switch msg.op {
		case opCreate:
			m.banner = successBanner(fmt.Sprintf("Created product #%d", msg.id))
		case opUpdate:
			m.banner = successBanner(fmt.Sprintf("Updated product #%d", msg.id))
		case opDelete:
			m.banner = successBanner(fmt.Sprintf("Deleted product #%d", msg.id))
		}
		return m, nil
	}

	var reconcile *mutation.ReconcileError
	if errors.As(msg.err, &reconcile) {
		m.closeWriteModal()
		m.banner = warnBanner("Saved, but the list could not be refreshed. Press r to reload.")
		return m, nil
	}

	// Keep the form open so the input is not lost.
	if m.mode == modeForm && msg.op != opDelete {
		var verrs mutation.ValidationErrors
		if errors.As(msg.err, &verrs) {
			m.form.errs = verrs
		} else {
			m.form.err = describeError(msg.err)
		}
		return m, nil
	}

	m.closeWriteModal()
	m.banner = errorBanner(capitalize(msg.op.String()) + " failed: " + describeError(msg.err))
	return m, nil
}

func (m *Model) closeWriteModal() {
	if m.mode == modeForm || m.mode == modeConfirmDelete {
		m.mode = modeBrowse
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	title := "New product"
	if f.editing != nil {
		title = fmt.Sprintf("Edit product #%d", f.editing.ID)
	}

	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(field.label))
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		label := padRight(field.label, labelWidth)
		if i == f.focus {
			b.WriteString(styles.AccentText.Render("› " + label))
		} else {
			b.WriteString(styles.MutedText.Render("  " + label))
		}
		b.WriteString("  ")
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msg := f.errs.Field(field.name); msg != "" {
			b.WriteString(strings.Repeat(" ", labelWidth+4))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.pending {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("tab next field · ctrl+s save · esc cancel"))
	}

	return m.renderModal(b.String(), 72, m.theme.Accent)
}

func (m Model) renderDeleteConfirm() string {
	styles := m.theme.Styles()
	p := m.deleteTarget

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete product?"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("#%d  %s", p.ID, truncate(oneLine(p.Title), 48))))
	b.WriteString("\n")
	if cat := p.CategoryName(); cat != "" {
		b.WriteString(styles.MutedText.Render(cat + " · " + formatPrice(p.Price)))
	} else {
		b.WriteString(styles.MutedText.Render(formatPrice(p.Price)))
	}
	b.WriteString("\n\n")
	if m.pending {
		b.WriteString(styles.WarningText.Render("Deleting..."))
	} else {
		b.WriteString(styles.FaintText.Render("y confirm · n cancel"))
	}

	return m.renderModal(b.String(), 56, m.theme.Danger)
}

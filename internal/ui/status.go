package ui

import (
	"strings"
)

// renderLoading is shown until the first product list arrives.
func (m Model) renderLoading() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Logo.Render("stockroom"))
	b.WriteString("\n\n")
	b.WriteString(styles.WarningText.Bold(true).Render("Loading products..."))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(truncateMiddle(m.config.APIURL, 60)))
	return m.renderModal(b.String(), 50, m.theme.Border)
}

// renderLoadError replaces the dashboard when the first load failed.
func (m Model) renderLoadError() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Could not load products"))
	b.WriteString("\n\n")
	for _, line := range wrap(describeError(m.snapshot.LoadError), 52) {
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render(truncateMiddle(m.config.APIURL, 52)))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("r"))
	b.WriteString(styles.MutedText.Render(" retry  "))
	b.WriteString(styles.AccentText.Render("q"))
	b.WriteString(styles.MutedText.Render(" quit"))
	return m.renderModal(b.String(), 60, m.theme.Danger)
}

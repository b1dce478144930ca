package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderDetail renders the product detail overlay.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	p := m.detail
	width := min(max(m.width-8, 40), 90)
	inner := width - 6

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Muted)).
		Width(12)
	row := func(label, value string) string {
		return labelStyle.Render(label) + styles.Text.Render(value) + "\n"
	}

	var b strings.Builder
	tier := m.policy.Tier(p)
	b.WriteString(styles.AccentText.Bold(true).Render(truncate(oneLine(p.Title), inner-12)))
	b.WriteString("  ")
	b.WriteString(styles.BadgeStyle(tier).Render(string(tier)))
	b.WriteString("\n\n")

	b.WriteString(row("ID", fmt.Sprintf("%d", p.ID)))
	if p.Slug != "" {
		b.WriteString(row("Slug", p.Slug))
	}
	b.WriteString(row("Price", formatPrice(p.Price)))
	if p.Category != nil {
		b.WriteString(row("Category", fmt.Sprintf("%s (#%d)", p.Category.Name, p.Category.ID)))
	} else {
		b.WriteString(row("Category", "-"))
	}
	b.WriteString(row("Created", describeTimestamp(p.CreatedAt, p.ParsedCreatedAt())))
	b.WriteString(row("Updated", describeTimestamp(p.UpdatedAt, p.ParsedUpdatedAt())))

	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Description"))
	b.WriteString("\n")
	if lines := wrap(p.Description, inner); len(lines) > 0 {
		for _, line := range lines {
			b.WriteString(styles.Text.Render(line))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(styles.FaintText.Render("No description"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("Images (%d)", len(p.Images))))
	b.WriteString("\n")
	for _, img := range p.Images {
		b.WriteString(styles.InfoText.Render(truncateMiddle(img, inner)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if note := m.detailNote; !note.empty() {
		b.WriteString(m.bannerStyle(note.level, styles).Render(note.text))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("e edit · d delete · r refresh · esc close"))

	return m.renderModal(b.String(), width, m.theme.Accent)
}

// describeTimestamp formats a timestamp as "2024-05-01 10:30 (3 days ago)".
func describeTimestamp(raw string, t time.Time) string {
	switch {
	case raw == "":
		return "-"
	case t.IsZero():
		return raw
	}
	return t.Local().Format("2006-01-02 15:04") + " (" + humanize.Time(t) + ")"
}

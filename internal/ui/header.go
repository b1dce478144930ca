package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/stockroom/internal/query"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	snap := m.snapshot
	var parts []string
	parts = append(parts, bg.Render("stockroom", styles.Logo))

	// Connection indicator
	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case snap.LoadError != nil:
		parts = append(parts, bg.Render("● STALE", styles.WarningText))
	default:
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	// Counts
	count := fmt.Sprintf("%d", len(snap.Products))
	if snap.SearchTerm != "" {
		count = fmt.Sprintf("%d/%d", len(snap.Filtered), len(snap.Products))
	}
	parts = append(parts,
		bg.Render("Products:", styles.MutedText)+bg.Space()+bg.Render(count, styles.Text))

	if snap.SortKey != query.KeyNone {
		parts = append(parts,
			bg.Render("Sort:", styles.MutedText)+bg.Space()+
				bg.Render(string(snap.SortKey)+" "+sortArrow(snap.SortDirection), styles.AccentText))
	}

	if m.pending {
		parts = append(parts, bg.Render("Saving...", styles.WarningText.Bold(true)))
	} else if m.loading {
		parts = append(parts, bg.Render("Refreshing...", styles.InfoText))
	}

	if !compact && !snap.LastUpdated.IsZero() {
		parts = append(parts,
			bg.Render("updated", styles.FaintText)+bg.Space()+
				bg.Render(humanize.Time(snap.LastUpdated), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"1-6", "Sort"},
		{"←/→", "Page"},
		{"n", "New"},
		{"e", "Edit"},
		{"d", "Delete"},
		{"x", "Export"},
		{"r", "Reload"},
		{"?", "More"},
	}
	if m.width < LayoutCompactWidth {
		commands = []cmd{
			{"/", "Search"},
			{"←/→", "Page"},
			{"n/e/d", "Edit"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine shows the search input while searching, otherwise the
// banner or the active search term.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()

	if m.mode == modeSearch {
		return lipgloss.NewStyle().Width(m.width).Render(m.searchInput.View())
	}
	if !m.banner.empty() {
		style := m.bannerStyle(m.banner.level, styles)
		return " " + style.Render(truncate(m.banner.text, m.width-2))
	}
	if m.snapshot.SearchTerm != "" {
		return " " + styles.MutedText.Render("Search:") + " " +
			styles.AccentText.Render(truncate(m.snapshot.SearchTerm, m.width-20)) + "  " +
			styles.FaintText.Render("(/ to change)")
	}
	return ""
}

func (m Model) bannerStyle(level bannerLevel, styles Styles) lipgloss.Style {
	switch level {
	case bannerSuccess:
		return styles.SuccessText
	case bannerWarning:
		return styles.WarningText
	case bannerError:
		return styles.DangerText
	default:
		return styles.InfoText
	}
}

func sortArrow(dir query.Direction) string {
	if dir == query.Descending {
		return "↓"
	}
	return "↑"
}

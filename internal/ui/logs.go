package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderActivity renders the activity log overlay: the tail of the
// application's own log file, newest last.
func (m Model) renderActivity() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	height := max(m.height-1, 5)
	inner := max(m.width-2, 10)
	visible := height - 2

	var lines []string
	switch {
	case m.config.LogFile == "":
		lines = []string{styles.MutedText.Render("Logging is disabled. Set log_file in the config to record activity.")}
	case m.activityErr != nil:
		lines = []string{styles.DangerText.Render("Failed to read log: " + m.activityErr.Error())}
	case len(m.activity) == 0:
		lines = []string{styles.MutedText.Render("No activity recorded yet")}
	default:
		entries := m.activity
		if len(entries) > visible {
			entries = entries[len(entries)-visible:]
		}
		for _, e := range entries {
			lines = append(lines, m.levelStyle(e.Level, styles).Render(truncate(formatEntry(e), inner)))
		}
	}

	title := "Activity · " + truncateMiddle(m.config.LogFile, max(inner-20, 10))
	box := m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)

	hint := NewBgStyle(m.theme.Surface)
	bar := m.theme.Styles().WithBackground(m.theme.Surface)
	footer := bar.Header.Width(m.width).Render(
		hint.Render("r", bar.AccentText) + hint.Sep(":") + hint.Render("Refresh", bar.MutedText) + hint.Spaces(2) +
			hint.Render("esc", bar.AccentText) + hint.Sep(":") + hint.Render("Close", bar.MutedText))
	return box + "\n" + footer
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.Text
	}
}

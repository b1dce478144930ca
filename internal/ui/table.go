package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/query"
	"github.com/five82/stockroom/internal/view"
)

// column describes one table column. Sortable columns carry their key.
type column struct {
	title string
	key   query.Key
	width int // 0 means flexible
	right bool
}

// columns returns the table columns for the current width.
func (m Model) columns() []column {
	cols := []column{
		{title: "ID", key: query.KeyID, width: 6, right: true},
		{title: "Title", key: query.KeyTitle},
		{title: "Price", key: query.KeyPrice, width: 12, right: true},
		{title: "Category", key: query.KeyCategory, width: 14},
	}
	if m.width >= LayoutTimestampsWidth {
		cols = append(cols,
			column{title: "Created", key: query.KeyCreatedAt, width: 11},
			column{title: "Updated", key: query.KeyUpdatedAt, width: 11},
		)
	}
	return append(cols, column{title: "Tier", width: 10})
}

// renderMain renders the browse screen.
func (m Model) renderMain() string {
	page := m.snapshot.View()
	tableHeight := max(m.height-chromeHeight+3, 4)

	sections := []string{
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderStatusLine(),
		m.renderTitledBox(m.tableTitle(page), m.renderTable(page, tableHeight-3), m.width, tableHeight, m.mode == modeBrowse),
		m.renderFooter(page),
	}
	return strings.Join(sections, "\n")
}

func (m Model) tableTitle(page view.Page) string {
	if m.snapshot.SearchTerm != "" {
		return "Products · " + pluralize(page.TotalItems, "result")
	}
	return "Products"
}

// renderTable renders the column header plus up to visible rows of the
// current page, scrolled so the cursor stays in view.
func (m Model) renderTable(page view.Page, visible int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	cols := m.columns()
	widths := m.columnWidths(cols)

	var lines []string
	lines = append(lines, m.renderColumnHeader(cols, widths, styles))

	if page.Empty() {
		msg := "No products loaded"
		if m.snapshot.SearchTerm != "" {
			msg = fmt.Sprintf("No products match %q", m.snapshot.SearchTerm)
		}
		lines = append(lines, "", " "+styles.MutedText.Render(msg))
		return strings.Join(lines, "\n")
	}

	visible = max(visible, 1)
	offset := max(0, m.selectedRow-visible+1)
	end := min(offset+visible, len(page.Rows))
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderRow(page.Rows[i], cols, widths, i == m.selectedRow, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) columnWidths(cols []column) []int {
	inner := max(m.width-2, 20)
	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1 // one space gap
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = c.width
		if c.width == 0 {
			widths[i] = max(inner-fixed-1, 10)
		}
	}
	return widths
}

func (m Model) renderColumnHeader(cols []column, widths []int, styles Styles) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		label := c.title
		style := styles.MutedText.Bold(true)
		if c.key != query.KeyNone && c.key == m.snapshot.SortKey {
			label += " " + sortArrow(m.snapshot.SortDirection)
			style = styles.AccentText.Bold(true)
		}
		cells[i] = style.Render(align(label, widths[i], c.right))
	}
	return " " + strings.Join(cells, " ")
}

func (m Model) renderRow(p catalog.Product, cols []column, widths []int, selected bool, styles Styles) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = align(cellText(p, c.title, widths[i]), widths[i], c.right)
	}

	tier := m.policy.Tier(p)
	badgeIdx := len(cols) - 1
	cells[badgeIdx] = ""

	if selected {
		sel := lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SelectionBg)).
			Foreground(lipgloss.Color(m.theme.SelectionText)).
			Bold(true)
		line := sel.Render("›" + strings.Join(cells[:badgeIdx], " ") + " ")
		return line + styles.BadgeStyle(tier).Render(string(tier))
	}
	return " " + styles.Text.Render(strings.Join(cells[:badgeIdx], " ")) + " " +
		styles.BadgeStyle(tier).Render(string(tier))
}

func cellText(p catalog.Product, title string, width int) string {
	switch title {
	case "ID":
		return fmt.Sprintf("%d", p.ID)
	case "Title":
		return truncate(oneLine(p.Title), width)
	case "Price":
		return formatPrice(p.Price)
	case "Category":
		return truncate(p.CategoryName(), width)
	case "Created":
		return formatDate(p.CreatedAt, p.ParsedCreatedAt())
	case "Updated":
		return formatDate(p.UpdatedAt, p.ParsedUpdatedAt())
	}
	return ""
}

// formatDate shows the day of a timestamp, or the raw value when it does
// not parse.
func formatDate(raw string, t time.Time) string {
	switch {
	case raw == "":
		return "-"
	case t.IsZero():
		return truncate(raw, 10)
	}
	return t.Format("2006-01-02")
}

// formatPrice renders a price with thousands separators, e.g. $1,299.50.
func formatPrice(d decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

func align(s string, width int, right bool) string {
	s = truncate(s, width)
	if right {
		return padLeft(s, width)
	}
	return padRight(s, width)
}

// renderFooter shows the visible range and the page window.
func (m Model) renderFooter(page view.Page) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var left string
	if page.Empty() {
		left = bg.Render("Showing 0 of 0", styles.MutedText)
	} else {
		left = bg.Render(fmt.Sprintf("Showing %d-%d of %d", page.Start, page.End, page.TotalItems), styles.MutedText)
	}
	left += bg.Spaces(2) + bg.Render(fmt.Sprintf("%d per page", page.PageSize), styles.FaintText)

	prevStyle, nextStyle := styles.AccentText, styles.AccentText
	if !page.HasPrev() {
		prevStyle = styles.FaintText
	}
	if !page.HasNext() {
		nextStyle = styles.FaintText
	}

	parts := []string{bg.Render("‹ Prev", prevStyle)}
	window := view.Window(page.Page, page.TotalPages, view.DefaultWindow)
	if window[0] > 1 {
		parts = append(parts, bg.Render("…", styles.FaintText))
	}
	for _, n := range window {
		label := fmt.Sprintf("%d", n)
		if n == page.Page {
			parts = append(parts, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
		} else {
			parts = append(parts, bg.Render(label, styles.MutedText))
		}
	}
	if window[len(window)-1] < page.TotalPages {
		parts = append(parts, bg.Render("…", styles.FaintText))
	}
	parts = append(parts, bg.Render("Next ›", nextStyle))
	right := bg.Join(parts, " ")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

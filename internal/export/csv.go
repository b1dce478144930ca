// Package export renders product lists as CSV documents.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/five82/stockroom/internal/catalog"
)

// Header is the fixed column order of every export.
var Header = []string{
	"ID",
	"Title",
	"Price",
	"Description",
	"Category",
	"Category ID",
	"Slug",
	"Image Count",
	"First Image",
	"Created At",
	"Updated At",
}

// Scope names the subset being exported.
type Scope struct {
	page int // zero means all rows
}

// All exports the whole filtered view.
func All() Scope { return Scope{} }

// PageScope exports the rows of page n.
func PageScope(n int) Scope { return Scope{page: max(n, 1)} }

// IsAll reports whether the scope covers the whole filtered view.
func (s Scope) IsAll() bool { return s.page == 0 }

// Page returns the page number, or zero for All.
func (s Scope) Page() int { return s.page }

func (s Scope) String() string {
	if s.IsAll() {
		return "all"
	}
	return "page-" + strconv.Itoa(s.page)
}

// ParseScope accepts "all" or "page-N".
func ParseScope(raw string) (Scope, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return All(), nil
	}
	if rest, ok := strings.CutPrefix(raw, "page-"); ok {
		n, err := strconv.Atoi(rest)
		if err == nil && n >= 1 {
			return PageScope(n), nil
		}
	}
	return Scope{}, fmt.Errorf("invalid export scope %q (want all or page-N)", raw)
}

// CSV renders the header and one row per product, joined by "\n".
func CSV(products []catalog.Product) string {
	var b strings.Builder
	writeRow(&b, Header)
	for _, p := range products {
		b.WriteByte('\n')
		writeRow(&b, Row(p))
	}
	return b.String()
}

// Row returns the unescaped fields for p in Header order.
func Row(p catalog.Product) []string {
	var catID string
	if id := p.CategoryID(); id != 0 {
		catID = strconv.FormatInt(id, 10)
	}
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Title,
		p.Price.String(),
		p.Description,
		p.CategoryName(),
		catID,
		p.Slug,
		strconv.Itoa(len(p.Images)),
		p.FirstImage(),
		timestamp(p.CreatedAt, p.ParsedCreatedAt()),
		timestamp(p.UpdatedAt, p.ParsedUpdatedAt()),
	}
}

// Escape quotes a field containing a comma, quote or line break and doubles
// embedded quotes. Other fields pass through unchanged.
func Escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Filename is products-export-<scope>-<YYYYMMDD-HHMMSS>.csv.
func Filename(scope Scope, now time.Time) string {
	return fmt.Sprintf("products-export-%s-%s.csv", scope, now.Format("20060102-150405"))
}

// WriteFile writes the CSV for products into dir, creating it if needed, and
// returns the path written.
func WriteFile(dir string, scope Scope, products []catalog.Product, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(scope, now))
	if err := os.WriteFile(path, []byte(CSV(products)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(f))
	}
}

// isoMillis is ISO-8601 in UTC with milliseconds, as the API emits it.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func timestamp(raw string, parsed time.Time) string {
	if parsed.IsZero() {
		return raw
	}
	return parsed.UTC().Format(isoMillis)
}

// Package view projects the filtered product list onto the visible page.
package view

import "github.com/five82/stockroom/internal/catalog"

// DefaultWindow is the number of page buttons shown in the footer.
const DefaultWindow = 5

// Page is what the table should show for the current pagination cursor.
type Page struct {
	Rows       []catalog.Product
	Page       int
	PageSize   int
	Start      int // 1-based, inclusive; 0 when there are no rows
	End        int // 1-based, inclusive; 0 when there are no rows
	TotalItems int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// Empty reports whether the view has no rows at all.
func (p Page) Empty() bool { return p.TotalItems == 0 }

// TotalPages returns max(1, ceil(total/pageSize)). A page size below one is
// treated as one.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Project slices the visible rows out of filtered. The returned rows share
// backing storage with filtered; callers must not modify them.
func Project(filtered []catalog.Product, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(filtered)
	pages := TotalPages(total, pageSize)
	page = ClampPage(page, pages)

	out := Page{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: pages,
	}
	if total == 0 {
		return out
	}

	lo := (page - 1) * pageSize
	hi := min(lo+pageSize, total)
	out.Rows = filtered[lo:hi:hi]
	out.Start = lo + 1
	out.End = hi
	return out
}

// Window returns up to size contiguous page numbers centered on page and
// shifted to stay inside [1, totalPages].
func Window(page, totalPages, size int) []int {
	if size < 1 {
		size = DefaultWindow
	}
	if totalPages < 1 {
		totalPages = 1
	}
	page = ClampPage(page, totalPages)

	count := min(size, totalPages)
	start := page - size/2
	start = max(start, 1)
	start = min(start, totalPages-count+1)

	out := make([]int, count)
	for i := range out {
		out[i] = start + i
	}
	return out
}

package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/stockroom/internal/catalog"
)

func products(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = catalog.Product{ID: int64(i + 1)}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{3, 0, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.total, tc.size), "TotalPages(%d, %d)", tc.total, tc.size)
	}
}

func TestProject_PropertyRowCounts(t *testing.T) {
	for total := 0; total <= 23; total++ {
		list := products(total)
		for size := 1; size <= 7; size++ {
			pages := (total + size - 1) / size
			wantPages := max(1, pages)
			for page := 1; page <= wantPages; page++ {
				got := Project(list, page, size)
				require.Equal(t, wantPages, got.TotalPages)
				require.Equal(t, total, got.TotalItems)
				wantRows := 0
				if total > 0 {
					wantRows = min(size, total-(page-1)*size)
				}
				require.Len(t, got.Rows, wantRows, "total=%d size=%d page=%d", total, size, page)
				if wantRows > 0 {
					require.Equal(t, int64((page-1)*size+1), got.Rows[0].ID)
					require.Equal(t, got.Start, (page-1)*size+1)
					require.Equal(t, got.End, got.Start+wantRows-1)
				} else {
					require.Zero(t, got.Start)
					require.Zero(t, got.End)
				}
			}
		}
	}
}

func TestProject_PartialLastPage(t *testing.T) {
	got := Project(products(23), 3, 10)
	assert.Equal(t, 21, got.Start)
	assert.Equal(t, 23, got.End)
	assert.Len(t, got.Rows, 3)
	assert.True(t, got.HasPrev())
	assert.False(t, got.HasNext())
}

func TestProject_EmptyViewIsSinglePage(t *testing.T) {
	got := Project(nil, 4, 10)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 1, got.TotalPages)
	assert.True(t, got.Empty())
	assert.False(t, got.HasPrev())
	assert.False(t, got.HasNext())
	assert.Empty(t, got.Rows)
}

func TestProject_ClampsOutOfRangePages(t *testing.T) {
	list := products(12)
	for _, page := range []int{-3, 0, 1} {
		assert.Equal(t, 1, Project(list, page, 5).Page)
	}
	for _, page := range []int{3, 4, 99} {
		assert.Equal(t, 3, Project(list, page, 5).Page)
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	list := products(5)
	got := Project(list, 1, 2)
	got.Rows = append(got.Rows, catalog.Product{ID: 99})
	assert.Equal(t, int64(3), list[2].ID)
}

func TestWindow(t *testing.T) {
	cases := []struct {
		name        string
		page, total int
		want        []int
	}{
		{"single page", 1, 1, []int{1}},
		{"fewer pages than window", 2, 3, []int{1, 2, 3}},
		{"clamped at start", 1, 10, []int{1, 2, 3, 4, 5}},
		{"near start", 2, 10, []int{1, 2, 3, 4, 5}},
		{"centered", 5, 10, []int{3, 4, 5, 6, 7}},
		{"near end", 9, 10, []int{6, 7, 8, 9, 10}},
		{"clamped at end", 10, 10, []int{6, 7, 8, 9, 10}},
		{"page beyond range", 40, 10, []int{6, 7, 8, 9, 10}},
		{"zero pages", 1, 0, []int{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Window(tc.page, tc.total, DefaultWindow))
		})
	}
}

func TestWindow_AlwaysContainsPage(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for page := 1; page <= total; page++ {
			w := Window(page, total, DefaultWindow)
			require.Contains(t, w, page)
			require.LessOrEqual(t, len(w), DefaultWindow)
			require.GreaterOrEqual(t, w[0], 1)
			require.LessOrEqual(t, w[len(w)-1], total)
		}
	}
}

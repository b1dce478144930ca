package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutTimestampsWidth is the minimum width to show the created and
	// updated columns.
	LayoutTimestampsWidth = 120
)

// Fixed vertical chrome: header, command bar, banner, table borders, column
// header and footer.
const chromeHeight = 7

// Page sizes offered by the +/- keys.
var pageSizeSteps = []int{5, 10, 20, 50}

// Activity log limits.
const activityLines = 200

// nextPageSize returns the next larger (or smaller) step after current.
func nextPageSize(current int, grow bool) int {
	if grow {
		for _, s := range pageSizeSteps {
			if s > current {
				return s
			}
		}
		return pageSizeSteps[len(pageSizeSteps)-1]
	}
	for i := len(pageSizeSteps) - 1; i >= 0; i-- {
		if pageSizeSteps[i] < current {
			return pageSizeSteps[i]
		}
	}
	return pageSizeSteps[0]
}

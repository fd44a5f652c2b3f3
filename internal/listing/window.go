package listing

// windowSize is the maximum number of page buttons shown at once.
const windowSize = 5

// PageWindow returns the page numbers to render for the given current page
// and total page count: all pages when totalPages fits, otherwise a
// five-wide window centered on current and clamped to [1, totalPages].
func PageWindow(current, totalPages int) []int {
	if totalPages < 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	size := windowSize
	if totalPages < size {
		size = totalPages
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > totalPages {
		start = totalPages - size + 1
	}

	pages := make([]int, size)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

package paginator

// DefaultPageSize is the number of rows shown on one dashboard page.
const DefaultPageSize = 10

type Page[T any] struct {
	Items  []T
	Number int
	Count  int
	// Controls is true when rows do not fit on a single page.
	Controls bool
}

// PageCount returns ceil(total/pageSize), at least 1.
func PageCount(total, pageSize int) int {
	pageSize = normalizeSize(pageSize)
	count := (total + pageSize - 1) / pageSize
	return max(1, count)
}

// Clamp limits page to [1, count].
func Clamp(page, count int) int {
	return max(1, min(page, count))
}

func Paginate[T any](rows []T, pageSize, requestedPage int) Page[T] {
	pageSize = normalizeSize(pageSize)
	count := PageCount(len(rows), pageSize)
	number := Clamp(requestedPage, count)

	start := (number - 1) * pageSize
	end := min(number*pageSize, len(rows))

	return Page[T]{
		Items:    rows[start:end],
		Number:   number,
		Count:    count,
		Controls: len(rows) > pageSize,
	}
}

// Next moves one page forward, staying on the last page.
func Next(page, count int) int {
	if page < count {
		return page + 1
	}
	return Clamp(page, count)
}

// Prev moves one page back, staying on the first page.
func Prev(page int) int {
	if page > 1 {
		return page - 1
	}
	return 1
}

func normalizeSize(pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	return pageSize
}

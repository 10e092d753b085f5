package paging

// Metadata describes where a page sits inside the whole result set and which navigation links exist for it
type Metadata struct {
	Page        int
	PageSize    int
	PageCount   int
	LastPage    int
	HasPrevious bool
	HasNext     bool
}

// Compute calculates the page metadata of a result set holding total items, split into pages of pageSize items.
// An empty result set still consists of exactly one (empty) page.
func Compute(total, pageSize, page int) Metadata {
	if page < 1 {
		page = 1
	}
	count := PageCount(total, pageSize)
	return Metadata{
		Page:        page,
		PageSize:    pageSize,
		PageCount:   count,
		LastPage:    count,
		HasPrevious: page > 1 && count > 1,
		HasNext:     page < count,
	}
}

// PageCount returns max(1, ceil(total / pageSize))
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	count := total / pageSize
	if total%pageSize != 0 {
		count++
	}
	return count
}

package paging

// Page holds a single page of entries along with the amount of all entries matching the query
type Page[T any] struct {
	Entries  []T
	Total    int
	PageSize int
}

// NewPage creates a new page. A nil entries slice is replaced by an empty one.
func NewPage[T any](entries []T, total, pageSize int) *Page[T] {
	if entries == nil {
		entries = []T{}
	}
	return &Page[T]{
		Entries:  entries,
		Total:    total,
		PageSize: pageSize,
	}
}

// PageCount returns the amount of pages available for the underlying result set
func (page *Page[T]) PageCount() int {
	return PageCount(page.Total, page.PageSize)
}

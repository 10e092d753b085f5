package paging

// Request represents the page a client asked for
type Request struct {
	Page     int
	PageSize int
}

// Options holds the paging limits of a resource endpoint
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultOptions returns the paging options used when nothing else is configured:
// 30 items per page by default and never more than 200.
func DefaultOptions() Options {
	return Options{
		DefaultPageSize: 30,
		MaxPageSize:     200,
	}
}

// Clamp returns a copy of the request whose page size does not exceed max.
// A non-positive max leaves the page size untouched.
func (request Request) Clamp(max int) Request {
	if max > 0 && request.PageSize > max {
		request.PageSize = max
	}
	return request
}

// EffectivePage returns the requested page, treating everything below 1 as the first page
func (request Request) EffectivePage() int {
	if request.Page < 1 {
		return 1
	}
	return request.Page
}

// Offset returns the number of items to skip to reach the requested page
func (request Request) Offset() int {
	if request.PageSize < 1 {
		return 0
	}
	return (request.EffectivePage() - 1) * request.PageSize
}

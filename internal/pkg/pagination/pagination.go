package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds normalized pagination parameters
type Params struct {
	Page     int
	PageSize int
}

// FromQuery parses page/pageSize query parameters, falling back to defaults
// for missing or non-numeric values
func FromQuery(values url.Values) Params {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err := strconv.Atoi(values.Get("pageSize"))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Params{Page: page, PageSize: size}
}

// Offset returns the number of items to skip for the current page
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size
func (p Params) Limit() int {
	return p.PageSize
}

// TotalPages returns ceil(totalItems / pageSize)
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Slice returns the [start, end) bounds of the current page over a sequence
// of n items. Both bounds are clamped to n.
func (p Params) Slice(n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.PageSize
	if end > n {
		end = n
	}
	return start, end
}

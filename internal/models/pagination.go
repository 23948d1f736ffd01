package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NewPagination normalises page and size; size defaults to 20 and caps at 100.
func NewPagination(page, size, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return &Pagination{Page: page, PageSize: size, TotalCount: total}
}

// Bounds returns the slice window for the current page over TotalCount items.
// Pages past the end yield an empty window; the page number is compared
// before multiplying so huge values cannot overflow.
func (p *Pagination) Bounds() (start, end int) {
	if p.PageSize <= 0 || p.Page < 1 || p.TotalCount <= 0 {
		return 0, 0
	}
	if p.Page-1 > p.TotalCount/p.PageSize {
		return p.TotalCount, p.TotalCount
	}
	start = (p.Page - 1) * p.PageSize
	if start > p.TotalCount {
		start = p.TotalCount
	}
	end = p.TotalCount
	if p.TotalCount-start > p.PageSize {
		end = start + p.PageSize
	}
	return start, end
}

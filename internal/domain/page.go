package domain

// DefaultPageSize is the number of trips shown per search page.
const DefaultPageSize = 8

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to sane defaults (page=1, limit=DefaultPageSize).
// The limit is capped at 100 to prevent runaway queries.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageSize}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Clamp snaps an out-of-range page back into [1, totalPages] given the
// total row count. Requests past the last page land on the last page
// rather than returning an empty result. A zero total leaves Page at 1.
func (p PaginationParams) Clamp(total int64) PaginationParams {
	last := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if last < 1 {
		last = 1
	}
	if p.Page > last {
		p.Page = last
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// TotalPages returns the number of pages needed for total rows, minimum 1.
func (p PaginationParams) TotalPages(total int64) int {
	last := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if last < 1 {
		last = 1
	}
	return last
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

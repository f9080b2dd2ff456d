// Package pager slices an already-fetched result set into fixed-size pages.
package pager

const DefaultPageSize = 10

// PageCount is ceil(totalCount / pageSize). Zero results means zero pages.
func PageCount(totalCount int, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// PageWindow returns results[page*pageSize : min((page+1)*pageSize, len(results))].
// Pages outside the result set yield an empty window.
func PageWindow[T any](results []T, page int, pageSize int) []T {
	if page < 0 || pageSize <= 0 {
		return []T{}
	}
	start := page * pageSize
	if start >= len(results) {
		return []T{}
	}
	end := min(start+pageSize, len(results))

	return results[start:end]
}

// Pager tracks the current page for one result set.
type Pager struct {
	currentPage int
	pageSize    int
	totalPages  int
	totalCount  int
}

func New(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{pageSize: pageSize}
}

// Reset recomputes the page count for a new result set and goes back to the first page.
func (p *Pager) Reset(totalCount int) {
	p.totalCount = max(totalCount, 0)
	p.totalPages = PageCount(p.totalCount, p.pageSize)
	p.currentPage = 0
}

// OnPageChange moves to newPage when 0 <= newPage < TotalPages and reports whether it did.
func (p *Pager) OnPageChange(newPage int) bool {
	if newPage < 0 || newPage >= p.totalPages {
		return false
	}
	p.currentPage = newPage
	return true
}

func (p *Pager) CurrentPage() int { return p.currentPage }

func (p *Pager) PageSize() int { return p.pageSize }

func (p *Pager) TotalPages() int { return p.totalPages }

func (p *Pager) TotalCount() int { return p.totalCount }

func (p *Pager) HasPrevPage() bool { return p.currentPage > 0 }

func (p *Pager) HasNextPage() bool { return p.currentPage < p.totalPages-1 }

// ShowControls is false for a single page or an empty result set.
func (p *Pager) ShowControls() bool { return p.totalPages > 1 }

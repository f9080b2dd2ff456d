package search

import (
	"context"
	"strings"
	"sync"

	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/backend"
	"github.com/meghashyamc/searchfront/services/pager"
)

// Page is the rendered state of a results view.
type Page struct {
	Query       string               `json:"query"`
	Loading     bool                 `json:"loading"`
	Results     []backend.ResultItem `json:"results"`
	TotalCount  int                  `json:"total_count"`
	TotalTime   float64              `json:"total_time"`
	CurrentPage int                  `json:"current_page"`
	PageSize    int                  `json:"page_size"`
	TotalPages  int                  `json:"total_pages"`
	HasPrevPage bool                 `json:"has_prev_page"`
	HasNextPage bool                 `json:"has_next_page"`
}

// View owns the full result set of the last query and the current page into it.
//
// Every Load takes a new sequence number; a response is applied only if its
// number is still the latest, so a slow earlier fetch cannot overwrite a later one.
type View struct {
	mu       sync.Mutex
	logger   logger.Logger
	searcher Searcher
	query    string
	loading  bool
	response *backend.SearchResponse
	pager    *pager.Pager
	seq      uint64
}

func NewView(logger logger.Logger, searcher Searcher, pageSize int) *View {
	return &View{
		logger:   logger,
		searcher: searcher,
		response: emptyResponse(),
		pager:    pager.New(pageSize),
	}
}

// Open handles a navigation to the results page. A request without a page is a
// fresh navigation and always fetches, even for the query already shown. A page
// for the loaded query only moves the page window.
func (v *View) Open(ctx context.Context, query string, page *int) Page {
	if page == nil || query != v.Query() {
		v.Load(ctx, query)
	}
	if page != nil {
		v.ChangePage(*page)
	}

	return v.Page()
}

// Load runs one fetch cycle for query. On resolution the full result set is
// replaced and the page resets to 0. Failures leave an empty result set.
func (v *View) Load(ctx context.Context, query string) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.query = query
	if strings.TrimSpace(query) == "" {
		v.response = emptyResponse()
		v.pager.Reset(0)
		v.loading = false
		v.mu.Unlock()
		return
	}
	v.loading = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		if seq == v.seq {
			v.loading = false
		}
		v.mu.Unlock()
	}()

	response, err := v.searcher.Search(ctx, query)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		v.logger.Debug("discarding superseded search response", "query", query, "seq", seq, "latest", v.seq)
		return
	}
	if err != nil {
		v.logger.Error("search failed", "query", query, "err", err.Error())
		response = emptyResponse()
	}
	v.response = response
	v.pager.Reset(response.TotalCount)
}

// ChangePage moves to newPage when it exists. It never refetches.
func (v *View) ChangePage(newPage int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pager.OnPageChange(newPage)
}

func (v *View) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *View) Page() Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	window := pager.PageWindow(v.response.Results, v.pager.CurrentPage(), v.pager.PageSize())
	return Page{
		Query:       v.query,
		Loading:     v.loading,
		Results:     append([]backend.ResultItem{}, window...),
		TotalCount:  v.response.TotalCount,
		TotalTime:   v.response.TotalTime,
		CurrentPage: v.pager.CurrentPage(),
		PageSize:    v.pager.PageSize(),
		TotalPages:  v.pager.TotalPages(),
		HasPrevPage: v.pager.HasPrevPage(),
		HasNextPage: v.pager.HasNextPage(),
	}
}

func emptyResponse() *backend.SearchResponse {
	return &backend.SearchResponse{Results: []backend.ResultItem{}}
}

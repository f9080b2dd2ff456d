package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/backend"
	"github.com/meghashyamc/searchfront/services/pager"
)

const (
	ResultsPath = "/search"
	QueryParam  = "q"
	PageParam   = "page"
)

// Searcher is the part of the backend client the results view needs.
type Searcher interface {
	Search(ctx context.Context, query string) (*backend.SearchResponse, error)
}

// Target builds the results page location for a submitted query.
// Blank queries are not submittable.
func Target(query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	values := url.Values{}
	values.Set(QueryParam, query)
	return ResultsPath + "?" + values.Encode(), true
}

// PageTarget is the results page location for page (0-based) of an already submitted query.
func PageTarget(query string, page int) string {
	values := url.Values{}
	values.Set(QueryParam, query)
	values.Set(PageParam, strconv.Itoa(page))
	return ResultsPath + "?" + values.Encode()
}

// QueryFromURL reads the query parameter of a results page location.
// A missing parameter is the empty-query state.
func QueryFromURL(values url.Values) string {
	return values.Get(QueryParam)
}

// Service keeps one results view per visitor, evicting the least recently used.
type Service struct {
	logger   logger.Logger
	searcher Searcher
	views    *lru.Cache[string, *View]
}

func New(logger logger.Logger, searcher Searcher, maxViews int) (*Service, error) {
	views, err := lru.New[string, *View](maxViews)
	if err != nil {
		logger.Error("could not create results view cache", "err", err.Error())
		return nil, fmt.Errorf("could not create results view cache: %w", err)
	}

	return &Service{
		logger:   logger,
		searcher: searcher,
		views:    views,
	}, nil
}

// View returns the visitor's results view, creating it on first use.
func (s *Service) View(visitorID string) *View {
	if view, ok := s.views.Get(visitorID); ok {
		return view
	}

	view := NewView(s.logger, s.searcher, pager.DefaultPageSize)
	if previous, ok, _ := s.views.PeekOrAdd(visitorID, view); ok {
		return previous
	}

	return view
}

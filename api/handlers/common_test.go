// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/config"
	"github.com/meghashyamc/searchfront/db/kvdb"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/backend"
	"github.com/meghashyamc/searchfront/services/history"
	"github.com/meghashyamc/searchfront/services/search"
	"github.com/meghashyamc/searchfront/services/suggest"
	"github.com/meghashyamc/searchfront/validation"
	"github.com/stretchr/testify/require"
)

const (
	testVisitorID      = "6f1c2a9e-4b7d-4e0a-9c3f-2d8e5b1a7c40"
	testOtherVisitorID = "0b9d8c7e-1a2f-4c3b-8d4e-5f6a7b8c9d01"

	// fakeBackendResultCount results are returned for every query except fakeBackendEmptyQuery
	fakeBackendResultCount = 25
	fakeBackendEmptyQuery  = "nothing"
)

var visitorTestRequestHeaders = map[string]string{
	"Content-Type": "application/json",
	"Cookie":       CookieVisitorID + "=" + testVisitorID,
}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse map[string]any
}

// fakeBackend serves the remote search API and counts the calls it receives.
type fakeBackend struct {
	server      *httptest.Server
	searchCalls atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fake := &fakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fake.searchCalls.Add(1)
		query := r.URL.Query().Get("query")

		count := fakeBackendResultCount
		if query == fakeBackendEmptyQuery {
			count = 0
		}
		results := make([]backend.ResultItem, count)
		for i := range results {
			results[i] = backend.ResultItem{
				ID:      backend.ResultID(fmt.Sprintf("%d", i)),
				Title:   fmt.Sprintf("%s result %d", query, i),
				URL:     fmt.Sprintf("https://example.com/%d", i),
				Snippet: fmt.Sprintf("snippet %d", i),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(backend.SearchResponse{Results: results, TotalCount: count, TotalTime: 12.5})
	})
	mux.HandleFunc("/suggestions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]string{r.URL.Query().Get("query") + " remote"})
	})

	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)

	return fake
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, *fakeBackend) {

	t.Setenv("ENV", "test")

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()
	fake := newFakeBackend(t)

	kvDB, err := kvdb.New(testLogger, filepath.Join(t.TempDir(), "history.db"))
	assert.NoError(err, "could not create kv database")
	t.Cleanup(func() {
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	stores, err := history.NewStores(testLogger, kvDB, cfg.GetHistoryCap(), cfg.GetMaxViews())
	assert.NoError(err, "could not create history stores")

	searchService, err := search.New(testLogger, backend.New(testLogger, fake.server.URL), cfg.GetMaxViews())
	assert.NoError(err, "could not create search service")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	sourceFor := func(visitorID string) suggest.Source {
		return stores.For(visitorID).Source()
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(VisitorMiddleware(testLogger, validator))

	assert.NoError(SetupPages(router, testLogger), "could not set up pages")
	SetupSearch(router, testLogger, searchService, stores, validator)
	SetupSuggestions(router, testLogger, sourceFor, stores, cfg.GetSuggestionDelay(), validator)
	SetupTheme(router, testLogger, validator)
	SetupHistory(router, testLogger, stores)

	return router, fake
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func makeTestFormRequest(router *gin.Engine, assert *require.Assertions, endpoint string, headers map[string]string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	assert.NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func decodeResponse(assert *require.Assertions, w *httptest.ResponseRecorder) map[string]any {
	responseMap := map[string]any{}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &responseMap), fmt.Sprintf("response was %s", w.Body.String()))
	return responseMap
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

package stub

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/db/searchdb"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/validation"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTestStub(t *testing.T, assert *require.Assertions, fixture *Fixture) *gin.Engine {
	t.Helper()
	testLogger := newTestLogger()

	searchDB, err := searchdb.New(testLogger, "")
	assert.NoError(err, "could not create search database")
	t.Cleanup(func() { searchDB.Close() })
	assert.NoError(searchDB.BuildIndex(fixture.Documents))

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	Setup(router, testLogger, searchDB, NewSuggestions(testLogger, fixture.Suggestions), validator)

	return router
}

func get(router *gin.Engine, assert *require.Assertions, path string, query string, result any) int {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path+"?"+url.Values{"query": {query}}.Encode(), nil)
	assert.NoError(err)
	router.ServeHTTP(w, req)

	if w.Code == http.StatusOK {
		assert.NoError(json.Unmarshal(w.Body.Bytes(), result), w.Body.String())
	}
	return w.Code
}

func resultIDs(response searchdb.Response) []string {
	ids := make([]string, 0, len(response.Results))
	for _, result := range response.Results {
		ids = append(ids, result.ID)
	}
	return ids
}

func TestStubSearch(t *testing.T) {
	assert := require.New(t)
	fixture, err := LoadFixture("")
	assert.NoError(err)
	router := setupTestStub(t, assert, fixture)

	testCases := []struct {
		name        string
		query       string
		expectedIDs []string
	}{
		{name: "Term", query: "crawler", expectedIDs: []string{"4", "12"}},
		{name: "AnyTerm", query: "crawler syllabus", expectedIDs: []string{"4", "10", "12"}},
		{name: "Phrase", query: `"advanced programming"`, expectedIDs: []string{"2"}},
		{name: "PhraseIsNotAnyTerm", query: `"programming advanced"`, expectedIDs: []string{}},
		{name: "CaseInsensitive", query: "CRAWLER", expectedIDs: []string{"4", "12"}},
		{name: "NoMatch", query: "zzzz", expectedIDs: []string{}},
		{name: "Empty", query: "", expectedIDs: []string{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			response := searchdb.Response{}
			assert.Equal(http.StatusOK, get(router, assert, "/search", testCase.query, &response))
			assert.ElementsMatch(testCase.expectedIDs, resultIDs(response))
			assert.EqualValues(len(testCase.expectedIDs), response.TotalCount)
			assert.NotNil(response.Results)
		})
	}
}

func TestStubSearchReturnsDisplayFields(t *testing.T) {
	assert := require.New(t)
	fixture, err := LoadFixture("")
	assert.NoError(err)
	router := setupTestStub(t, assert, fixture)

	response := searchdb.Response{}
	assert.Equal(http.StatusOK, get(router, assert, "/search", `"advanced programming"`, &response))
	assert.Len(response.Results, 1)
	assert.Equal("Advanced Programming Techniques - Course Overview", response.Results[0].Title)
	assert.Equal("https://www.cu.edu.eg/cs/apt", response.Results[0].URL)
	assert.Contains(response.Results[0].Snippet, "robust and efficient software")
}

func TestStubSuggestions(t *testing.T) {
	assert := require.New(t)
	fixture, err := LoadFixture("")
	assert.NoError(err)
	router := setupTestStub(t, assert, fixture)

	var suggestions []string
	assert.Equal(http.StatusOK, get(router, assert, "/suggestions", "ENGINE", &suggestions))
	assert.Equal([]string{
		"computer engineering department",
		"cairo university search engine",
		"search engine algorithms",
		"indexing in search engines",
	}, suggestions)

	assert.Equal(http.StatusOK, get(router, assert, "/suggestions", "a", &suggestions))
	assert.Len(suggestions, 5)

	assert.Equal(http.StatusOK, get(router, assert, "/suggestions", " ", &suggestions))
	assert.Empty(suggestions)
}

func TestLoadFixtureFromFile(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "documents.json")
	assert.NoError(os.WriteFile(path, []byte(`{"documents":[{"id":"a","title":"Gopher facts","url":"https://example.com","snippet":"Gophers dig"}],"suggestions":["gopher"]}`), 0644))

	fixture, err := LoadFixture(path)
	assert.NoError(err)
	router := setupTestStub(t, assert, fixture)

	response := searchdb.Response{}
	assert.Equal(http.StatusOK, get(router, assert, "/search", "gopher", &response))
	assert.Equal([]string{"a"}, resultIDs(response))

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(err)
}

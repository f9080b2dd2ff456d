package backend

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(slog.New(slog.NewJSONHandler(io.Discard, nil)), server.URL+"/"), server
}

func TestSearch(t *testing.T) {
	assert := require.New(t)
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(searchPath, r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"results": [
				{"id": 1, "title": "Intro to CS", "url": "https://cu.edu.eg/cs", "snippet": "an <b>introduction</b>"},
				{"id": "doc-2", "title": "APT", "url": "https://cu.edu.eg/apt", "snippet": "advanced"}
			],
			"totalCount": 2,
			"totalTime": 12.5
		}`)
	})

	response, err := client.Search(context.Background(), `"computer science" & more`)
	assert.NoError(err)
	assert.Equal(`"computer science" & more`, gotQuery, "query must round trip through URL encoding")
	assert.Equal(2, response.TotalCount)
	assert.Equal(12.5, response.TotalTime)
	assert.Len(response.Results, 2)
	assert.Equal(ResultID("1"), response.Results[0].ID)
	assert.Equal(ResultID("doc-2"), response.Results[1].ID)
	assert.Equal("an <b>introduction</b>", response.Results[0].Snippet)
}

func TestSearchEmptyBody(t *testing.T) {
	assert := require.New(t)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"totalCount": 0, "totalTime": 1}`)
	})

	response, err := client.Search(context.Background(), "nothing")
	assert.NoError(err)
	assert.NotNil(response.Results)
	assert.Empty(response.Results)
}

func TestSuggestions(t *testing.T) {
	assert := require.New(t)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suggestionsPath, r.URL.Path)
		assert.Equal("comp", r.URL.Query().Get("query"))
		io.WriteString(w, `["computer science", "computer engineering"]`)
	})

	suggestions, err := client.Suggest(context.Background(), "comp")
	assert.NoError(err)
	assert.Equal([]string{"computer science", "computer engineering"}, suggestions)
}

func TestNoRetriesNoCache(t *testing.T) {
	assert := require.New(t)
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "golang")
	assert.Error(err)
	assert.EqualValues(1, calls.Load(), "a failed call must not be retried")

	_, err = client.Search(context.Background(), "golang")
	assert.Error(err)
	assert.EqualValues(2, calls.Load(), "every call must hit the network")
}

func TestNetworkErrors(t *testing.T) {
	assert := require.New(t)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := client.Search(context.Background(), "golang")
	assert.ErrorIs(err, ErrNetwork)
	var networkErr *NetworkError
	assert.ErrorAs(err, &networkErr)
	assert.Equal(http.StatusInternalServerError, networkErr.StatusCode)
	assert.Equal(opSearch, networkErr.Op)

	client, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	})
	_, err = client.Suggestions(context.Background(), "go")
	assert.ErrorIs(err, ErrNetwork)

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	client = New(slog.New(slog.NewJSONHandler(io.Discard, nil)), closed.URL)
	_, err = client.Search(context.Background(), "golang")
	assert.ErrorAs(err, &networkErr)
	assert.Zero(networkErr.StatusCode)
}

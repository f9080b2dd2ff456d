package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/meghashyamc/searchfront/logger"
)

const (
	searchPath      = "/search"
	suggestionsPath = "/suggestions"
	queryParam      = "query"

	opSearch      = "search"
	opSuggestions = "suggestions"
)

// Client talks to the external search backend. Every call is a single request
// without retries or caching.
type Client struct {
	http   *resty.Client
	logger logger.Logger
}

func New(logger logger.Logger, baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "searchfront/1.0").
		SetRetryCount(0)

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var response SearchResponse
	if err := c.get(ctx, opSearch, searchPath, query, &response); err != nil {
		return nil, err
	}
	if response.Results == nil {
		response.Results = []ResultItem{}
	}

	return &response, nil
}

func (c *Client) Suggestions(ctx context.Context, partial string) ([]string, error) {
	var suggestions []string
	if err := c.get(ctx, opSuggestions, suggestionsPath, partial, &suggestions); err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	return suggestions, nil
}

// Suggest lets the client act as a remote suggestion source.
func (c *Client) Suggest(ctx context.Context, partial string) ([]string, error) {
	return c.Suggestions(ctx, partial)
}

func (c *Client) get(ctx context.Context, op string, path string, query string, result any) error {
	start := time.Now()
	status := "error"
	defer func() {
		recordRequest(op, status, time.Since(start).Seconds())
	}()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam(queryParam, query).
		Get(path)
	if err != nil {
		c.logger.Error("search backend request failed", "op", op, "err", err.Error())
		return &NetworkError{Op: op, Err: err}
	}
	status = strconv.Itoa(resp.StatusCode())

	if !resp.IsSuccess() {
		c.logger.Error("search backend returned an error", "op", op, "status", resp.StatusCode(), "response", resp.String())
		return &NetworkError{Op: op, StatusCode: resp.StatusCode(), Err: fmt.Errorf("unexpected response: %s", resp.Status())}
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		c.logger.Error("could not decode search backend response", "op", op, "err", err.Error())
		return &NetworkError{Op: op, StatusCode: resp.StatusCode(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

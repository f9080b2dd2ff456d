package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type SearchResponse struct {
	Results    []ResultItem `json:"results"`
	TotalCount int          `json:"totalCount"`
	TotalTime  float64      `json:"totalTime"`
}

type ResultItem struct {
	ID      ResultID `json:"id"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
}

// ResultID accepts both JSON strings and JSON numbers.
type ResultID string

func (id *ResultID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ResultID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("result id must be a string or a number: %w", err)
	}
	*id = ResultID(n.String())
	return nil
}

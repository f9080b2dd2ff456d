package searchdb

type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type Result struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"-"`
}

// Response uses the field names the search front end expects from a backend.
type Response struct {
	Results    []Result `json:"results"`
	TotalCount uint64   `json:"totalCount"`
	TotalTime  float64  `json:"totalTime"`
}

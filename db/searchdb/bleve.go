package searchdb

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/searchfront/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldTitle   = "title"
	indexFieldURL     = "url"
	indexFieldSnippet = "snippet"
)

var quotedPhraseRegex = regexp.MustCompile(`"([^"]*)"`)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

var _ DB = (*BleveDB)(nil)

// New opens the index at indexPath, creating it if needed. An empty path keeps the index in memory.
func New(logger logger.Logger, indexPath string) (*BleveDB, error) {
	mapping := createIndexMapping()

	if indexPath == "" {
		index, err := bleve.NewMemOnly(mapping)
		if err != nil {
			logger.Error("could not create in-memory index", "err", err.Error())
			return nil, err
		}
		return &BleveDB{logger: logger, index: index}, nil
	}

	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "path", indexPath, "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func (b *BleveDB) BuildIndex(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		if err := batch.Index(doc.ID, doc); err != nil {
			b.logger.Error("could not index document", "id", doc.ID, "err", err.Error())
			return err
		}

		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldTitle, titleFieldMapping)

	snippetFieldMapping := bleve.NewTextFieldMapping()
	snippetFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldSnippet, snippetFieldMapping)

	// URL is stored for display and only matched exactly
	urlFieldMapping := bleve.NewTextFieldMapping()
	urlFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldURL, urlFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Search returns every matching document, best first. The front end pages through the full set.
func (b *BleveDB) Search(queryString string) (*Response, error) {
	start := time.Now()

	docCount, err := b.index.DocCount()
	if err != nil {
		b.logger.Error("could not count documents", "err", err.Error())
		return nil, fmt.Errorf("could not count documents: %w", err)
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(queryString), int(docCount), 0, false)
	searchRequest.Fields = []string{indexFieldTitle, indexFieldURL, indexFieldSnippet}

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if title, ok := hit.Fields[indexFieldTitle].(string); ok {
			result.Title = title
		}
		if url, ok := hit.Fields[indexFieldURL].(string); ok {
			result.URL = url
		}
		if snippet, ok := hit.Fields[indexFieldSnippet].(string); ok {
			result.Snippet = snippet
		}
		results[i] = result
	}

	return &Response{
		Results:    results,
		TotalCount: searchResult.Total,
		TotalTime:  float64(time.Since(start).Microseconds()) / 1000,
	}, nil
}

// buildSearchQuery requires every quoted phrase and, for the remaining words, any one of them.
func buildSearchQuery(queryString string) query.Query {
	phrases, remaining := parseQuotedQuery(strings.ToLower(queryString))
	if len(phrases) == 0 && remaining == "" {
		return bleve.NewMatchNoneQuery()
	}

	var required []query.Query
	for _, phrase := range phrases {
		required = append(required, anyField(func(field string) query.Query {
			phraseQuery := bleve.NewMatchPhraseQuery(phrase)
			phraseQuery.SetField(field)
			return phraseQuery
		}))
	}

	if remaining != "" {
		required = append(required, anyField(func(field string) query.Query {
			matchQuery := bleve.NewMatchQuery(remaining)
			matchQuery.SetField(field)
			return matchQuery
		}))
	}

	if len(required) == 1 {
		return required[0]
	}
	return bleve.NewConjunctionQuery(required...)
}

func anyField(build func(field string) query.Query) query.Query {
	return bleve.NewDisjunctionQuery(build(indexFieldTitle), build(indexFieldSnippet))
}

// parseQuotedQuery splits the quoted phrases out of a query. Empty phrases are dropped
// and whitespace in the remaining terms is collapsed.
func parseQuotedQuery(queryString string) ([]string, string) {
	var phrases []string
	for _, match := range quotedPhraseRegex.FindAllStringSubmatch(queryString, -1) {
		if phrase := strings.Join(strings.Fields(match[1]), " "); phrase != "" {
			phrases = append(phrases, phrase)
		}
	}

	remaining := quotedPhraseRegex.ReplaceAllString(queryString, " ")
	remaining = strings.ReplaceAll(remaining, `"`, " ")

	return phrases, strings.Join(strings.Fields(remaining), " ")
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}

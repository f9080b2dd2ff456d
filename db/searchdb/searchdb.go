package searchdb

type DB interface {
	BuildIndex(documents []Document) error
	Search(queryString string) (*Response, error)
	GetDocCount() (uint64, error)
	Close() error
}

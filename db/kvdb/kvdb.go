// Package kvdb is a small bucketed key-value store.
package kvdb

// HistoryBucket holds one JSON-encoded search history list per visitor key.
const HistoryBucket = "search_history"

// buckets are created when the store is opened. Reads and writes to any other bucket fail.
var buckets = []string{HistoryBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	Close() error
}

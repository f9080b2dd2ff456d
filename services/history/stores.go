package history

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/meghashyamc/searchfront/db/kvdb"
	"github.com/meghashyamc/searchfront/logger"
)

const keyPrefix = "search_history/"

// Stores hands out one Store per visitor, each persisted under its own key.
// Recently used stores are kept so that writes from one visitor serialize on a single lock.
type Stores struct {
	logger     logger.Logger
	db         kvdb.DB
	maxEntries int
	stores     *lru.Cache[string, *Store]
}

func NewStores(logger logger.Logger, db kvdb.DB, maxEntries int, cacheSize int) (*Stores, error) {
	stores, err := lru.New[string, *Store](cacheSize)
	if err != nil {
		logger.Error("could not create history store cache", "err", err.Error())
		return nil, fmt.Errorf("could not create history store cache: %w", err)
	}

	return &Stores{logger: logger, db: db, maxEntries: maxEntries, stores: stores}, nil
}

func (s *Stores) For(visitorID string) *Store {
	if store, ok := s.stores.Get(visitorID); ok {
		return store
	}

	store := New(s.logger, NewKVPersister(s.db, Key(visitorID)), s.maxEntries)
	if previous, ok, _ := s.stores.PeekOrAdd(visitorID, store); ok {
		return previous
	}

	return store
}

// Key is the kv store key holding a visitor's history.
func Key(visitorID string) string {
	return keyPrefix + visitorID
}

package history

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/meghashyamc/searchfront/db/kvdb"
)

// Persister loads and saves the full history list. Save always replaces the stored list.
type Persister interface {
	Load() ([]string, error)
	Save(entries []string) error
	Clear() error
}

// KVPersister keeps the history as a JSON array under a single key of the kv store.
type KVPersister struct {
	db  kvdb.DB
	key string
}

func NewKVPersister(db kvdb.DB, key string) *KVPersister {
	return &KVPersister{db: db, key: key}
}

func (p *KVPersister) Load() ([]string, error) {
	raw, err := p.db.Get(kvdb.HistoryBucket, p.key)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) {
			return nil, nil
		}
		return nil, &StorageError{Op: "load", Key: p.key, Err: err}
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, &StorageError{Op: "decode", Key: p.key, Err: err}
	}

	return entries, nil
}

func (p *KVPersister) Save(entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return &StorageError{Op: "encode", Key: p.key, Err: err}
	}
	if err := p.db.Set(kvdb.HistoryBucket, p.key, string(data)); err != nil {
		return &StorageError{Op: "save", Key: p.key, Err: err}
	}

	return nil
}

func (p *KVPersister) Clear() error {
	if err := p.db.Delete(kvdb.HistoryBucket, p.key); err != nil {
		return &StorageError{Op: "clear", Key: p.key, Err: err}
	}

	return nil
}

// MemoryPersister is a process-local Persister.
type MemoryPersister struct {
	mu      sync.Mutex
	entries []string
}

func NewMemoryPersister(entries ...string) *MemoryPersister {
	return &MemoryPersister{entries: slices.Clone(entries)}
}

func (p *MemoryPersister) Load() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.entries), nil
}

func (p *MemoryPersister) Save(entries []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = slices.Clone(entries)
	return nil
}

func (p *MemoryPersister) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = nil
	return nil
}

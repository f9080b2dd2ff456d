package history

import (
	"context"
	"strings"
	"sync"

	"github.com/meghashyamc/searchfront/logger"
)

const MaxSuggestions = 5

// Store is the most-recent-first list of past queries of one visitor.
// Every read goes back to the Persister so concurrent writers converge on the last write.
type Store struct {
	mu         sync.Mutex
	persister  Persister
	maxEntries int
	logger     logger.Logger
}

func New(logger logger.Logger, persister Persister, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Store{
		persister:  persister,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Record moves query to the front of the history, inserting it if absent, and persists the list.
func (s *Store) Record(query string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	updated := make([]string, 0, min(len(entries)+1, s.maxEntries))
	updated = append(updated, query)
	for _, entry := range entries {
		if len(updated) == s.maxEntries {
			break
		}
		if entry == query {
			continue
		}
		updated = append(updated, entry)
	}

	if err := s.persister.Save(updated); err != nil {
		s.logger.Error("failed to save search history", "err", err.Error())
	}
}

// Suggest returns up to MaxSuggestions entries containing partial, ignoring case.
func (s *Store) Suggest(partial string) []string {
	if strings.TrimSpace(partial) == "" {
		return []string{}
	}

	s.mu.Lock()
	entries := s.load()
	s.mu.Unlock()

	needle := strings.ToLower(partial)
	suggestions := make([]string, 0, MaxSuggestions)
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry), needle) {
			suggestions = append(suggestions, entry)
			if len(suggestions) == MaxSuggestions {
				break
			}
		}
	}

	return suggestions
}

// Entries returns the stored history, most recent first.
func (s *Store) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persister.Clear(); err != nil {
		s.logger.Error("failed to clear search history", "err", err.Error())
	}
}

// Source adapts the store to the suggestion debouncer.
func (s *Store) Source() *Source {
	return &Source{store: s}
}

type Source struct {
	store *Store
}

func (src *Source) Suggest(_ context.Context, partial string) ([]string, error) {
	return src.store.Suggest(partial), nil
}

func (s *Store) load() []string {
	entries, err := s.persister.Load()
	if err != nil {
		s.logger.Warn("failed to load search history, treating it as empty", "err", err.Error())
		return []string{}
	}
	if entries == nil {
		return []string{}
	}

	return entries
}

package suggest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/meghashyamc/searchfront/logger"
)

const (
	DefaultDelay   = 100 * time.Millisecond
	MaxSuggestions = 5
)

type State int

const (
	StateIdle State = iota
	StatePendingFetch
	StateSuggestionsVisible
)

func (s State) String() string {
	switch s {
	case StatePendingFetch:
		return "pending"
	case StateSuggestionsVisible:
		return "visible"
	default:
		return "idle"
	}
}

// Source produces suggestions for a partial query.
type Source interface {
	Suggest(ctx context.Context, partial string) ([]string, error)
}

// Snapshot is what the search box should display.
type Snapshot struct {
	State       State
	Query       string
	Suggestions []string
}

// Session coordinates suggestion fetches for a single search input.
//
// Keystrokes are debounced with one timer; at most one timer is armed at a time.
// Each fetch carries the sequence number current when it was issued and its
// result is dropped unless that number is still the latest one, so a slow
// response can never overwrite a newer state.
type Session struct {
	mu          sync.Mutex
	source      Source
	delay       time.Duration
	logger      logger.Logger
	onChange    func(Snapshot)
	ctx         context.Context
	cancel      context.CancelFunc
	query       string
	state       State
	suggestions []string
	timer       *time.Timer
	seq         uint64
	closed      bool
}

// NewSession creates an idle session. onChange is called with the session lock
// held, so it must not call back into the session.
func NewSession(ctx context.Context, logger logger.Logger, source Source, delay time.Duration, onChange func(Snapshot)) *Session {
	if delay < 0 {
		delay = DefaultDelay
	}
	if onChange == nil {
		onChange = func(Snapshot) {}
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	return &Session{
		source:   source,
		delay:    delay,
		logger:   logger,
		onChange: onChange,
		ctx:      sessionCtx,
		cancel:   cancel,
	}
}

// Keystroke records the new input text and restarts the debounce timer.
func (s *Session) Keystroke(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.stopTimerLocked()
	s.query = text
	s.state = StatePendingFetch
	s.seq++
	seq := s.seq
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(seq)
	})
	s.logger.Debug("suggestion fetch scheduled", "seq", seq, "delay", s.delay.String())
	s.emitLocked()
}

// Focus fetches suggestions for text right away unless the user is still typing.
func (s *Session) Focus(text string) {
	s.mu.Lock()
	if s.closed || s.state == StatePendingFetch {
		s.mu.Unlock()
		return
	}
	s.query = text
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	go s.fetch(seq, text)
}

// OutsideClick hides the suggestions without touching the query text.
// Pending timers are cancelled and in-flight results will be discarded.
func (s *Session) OutsideClick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.stopTimerLocked()
	s.seq++
	s.state = StateIdle
	s.suggestions = nil
	s.emitLocked()
}

// Close releases the timer and cancels any in-flight fetch. Later events are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.closed = true
	s.stopTimerLocked()
	s.seq++
	s.cancel()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	query := s.query
	s.mu.Unlock()

	s.fetch(seq, query)
}

func (s *Session) fetch(seq uint64, query string) {
	suggestions, err := s.source.Suggest(s.ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		s.logger.Debug("discarding superseded suggestions", "seq", seq, "latest", s.seq)
		return
	}

	if err != nil {
		s.logger.Warn("could not fetch suggestions", "query", query, "err", err.Error())
		suggestions = nil
	}

	if len(suggestions) == 0 {
		s.state = StateIdle
		s.suggestions = nil
	} else {
		s.state = StateSuggestionsVisible
		s.suggestions = slices.Clone(suggestions[:min(len(suggestions), MaxSuggestions)])
	}
	s.emitLocked()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) emitLocked() {
	s.onChange(s.snapshotLocked())
}

func (s *Session) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		State:       s.state,
		Query:       s.query,
		Suggestions: []string{},
	}
	if s.state == StateSuggestionsVisible {
		snapshot.Suggestions = slices.Clone(s.suggestions)
	}

	return snapshot
}

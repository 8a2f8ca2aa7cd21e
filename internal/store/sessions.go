package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-widget/internal/widget"
)

var (
	// ErrNotFound is returned when no widget is mounted under a session id.
	ErrNotFound = errors.New("no widget session")
)

// SessionStore is a concurrency-safe in-memory registry of mounted widgets.
type SessionStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*widget.Widget

	// retention configuration
	maxSessions int           // max number of mounted widgets
	maxIdle     time.Duration // widgets idle longer than this are unmounted
}

// NewSessionStore creates a new SessionStore with optional limits.
// If maxSessions or maxIdle is <= 0, that limit is not enforced.
func NewSessionStore(maxSessions int, maxIdle time.Duration) *SessionStore {
	return &SessionStore{
		data:        make(map[string]*widget.Widget),
		maxSessions: maxSessions,
		maxIdle:     maxIdle,
	}
}

// Save registers a widget under its id. When the store is full, the least
// recently seen widgets are unmounted to make room.
func (s *SessionStore) Save(w *widget.Widget) {
	s.mu.Lock()
	if old, ok := s.data[w.ID()]; ok && old != w {
		defer old.Unmount()
	}
	s.data[w.ID()] = w
	evicted := s.overflowLocked()
	s.mu.Unlock()

	for _, e := range evicted {
		e.Unmount()
	}
}

// Get returns the widget mounted under id.
func (s *SessionStore) Get(id string) (*widget.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

// Remove unmounts and forgets the widget under id.
func (s *SessionStore) Remove(id string) error {
	s.mu.Lock()
	w, ok := s.data[id]
	delete(s.data, id)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	w.Unmount()
	return nil
}

// Sweep unmounts widgets idle since before now-maxIdle and returns how many
// were removed.
func (s *SessionStore) Sweep(now time.Time) int {
	if s.maxIdle <= 0 {
		return 0
	}
	cutoff := now.Add(-s.maxIdle)

	var expired []*widget.Widget
	s.mu.Lock()
	for id, w := range s.data {
		if w.LastSeen().Before(cutoff) {
			expired = append(expired, w)
			delete(s.data, id)
		}
	}
	s.mu.Unlock()

	for _, w := range expired {
		w.Unmount()
	}
	return len(expired)
}

// Len returns the number of mounted widgets.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close unmounts every widget.
func (s *SessionStore) Close() {
	s.mu.Lock()
	all := make([]*widget.Widget, 0, len(s.data))
	for _, w := range s.data {
		all = append(all, w)
	}
	s.data = make(map[string]*widget.Widget)
	s.mu.Unlock()

	for _, w := range all {
		w.Unmount()
	}
}

// overflowLocked drops the least recently seen widgets beyond maxSessions.
func (s *SessionStore) overflowLocked() []*widget.Widget {
	if s.maxSessions <= 0 || len(s.data) <= s.maxSessions {
		return nil
	}

	all := make([]*widget.Widget, 0, len(s.data))
	for _, w := range s.data {
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].LastSeen().Before(all[j].LastSeen())
	})

	over := len(all) - s.maxSessions
	evicted := all[:over]
	for _, w := range evicted {
		delete(s.data, w.ID())
	}
	return evicted
}

// Package session keeps per-session state in memory. The only state
// today is the home-page visit counter; it lives exactly as long as the
// session and is never persisted.
package session

import (
	"sync"
	"time"
)

// entry holds one session's counter and the time it was last touched.
type entry struct {
	visits   int
	lastSeen time.Time
}

// Store maps session keys (JWT IDs or anonymous cookie tokens) to their
// visit counters. Entries idle for longer than the TTL are evicted by a
// janitor goroutine, mirroring how stale rate-limiter clients are
// cleaned up.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
}

// NewStore creates a Store whose entries expire after ttl of inactivity
// and starts its janitor. The janitor wakes once a minute.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}

	go func() {
		for {
			time.Sleep(time.Minute)
			s.evictStale()
		}
	}()

	return s
}

// Bump records a visit for key and returns how many visits the session
// had made before this one, so a first visit (or one after eviction)
// reports zero.
func (s *Store) Bump(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	prior := e.visits
	e.visits++
	e.lastSeen = time.Now()
	return prior
}

// Visits returns the current counter for key without incrementing it.
func (s *Store) Visits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return e.visits
	}
	return 0
}

// evictStale drops every entry idle for longer than the TTL.
func (s *Store) evictStale() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if time.Since(e.lastSeen) > s.ttl {
			delete(s.entries, key)
		}
	}
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBumpReportsPriorVisitsPerKey(t *testing.T) {
	s := NewStore(time.Hour)

	// A session's first visit reports zero prior visits.
	assert.Equal(t, 0, s.Bump("alice"))
	assert.Equal(t, 1, s.Bump("alice"))
	assert.Equal(t, 2, s.Bump("alice"))

	// Counters are independent per session.
	assert.Equal(t, 0, s.Bump("bob"))
	assert.Equal(t, 1, s.Visits("bob"))
	assert.Equal(t, 3, s.Visits("alice"))
}

func TestVisitsForUnknownKey(t *testing.T) {
	s := NewStore(time.Hour)
	assert.Equal(t, 0, s.Visits("nobody"))
}

func TestEvictStaleResetsCounter(t *testing.T) {
	s := NewStore(0) // everything is immediately stale

	s.Bump("alice")
	s.Bump("alice")
	time.Sleep(time.Millisecond)
	s.evictStale()

	// An evicted session starts over, like any ended session.
	assert.Equal(t, 0, s.Visits("alice"))
	assert.Equal(t, 0, s.Bump("alice"))
}

func TestConcurrentBumps(t *testing.T) {
	s := NewStore(time.Hour)
	done := make(chan struct{})

	for range 10 {
		go func() {
			for range 100 {
				s.Bump("shared")
			}
			done <- struct{}{}
		}()
	}
	for range 10 {
		<-done
	}

	assert.Equal(t, 1000, s.Visits("shared"))
}

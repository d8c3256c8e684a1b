package session

import (
	"sync"
	"time"

	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
)

// Store owns every live session, keyed by user id. It is safe for concurrent
// use across users and never performs I/O.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// GetOrCreate returns the user's session, creating an empty one if absent.
func (s *Store) GetOrCreate(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(userID)
}

func (s *Store) getOrCreateLocked(userID string) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID, lastActivity: s.now()}
		s.sessions[userID] = sess
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}
	return sess
}

// Acquire returns the user's session pinned as in flight. The sweep skips
// pinned sessions. release must be called exactly once; it also records the
// activity time.
func (s *Store) Acquire(userID string) (*Session, func()) {
	s.mu.Lock()
	sess := s.getOrCreateLocked(userID)
	sess.inFlight++
	sess.lastActivity = s.now()
	s.mu.Unlock()

	var once sync.Once
	return sess, func() {
		once.Do(func() {
			s.mu.Lock()
			sess.inFlight--
			sess.lastActivity = s.now()
			s.mu.Unlock()
		})
	}
}

// Touch records activity for an existing session.
func (s *Store) Touch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.lastActivity = s.now()
	}
}

// LastActivity returns the session's last activity time.
func (s *Store) LastActivity(userID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return time.Time{}, false
	}
	return sess.lastActivity, true
}

// Sweep removes sessions idle for longer than idle that are not in flight.
// It returns the number of removed sessions.
func (s *Store) Sweep(now time.Time, idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.inFlight > 0 {
			continue
		}
		if now.Sub(sess.lastActivity) > idle {
			delete(s.sessions, id)
			removed++
		}
	}

	metrics.SessionsActive.Set(float64(len(s.sessions)))
	metrics.SessionsEvicted.Add(float64(removed))
	return removed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

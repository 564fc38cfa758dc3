package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds the live sessions in memory. There is no persistence;
// idle sessions are evicted to keep the map from growing without bound.
type Store struct {
	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex

	lastAccess map[uuid.UUID]time.Time
	accessMu   sync.RWMutex

	idleTTL       time.Duration
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// Store defaults.
const (
	DefaultIdleTTL         = time.Hour
	DefaultCleanupInterval = 5 * time.Minute
)

// NewStore creates a session store. Zero durations select the defaults.
func NewStore(idleTTL, cleanupInterval time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	store := &Store{
		sessions:   make(map[uuid.UUID]*Session),
		lastAccess: make(map[uuid.UUID]time.Time),
		idleTTL:    idleTTL,
	}

	store.cleanupTicker = time.NewTicker(cleanupInterval)
	store.cleanupStop = make(chan struct{})
	go store.cleanup()

	return store
}

// Create registers a new session on the input screen.
func (st *Store) Create() *Session {
	sess := newSession()

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	st.touch(sess.ID)
	return sess
}

// Get returns the session with the given ID, or nil when it does not
// exist or has been evicted.
func (st *Store) Get(id uuid.UUID) *Session {
	st.mu.RLock()
	sess := st.sessions[id]
	st.mu.RUnlock()

	if sess != nil {
		st.touch(id)
	}
	return sess
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Stop stops the cleanup goroutine.
func (st *Store) Stop() {
	if st.cleanupTicker != nil {
		st.cleanupTicker.Stop()
	}
	if st.cleanupStop != nil {
		close(st.cleanupStop)
	}
}

// touch records an access for idle tracking.
func (st *Store) touch(id uuid.UUID) {
	st.accessMu.Lock()
	st.lastAccess[id] = time.Now()
	st.accessMu.Unlock()
}

// cleanup evicts idle sessions on each tick.
func (st *Store) cleanup() {
	for {
		select {
		case <-st.cleanupTicker.C:
			st.evictIdle()
		case <-st.cleanupStop:
			return
		}
	}
}

// evictIdle removes sessions that have not been accessed within the TTL.
func (st *Store) evictIdle() {
	cutoff := time.Now().Add(-st.idleTTL)

	st.accessMu.RLock()
	idsToCheck := make([]uuid.UUID, 0, len(st.lastAccess))
	for id := range st.lastAccess {
		idsToCheck = append(idsToCheck, id)
	}
	st.accessMu.RUnlock()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.accessMu.Lock()
	defer st.accessMu.Unlock()

	for _, id := range idsToCheck {
		if lastAccess, exists := st.lastAccess[id]; exists && lastAccess.Before(cutoff) {
			delete(st.sessions, id)
			delete(st.lastAccess, id)
		}
	}
}

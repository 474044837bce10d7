package workflow

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"petitionsigner/internal/petition/models"
	pkgsync "petitionsigner/pkg/platform/sync"
)

var (
	// ErrSessionNotFound is returned for unknown or logged-out sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStaleAttempt is returned when a result arrives after a newer attempt
	// started or the session was dropped; the result is discarded.
	ErrStaleAttempt = errors.New("attempt superseded")
)

// State is everything the flow remembers for one session.
type State struct {
	Session       *models.Session
	Params        models.Parameters
	Contracts     map[string]*models.ContractRecord
	Current       string
	Verifications map[string]*models.Verification
	generation    uint64
}

// CurrentContract returns the session's active contract, if any.
func (s *State) CurrentContract() *models.ContractRecord {
	if s == nil || s.Current == "" {
		return nil
	}
	return s.Contracts[s.Current]
}

// Store keeps session state in memory for the process lifetime.
// Writes to one session are serialized through a sharded lock.
type Store struct {
	mu     sync.RWMutex
	states map[string]*State
	locks  *pkgsync.KeyedMutex
}

func NewStore() *Store {
	return &Store{
		states: make(map[string]*State),
		locks:  pkgsync.NewKeyedMutex(0),
	}
}

// Create registers a session under a fresh ID and returns that ID.
func (s *Store) Create(session *models.Session) string {
	id := uuid.NewString()
	session.ID = id
	s.mu.Lock()
	s.states[id] = &State{
		Session:       session,
		Contracts:     make(map[string]*models.ContractRecord),
		Verifications: make(map[string]*models.Verification),
	}
	s.mu.Unlock()
	return id
}

// Delete drops a session; in-flight attempts for it become stale.
func (s *Store) Delete(id string) {
	_ = s.locks.Do(id, func() error {
		s.mu.Lock()
		delete(s.states, id)
		s.mu.Unlock()
		return nil
	})
}

// View runs fn with read access to the session state.
func (s *Store) View(id string, fn func(*State) error) error {
	return s.locks.Do(id, func() error {
		state, ok := s.lookup(id)
		if !ok {
			return ErrSessionNotFound
		}
		return fn(state)
	})
}

// Begin starts a new attempt and returns its generation. Any attempt begun
// earlier can no longer commit.
func (s *Store) Begin(id string) (uint64, error) {
	var generation uint64
	err := s.locks.Do(id, func() error {
		state, ok := s.lookup(id)
		if !ok {
			return ErrSessionNotFound
		}
		state.generation++
		generation = state.generation
		return nil
	})
	return generation, err
}

// Commit applies fn only if generation is still the session's latest attempt.
func (s *Store) Commit(id string, generation uint64, fn func(*State) error) error {
	return s.locks.Do(id, func() error {
		state, ok := s.lookup(id)
		if !ok || state.generation != generation {
			return ErrStaleAttempt
		}
		return fn(state)
	})
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func (s *Store) lookup(id string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[id]
	return state, ok
}

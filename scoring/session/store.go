package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/zaruba-app/zaruba/scoring/catalog"
)

var (
	ErrValidation = errors.New("participant names must be non-empty and distinct")
	ErrConflict   = errors.New("session already exists")
	ErrNotFound   = errors.New("session not found")
)

// Session is one scoring contest between two named participants.
// The session key equals the second participant's name.
type Session struct {
	ParticipantA string                    `json:"participant_a"`
	ParticipantB string                    `json:"participant_b"`
	Scores       map[string]map[string]int `json:"scores"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// KeyFor derives the session key from the second participant's name.
// Key derivation is isolated here so a later move to opaque session IDs
// stays local.
func KeyFor(participantB string) string {
	return participantB
}

// Key returns the session's lookup key.
func (s *Session) Key() string {
	return KeyFor(s.ParticipantB)
}

// Clone returns a deep copy, safe to serialize while the original keeps
// mutating under the store lock.
func (s *Session) Clone() *Session {
	scores := make(map[string]map[string]int, len(s.Scores))
	for name, m := range s.Scores {
		inner := make(map[string]int, len(m))
		for product, score := range m {
			inner[product] = score
		}
		scores[name] = inner
	}

	return &Session{
		ParticipantA: s.ParticipantA,
		ParticipantB: s.ParticipantB,
		Scores:       scores,
		CreatedAt:    s.CreatedAt,
	}
}

// Store holds all live sessions in memory, keyed by session key.
// All methods are safe for concurrent use. Reads return deep copies so
// callers never share score maps with the store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	catalog  *catalog.Catalog
	clock    clockwork.Clock
}

// NewStore creates a store that zero-initializes scores from cat.
func NewStore(cat *catalog.Catalog) *Store {
	return NewStoreWithClock(cat, clockwork.NewRealClock())
}

// NewStoreWithClock creates a store with an injectable clock for tests.
func NewStoreWithClock(cat *catalog.Catalog, clock clockwork.Clock) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		catalog:  cat,
		clock:    clock,
	}
}

// Create registers a new session for the given participants. Both score maps
// start with every catalog product at zero. The key is the second
// participant's name; a live session under that key is a conflict.
func (st *Store) Create(participantA, participantB string) (*Session, error) {
	if participantA == "" || participantB == "" {
		return nil, fmt.Errorf("%w: empty name", ErrValidation)
	}
	if participantA == participantB {
		return nil, fmt.Errorf("%w: identical names %q", ErrValidation, participantA)
	}

	key := KeyFor(participantB)

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.sessions[key]; exists {
		return nil, fmt.Errorf("%w: key %q", ErrConflict, key)
	}

	s := &Session{
		ParticipantA: participantA,
		ParticipantB: participantB,
		Scores: map[string]map[string]int{
			participantA: st.catalog.ZeroScores(),
			participantB: st.catalog.ZeroScores(),
		},
		CreatedAt: st.clock.Now(),
	}
	st.sessions[key] = s

	return s.Clone(), nil
}

// Get returns a copy of the session, or false if the key is unknown.
func (st *Store) Get(key string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[key]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// UpdateScores replaces participant's entire score map with scores.
// Replace, not merge: products absent from the payload are gone afterward.
// Returns a copy of the post-update session.
func (st *Store) UpdateScores(key, participant string, scores map[string]int) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	if participant != s.ParticipantA && participant != s.ParticipantB {
		return nil, fmt.Errorf("%w: participant %q not in session %q", ErrNotFound, participant, key)
	}

	replacement := make(map[string]int, len(scores))
	for product, score := range scores {
		replacement[product] = score
	}
	s.Scores[participant] = replacement

	return s.Clone(), nil
}

// Remove deletes the session. Removing an absent key is a no-op.
func (st *Store) Remove(key string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, key)
}

// List returns copies of all live sessions, in no particular order.
func (st *Store) List() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s.Clone())
	}
	return out
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// ExpireStale removes every session whose age relative to now has reached
// ttl. Age is measured from creation, not last activity. Returns the removed
// keys.
func (st *Store) ExpireStale(now time.Time, ttl time.Duration) []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	var removed []string
	for key, s := range st.sessions {
		if !s.CreatedAt.Add(ttl).After(now) {
			delete(st.sessions, key)
			removed = append(removed, key)
		}
	}
	return removed
}

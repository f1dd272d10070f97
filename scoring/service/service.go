package service

import (
	"context"
	"time"
)

// Default lifecycle timings. The sweeper fires once per DefaultSweepInterval
// and removes sessions older than DefaultSessionTTL, measured from creation.
const (
	DefaultSweepInterval = 1 * time.Hour
	DefaultSessionTTL    = 15 * time.Hour
)

// ScoringService defines all session lifecycle and scoring operations.
type ScoringService interface {
	// Register creates a session for the two participants. The session key
	// is derived from the second participant's name.
	Register(ctx context.Context, participantA, participantB string) (*RegisterResult, error)

	// Login resolves a second participant's name to an existing session key.
	// It never creates anything.
	Login(ctx context.Context, name string) (string, error)

	// GetSession returns the current snapshot for a session key.
	GetSession(ctx context.Context, sessionKey string) (*SessionInfo, error)

	// ListSessions returns snapshots of all live sessions.
	ListSessions(ctx context.Context) ([]*SessionInfo, error)

	// UpdateScores replaces the participant's entire score map and
	// broadcasts the resulting snapshot to every connection in the session.
	UpdateScores(ctx context.Context, sessionKey, participant string, scores map[string]int) error

	// Terminate notifies all connections that the session ended, then
	// removes the session and its connection set. Terminating an absent
	// session reports not-found so callers can distinguish races.
	Terminate(ctx context.Context, sessionKey string) error

	// ExpireStale removes every session older than ttl relative to now,
	// without notifying connections. Returns the number removed.
	ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) int

	// Products returns the product catalog in order.
	Products(ctx context.Context) []string
}

// Broadcaster fans messages out to the connections of one session.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	// BroadcastState pushes a state snapshot to every connection registered
	// under the key, in registration order.
	BroadcastState(sessionKey string, snapshot any)

	// BroadcastEnded pushes the termination notice to every connection
	// registered under the key.
	BroadcastEnded(sessionKey string)

	// Drop closes and removes the whole connection set for the key.
	Drop(sessionKey string)
}

// Package session provides the in-memory session store for the scoring
// service.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Session creation with zero-initialized score tables
//   - Wholesale score replacement per participant
//   - TTL-based expiry selection
//
// Core Types:
//
// Store is the single source of truth for live sessions. Session represents
// one two-party scoring session: both participant names, a per-participant
// score map over the product catalog, and the creation timestamp.
//
// Session Keys:
//
// A session is keyed by the second participant's name. A name can hold at
// most one live session; once that session is removed, the name is free for
// reuse. KeyFor isolates this convention so callers never derive keys by
// hand.
//
// Concurrency:
//
// All Store methods are safe for concurrent use. Reads return deep clones,
// so a caller can never mutate stored state through a returned Session, and
// snapshots taken during an update are never torn.
//
// Usage:
//
//	store := session.NewStore(catalog.Default())
//
//	// Create a new session
//	sess, err := store.Create("Alice", "Bob")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create failed")
//	}
//
//	// Replace one participant's scores
//	sess, err = store.UpdateScores(sess.Key(), "Bob", map[string]int{"ДК": 3})
//
//	// List all live sessions
//	sessions := store.List()
//
// Cleanup:
//
// Sessions are removed explicitly via Remove, or in bulk via ExpireStale,
// which selects every session older than the given TTL.
package session

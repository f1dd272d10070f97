// Package service provides the business logic layer for real-time product
// scoring.
//
// The service package implements:
//   - Session registration and login
//   - Score updates with session-wide fan-out
//   - Explicit termination with participant notification
//   - TTL-based expiry sweeping
//
// Core Interfaces:
//
// ScoringService is the main service interface providing high-level session
// operations. Broadcaster abstracts the realtime fan-out so the service
// never imports a transport package.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the session store, orchestrating mutations and broadcasts. Every score
// update completes against the store before its snapshot is broadcast, so
// observers never see a snapshot older than one they already received.
//
// Usage:
//
//	store := session.NewStore(cat)
//	hub := websocket.NewHub()
//	scoringService := service.NewScoringService(store, cat, hub)
//
//	// Register a session
//	result, err := scoringService.Register(ctx, "Alice", "Bob")
//	if err != nil {
//		log.Fatal().Err(err).Msg("register failed")
//	}
//
//	// Apply a score update; connected participants receive the new snapshot
//	err = scoringService.UpdateScores(ctx, result.SessionKey, "Bob", map[string]int{"ДК": 3})
//
// Expiry:
//
// Sweeper runs in the background and calls ExpireStale once per interval.
// Expired sessions disappear without a session_ended notice; only explicit
// termination notifies participants.
package service

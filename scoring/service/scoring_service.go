package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zaruba-app/zaruba/internal/metrics"
	"github.com/zaruba-app/zaruba/scoring/catalog"
	"github.com/zaruba-app/zaruba/scoring/session"
)

// scoringService coordinates the session store with the connection layer.
// Mutations complete in the store before any broadcast is issued, so every
// snapshot a client receives reflects the update that triggered it.
type scoringService struct {
	store       *session.Store
	catalog     *catalog.Catalog
	broadcaster Broadcaster
}

// NewScoringService creates the lifecycle manager over store and broadcaster.
func NewScoringService(store *session.Store, cat *catalog.Catalog, b Broadcaster) ScoringService {
	return &scoringService{
		store:       store,
		catalog:     cat,
		broadcaster: b,
	}
}

func (s *scoringService) Register(ctx context.Context, participantA, participantB string) (*RegisterResult, error) {
	created, err := s.store.Create(participantA, participantB)
	if err != nil {
		return nil, fmt.Errorf("failed to register session: %w", err)
	}

	metrics.SessionsCreatedTotal.Inc()
	metrics.SessionsActive.Set(float64(s.store.Len()))

	log.Info().
		Str("session_key", created.Key()).
		Str("participant_a", participantA).
		Str("participant_b", participantB).
		Msg("session registered")

	return &RegisterResult{
		SessionKey:  created.Key(),
		DisplayName: participantB,
	}, nil
}

func (s *scoringService) Login(ctx context.Context, name string) (string, error) {
	key := session.KeyFor(name)
	if _, ok := s.store.Get(key); !ok {
		return "", fmt.Errorf("login %q: %w", name, session.ErrNotFound)
	}
	return key, nil
}

func (s *scoringService) GetSession(ctx context.Context, sessionKey string) (*SessionInfo, error) {
	sess, ok := s.store.Get(sessionKey)
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionKey, session.ErrNotFound)
	}
	return infoFromSession(sess), nil
}

func (s *scoringService) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.store.List()
	out := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, infoFromSession(sess))
	}
	return out, nil
}

func (s *scoringService) UpdateScores(ctx context.Context, sessionKey, participant string, scores map[string]int) error {
	updated, err := s.store.UpdateScores(sessionKey, participant, scores)
	if err != nil {
		return fmt.Errorf("failed to update scores: %w", err)
	}

	// The store write is complete; the snapshot already carries it.
	s.broadcaster.BroadcastState(sessionKey, infoFromSession(updated))

	log.Debug().
		Str("session_key", sessionKey).
		Str("participant", participant).
		Int("products", len(scores)).
		Msg("scores updated")

	return nil
}

func (s *scoringService) Terminate(ctx context.Context, sessionKey string) error {
	if _, ok := s.store.Get(sessionKey); !ok {
		return fmt.Errorf("terminate %q: %w", sessionKey, session.ErrNotFound)
	}

	// Notify before teardown so the notice still reaches the connections.
	s.broadcaster.BroadcastEnded(sessionKey)
	s.store.Remove(sessionKey)
	s.broadcaster.Drop(sessionKey)

	metrics.SessionsTerminatedTotal.Inc()
	metrics.SessionsActive.Set(float64(s.store.Len()))

	log.Info().Str("session_key", sessionKey).Msg("session terminated")
	return nil
}

func (s *scoringService) ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) int {
	removed := s.store.ExpireStale(now, ttl)
	for _, key := range removed {
		// No session_ended notice on expiry; the transport closes the
		// sockets when the connection set is dropped.
		s.broadcaster.Drop(key)
		metrics.SessionsExpiredTotal.Inc()
		log.Info().Str("session_key", key).Msg("session expired")
	}

	if len(removed) > 0 {
		metrics.SessionsActive.Set(float64(s.store.Len()))
	}
	return len(removed)
}

func (s *scoringService) Products(ctx context.Context) []string {
	return s.catalog.Products()
}

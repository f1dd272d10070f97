package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaruba-app/zaruba/scoring/catalog"
	"github.com/zaruba-app/zaruba/scoring/session"
)

// fakeBroadcaster records broadcast calls in order.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	kind     string // "state", "ended", "drop"
	key      string
	snapshot any
}

func (f *fakeBroadcaster) BroadcastState(key string, snapshot any) {
	f.record(broadcastEvent{kind: "state", key: key, snapshot: snapshot})
}

func (f *fakeBroadcaster) BroadcastEnded(key string) {
	f.record(broadcastEvent{kind: "ended", key: key})
}

func (f *fakeBroadcaster) Drop(key string) {
	f.record(broadcastEvent{kind: "drop", key: key})
}

func (f *fakeBroadcaster) record(e broadcastEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeBroadcaster) recorded() []broadcastEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]broadcastEvent, len(f.events))
	copy(out, f.events)
	return out
}

func newTestService(t *testing.T) (ScoringService, *fakeBroadcaster) {
	t.Helper()
	cat, err := catalog.New([]string{"ДК", "КК"})
	require.NoError(t, err)
	b := &fakeBroadcaster{}
	return NewScoringService(session.NewStore(cat), cat, b), b
}

func TestScoringService_Register(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", res.SessionKey)
	assert.Equal(t, "Bob", res.DisplayName)

	_, err = svc.Register(ctx, "Carol", "Bob")
	assert.ErrorIs(t, err, session.ErrConflict)

	_, err = svc.Register(ctx, "Dave", "Dave")
	assert.ErrorIs(t, err, session.ErrValidation)
}

func TestScoringService_Login(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "Bob")
	require.NoError(t, err)

	key, err := svc.Login(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", key)

	// Login is a lookup, never a create.
	_, err = svc.Login(ctx, "Mallory")
	assert.ErrorIs(t, err, session.ErrNotFound)
	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestScoringService_UpdateScores(t *testing.T) {
	svc, b := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "Bob")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateScores(ctx, "Bob", "Bob", map[string]int{"ДК": 3}))

	events := b.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "state", events[0].kind)
	assert.Equal(t, "Bob", events[0].key)

	// The broadcast snapshot reflects the completed mutation.
	snap, ok := events[0].snapshot.(*SessionInfo)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"ДК": 3}, snap.Scores["Bob"])
	assert.Equal(t, map[string]int{"ДК": 0, "КК": 0}, snap.Scores["Alice"])

	err = svc.UpdateScores(ctx, "nobody", "Bob", map[string]int{"ДК": 1})
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Len(t, b.recorded(), 1) // failed updates broadcast nothing
}

func TestScoringService_Terminate(t *testing.T) {
	svc, b := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "Bob")
	require.NoError(t, err)

	require.NoError(t, svc.Terminate(ctx, "Bob"))

	events := b.recorded()
	require.Len(t, events, 2)
	assert.Equal(t, "ended", events[0].kind)
	assert.Equal(t, "drop", events[1].kind)

	_, err = svc.GetSession(ctx, "Bob")
	assert.ErrorIs(t, err, session.ErrNotFound)

	// A second terminate reports not-found rather than succeeding silently.
	err = svc.Terminate(ctx, "Bob")
	assert.ErrorIs(t, err, session.ErrNotFound)

	// The key is immediately reusable.
	_, err = svc.Register(ctx, "Carol", "Bob")
	require.NoError(t, err)
}

func TestScoringService_ExpireStale(t *testing.T) {
	cat, err := catalog.New([]string{"ДК"})
	require.NoError(t, err)
	clock := clockwork.NewFakeClock()
	b := &fakeBroadcaster{}
	svc := NewScoringService(session.NewStoreWithClock(cat, clock), cat, b)
	ctx := context.Background()

	_, err = svc.Register(ctx, "Alice", "Bob")
	require.NoError(t, err)

	clock.Advance(15 * time.Hour)
	removed := svc.ExpireStale(ctx, clock.Now(), 15*time.Hour)
	assert.Equal(t, 1, removed)

	// Expiry drops the connection set without a session_ended notice.
	events := b.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "drop", events[0].kind)
	assert.Equal(t, "Bob", events[0].key)

	_, err = svc.GetSession(ctx, "Bob")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestScoringService_Products(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, []string{"ДК", "КК"}, svc.Products(context.Background()))
}

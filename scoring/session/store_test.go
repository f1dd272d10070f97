package session

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaruba-app/zaruba/scoring/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]string{"ДК", "КК", "Вклад"})
	require.NoError(t, err)
	return c
}

func TestStore_Create(t *testing.T) {
	st := NewStore(testCatalog(t))

	t.Run("success", func(t *testing.T) {
		s, err := st.Create("Alice", "Bob")
		require.NoError(t, err)

		assert.Equal(t, "Bob", s.Key())
		assert.Equal(t, "Alice", s.ParticipantA)
		assert.Equal(t, "Bob", s.ParticipantB)
		require.Len(t, s.Scores, 2)
		assert.Equal(t, map[string]int{"ДК": 0, "КК": 0, "Вклад": 0}, s.Scores["Alice"])
		assert.Equal(t, map[string]int{"ДК": 0, "КК": 0, "Вклад": 0}, s.Scores["Bob"])
		assert.False(t, s.CreatedAt.IsZero())
	})

	t.Run("conflict on same second participant", func(t *testing.T) {
		_, err := st.Create("Carol", "Bob")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("empty names", func(t *testing.T) {
		_, err := st.Create("", "Bob2")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = st.Create("Alice", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("identical names", func(t *testing.T) {
		_, err := st.Create("Alice", "Alice")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("key reusable after removal", func(t *testing.T) {
		st.Remove("Bob")
		_, err := st.Create("Carol", "Bob")
		require.NoError(t, err)
	})
}

func TestStore_Get(t *testing.T) {
	st := NewStore(testCatalog(t))
	_, err := st.Create("Alice", "Bob")
	require.NoError(t, err)

	s, ok := st.Get("Bob")
	require.True(t, ok)
	assert.Equal(t, "Alice", s.ParticipantA)

	_, ok = st.Get("nobody")
	assert.False(t, ok)
}

func TestStore_Get_ReturnsCopy(t *testing.T) {
	st := NewStore(testCatalog(t))
	_, err := st.Create("Alice", "Bob")
	require.NoError(t, err)

	s, ok := st.Get("Bob")
	require.True(t, ok)
	s.Scores["Alice"]["ДК"] = 99

	fresh, ok := st.Get("Bob")
	require.True(t, ok)
	assert.Equal(t, 0, fresh.Scores["Alice"]["ДК"])
}

func TestStore_UpdateScores(t *testing.T) {
	st := NewStore(testCatalog(t))
	_, err := st.Create("Alice", "Bob")
	require.NoError(t, err)

	t.Run("replace not merge", func(t *testing.T) {
		s, err := st.UpdateScores("Bob", "Bob", map[string]int{"ДК": 3})
		require.NoError(t, err)

		// The payload replaces Bob's entire map; the initial zeros are gone.
		assert.Equal(t, map[string]int{"ДК": 3}, s.Scores["Bob"])
		// The other participant is untouched.
		assert.Equal(t, map[string]int{"ДК": 0, "КК": 0, "Вклад": 0}, s.Scores["Alice"])
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := st.UpdateScores("nobody", "Bob", map[string]int{"ДК": 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown participant", func(t *testing.T) {
		_, err := st.UpdateScores("Bob", "Mallory", map[string]int{"ДК": 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("payload not aliased", func(t *testing.T) {
		payload := map[string]int{"КК": 7}
		_, err := st.UpdateScores("Bob", "Alice", payload)
		require.NoError(t, err)

		payload["КК"] = 100
		s, ok := st.Get("Bob")
		require.True(t, ok)
		assert.Equal(t, 7, s.Scores["Alice"]["КК"])
	})
}

func TestStore_Remove_Idempotent(t *testing.T) {
	st := NewStore(testCatalog(t))
	_, err := st.Create("Alice", "Bob")
	require.NoError(t, err)

	st.Remove("Bob")
	st.Remove("Bob") // absence is not an error

	_, ok := st.Get("Bob")
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())
}

func TestStore_ExpireStale(t *testing.T) {
	clock := clockwork.NewFakeClock()
	st := NewStoreWithClock(testCatalog(t), clock)

	const ttl = 15 * time.Hour

	_, err := st.Create("Alice", "Bob")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = st.Create("Carol", "Dave")
	require.NoError(t, err)

	t.Run("still present just before the deadline", func(t *testing.T) {
		clock.Advance(12*time.Hour + 59*time.Minute) // Bob is 14h59m old
		removed := st.ExpireStale(clock.Now(), ttl)
		assert.Empty(t, removed)
		assert.Equal(t, 2, st.Len())
	})

	t.Run("removed exactly at the deadline", func(t *testing.T) {
		clock.Advance(1 * time.Minute) // Bob is exactly 15h old
		removed := st.ExpireStale(clock.Now(), ttl)
		assert.Equal(t, []string{"Bob"}, removed)

		_, ok := st.Get("Bob")
		assert.False(t, ok)
		_, ok = st.Get("Dave")
		assert.True(t, ok)
	})

	t.Run("remaining session expires later", func(t *testing.T) {
		clock.Advance(2 * time.Hour)
		removed := st.ExpireStale(clock.Now(), ttl)
		assert.Equal(t, []string{"Dave"}, removed)
		assert.Equal(t, 0, st.Len())
	})
}

// Package storetest provides a reusable conformance suite for PathStore
// backends. Every backend's package tests run the same suite so behavioral
// drift between implementations surfaces immediately.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrepo/vrepo/pkg/store"
)

// Factory creates a fresh, empty store for a single test. Backends holding
// OS resources should register cleanup via t.Cleanup.
type Factory func(t *testing.T) store.PathStore

// Run executes the full conformance suite against the backend.
func Run(t *testing.T, newStore Factory) {
	t.Run("SetAndGet", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Set(ctx, "/a", store.LocatorValue("/real/a")))

		value, ok, err := s.Get(ctx, "/a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "/real/a", value.Locator)
		assert.False(t, value.Virtual)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		_, ok, err := s.Get(ctx, "/missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("VirtualRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Set(ctx, "/v", store.VirtualValue()))

		value, ok, err := s.Get(ctx, "/v")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, value.Virtual)
		assert.Empty(t, value.Locator)
	})

	t.Run("Exists", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		ok, err := s.Exists(ctx, "/a")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Set(ctx, "/a", store.VirtualValue()))

		ok, err = s.Exists(ctx, "/a")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OverwriteKeepsSingleRow", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Set(ctx, "/a", store.LocatorValue("/old")))
		require.NoError(t, s.Set(ctx, "/a", store.LocatorValue("/new")))

		value, ok, err := s.Get(ctx, "/a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "/new", value.Locator)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Remove(ctx, "/missing"))
	})

	t.Run("Remove", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Set(ctx, "/a", store.VirtualValue()))
		require.NoError(t, s.Remove(ctx, "/a"))

		ok, err := s.Exists(ctx, "/a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("KeysSortedAscending", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		// Inserted deliberately out of order.
		for _, key := range []string{"/b", "/", "/a/c", "/a", "/c"} {
			require.NoError(t, s.Set(ctx, key, store.VirtualValue()))
		}

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"/", "/a", "/a/c", "/b", "/c"}, keys)
	})

	t.Run("GetMultipleOmitsMissing", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Set(ctx, "/a", store.LocatorValue("/real/a")))
		require.NoError(t, s.Set(ctx, "/b", store.VirtualValue()))

		rows, err := s.GetMultiple(ctx, []string{"/a", "/b", "/missing"})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "/real/a", rows["/a"].Locator)
		assert.True(t, rows["/b"].Virtual)
	})

	t.Run("Clear", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Set(ctx, "/a", store.VirtualValue()))
		require.NoError(t, s.Set(ctx, "/b", store.VirtualValue()))
		require.NoError(t, s.Clear(ctx))

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("Count", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		require.NoError(t, s.Set(ctx, "/a", store.VirtualValue()))
		require.NoError(t, s.Set(ctx, "/b", store.VirtualValue()))

		count, err = s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

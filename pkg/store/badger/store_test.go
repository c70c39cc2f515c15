package badger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrepo/vrepo/pkg/store"
	"github.com/vrepo/vrepo/pkg/store/storetest"
)

func newTestStore(t *testing.T) store.PathStore {
	s, err := NewBadgerPathStore(t.Context(), BadgerPathStoreConfig{
		DBPath: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerPathStore(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestBadgerPathStorePersistsAcrossReopen(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()

	s, err := NewBadgerPathStore(ctx, BadgerPathStoreConfig{DBPath: dir})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "/a", store.LocatorValue("/real/a")))
	require.NoError(t, s.Close())

	reopened, err := NewBadgerPathStore(ctx, BadgerPathStoreConfig{DBPath: dir})
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	value, ok, err := reopened.Get(ctx, "/a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/real/a", value.Locator)
}

func TestBadgerPathStoreInMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.PathStore {
		s, err := NewBadgerPathStore(t.Context(), BadgerPathStoreConfig{InMemory: true})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestBadgerPathStoreRequiresPath(t *testing.T) {
	_, err := NewBadgerPathStore(t.Context(), BadgerPathStoreConfig{})
	require.Error(t, err)
}

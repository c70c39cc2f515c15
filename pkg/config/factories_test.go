package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	badgerStore "github.com/vrepo/vrepo/pkg/store/badger"
	memoryStore "github.com/vrepo/vrepo/pkg/store/memory"
)

func TestCreatePathStoreMemory(t *testing.T) {
	s, err := CreatePathStore(t.Context(), &StoreConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memoryStore.MemoryPathStore{}, s)
}

func TestCreatePathStoreBadger(t *testing.T) {
	cfg := &StoreConfig{
		Type:   "badger",
		Badger: map[string]any{"db_path": t.TempDir()},
	}

	s, err := CreatePathStore(t.Context(), cfg)
	require.NoError(t, err)
	require.IsType(t, &badgerStore.BadgerPathStore{}, s)
	require.NoError(t, s.(*badgerStore.BadgerPathStore).Close())
}

func TestCreatePathStoreBadgerInMemory(t *testing.T) {
	cfg := &StoreConfig{
		Type:   "badger",
		Badger: map[string]any{"in_memory": true},
	}

	s, err := CreatePathStore(t.Context(), cfg)
	require.NoError(t, err)
	require.NoError(t, s.(*badgerStore.BadgerPathStore).Close())
}

func TestCreatePathStoreBadgerRequiresPath(t *testing.T) {
	_, err := CreatePathStore(t.Context(), &StoreConfig{Type: "badger"})
	assert.Error(t, err)
}

func TestCreatePathStoreS3RequiresBucketAndRegion(t *testing.T) {
	_, err := CreatePathStore(t.Context(), &StoreConfig{
		Type: "s3",
		S3:   map[string]any{"region": "us-east-1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")

	_, err = CreatePathStore(t.Context(), &StoreConfig{
		Type: "s3",
		S3:   map[string]any{"bucket": "b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestCreatePathStoreUnknownType(t *testing.T) {
	_, err := CreatePathStore(t.Context(), &StoreConfig{Type: "etcd"})
	assert.Error(t, err)
}

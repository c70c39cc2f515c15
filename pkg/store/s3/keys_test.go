package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyMapping(t *testing.T) {
	tests := []struct {
		name      string
		keyPrefix string
		path      string
		objectKey string
	}{
		{"root", "", "/", "rows/"},
		{"nested", "", "/a/b", "rows/a/b"},
		{"with prefix", "vrepo/prod/", "/a", "vrepo/prod/rows/a"},
		{"prefixed root", "vrepo/prod/", "/", "vrepo/prod/rows/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &S3PathStore{keyPrefix: tt.keyPrefix}

			assert.Equal(t, tt.objectKey, s.objectKey(tt.path))

			path, ok := s.pathFromObjectKey(tt.objectKey)
			assert.True(t, ok)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestPathFromObjectKeyRejectsForeignKeys(t *testing.T) {
	s := &S3PathStore{keyPrefix: "vrepo/"}

	for _, key := range []string{"", "rows/a", "vrepo/other/a", "vrepo/rows"} {
		_, ok := s.pathFromObjectKey(key)
		assert.False(t, ok, "key %q should not map to a path", key)
	}
}

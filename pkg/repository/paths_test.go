package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "root", raw: "/", want: "/"},
		{name: "plain", raw: "/a/b", want: "/a/b"},
		{name: "trailing slash", raw: "/a/b/", want: "/a/b"},
		{name: "double slash", raw: "//", want: "/"},
		{name: "inner double slash", raw: "/a//b", want: "/a/b"},
		{name: "dot segments", raw: "/a/./b", want: "/a/b"},
		{name: "dotdot segments", raw: "/a/../b", want: "/b"},
		{name: "dotdot above root", raw: "/../a", want: "/a"},
		{name: "glob passes through", raw: "/a/**/b?", want: "/a/**/b?"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := canonicalPath(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanonicalPathRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "a/b", "./a", "relative"} {
		_, err := canonicalPath(raw)
		require.Error(t, err, "raw %q", raw)
		code, ok := CodeOf(err)
		require.True(t, ok)
		assert.Equal(t, ErrValidation, code)
	}
}

func TestParentPath(t *testing.T) {
	assert.Equal(t, "/", parentPath("/"))
	assert.Equal(t, "/", parentPath("/a"))
	assert.Equal(t, "/a", parentPath("/a/b"))
	assert.Equal(t, "/a/b", parentPath("/a/b/c"))
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "/a", childPath("/", "a"))
	assert.Equal(t, "/a/b", childPath("/a", "b"))
}

package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "directory", KindDirectory.String())
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "generic", KindGeneric.String())
}

func TestFromLocator(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "style.css")
	require.NoError(t, os.WriteFile(file, []byte("body {}"), 0o644))

	assert.Equal(t, KindDirectory, FromLocator(dir).Kind())
	assert.Equal(t, KindFile, FromLocator(file).Kind())
	assert.Equal(t, KindGeneric, FromLocator(filepath.Join(dir, "missing")).Kind())
}

func TestNameFollowsAttachment(t *testing.T) {
	res := NewFile("/real/data/report.pdf")
	assert.Equal(t, "report.pdf", res.Name())

	owner := struct{}{}
	res.Attach(&owner, "/docs/renamed.pdf")
	assert.Equal(t, "renamed.pdf", res.Name())
	assert.Equal(t, "/docs/renamed.pdf", res.Path())

	res.Detach(&owner)
	assert.Equal(t, "report.pdf", res.Name())
	assert.Empty(t, res.Path())
}

func TestRootName(t *testing.T) {
	res := NewGeneric()
	res.Attach(t, "/")
	assert.Equal(t, "/", res.Name())
}

func TestDetachIgnoresNonOwner(t *testing.T) {
	ownerA := &struct{ id int }{1}
	ownerB := &struct{ id int }{2}

	res := NewFile("/real/a")
	res.Attach(ownerA, "/a")

	res.Detach(ownerB)
	assert.True(t, res.IsAttached())
	assert.True(t, res.AttachedTo(ownerA))
	assert.False(t, res.AttachedTo(ownerB))
}

func TestCloneDropsAttachment(t *testing.T) {
	res := NewDirectory("/real/css")
	res.Attach(t, "/css")

	clone := res.Clone()
	assert.False(t, clone.IsAttached())
	assert.Equal(t, KindDirectory, clone.Kind())
	assert.Equal(t, "/real/css", clone.FilesystemPath())

	// The original keeps its identity.
	assert.True(t, res.IsAttached())
	assert.Equal(t, "/css", res.Path())
}

func TestChildrenEnumeratesSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body {}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icons", "home.svg"), []byte("<svg/>"), 0o644))

	res := NewDirectory(dir)
	children, err := res.Children()
	require.NoError(t, err)
	require.Len(t, children, 2)

	assert.Equal(t, "icons", children[0].Name)
	assert.Equal(t, KindDirectory, children[0].Resource.Kind())
	assert.Equal(t, "style.css", children[1].Name)
	assert.Equal(t, KindFile, children[1].Resource.Kind())
}

func TestChildrenOfNonDirectories(t *testing.T) {
	children, err := NewFile("/real/a").Children()
	require.NoError(t, err)
	assert.Empty(t, children)

	children, err = NewGeneric().Children()
	require.NoError(t, err)
	assert.Empty(t, children)
}

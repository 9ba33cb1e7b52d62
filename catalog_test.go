package ytfs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bodgit/ytfs/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	db, err := NewCatalog(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCatalog(t *testing.T) {
	db := newTestCatalog(t)

	e, err := db.Find("/videos/missing.avi")
	require.NoError(t, err)
	assert.Nil(t, e)

	want := Entry{
		Path:    "/videos/b.avi",
		Name:    "b.avi",
		SHA1:    "A9993E364706816ABA3E25717850C26C9CD0D89D",
		Width:   256,
		Height:  144,
		Header:  header.Header{BlockWidth: 32, BlockHeight: 36, Size: 3},
		Created: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Add(want))
	require.NoError(t, db.Add(Entry{Path: "/videos/a.avi", Name: "a.avi", SHA1: "00", Width: 64, Height: 32, Header: header.Header{BlockWidth: 8, BlockHeight: 8}}))

	e, err = db.Find("/videos/b.avi")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, want.Path, e.Path)
	assert.Equal(t, want.Name, e.Name)
	assert.Equal(t, want.SHA1, e.SHA1)
	assert.Equal(t, want.Width, e.Width)
	assert.Equal(t, want.Height, e.Height)
	assert.Equal(t, want.Header, e.Header)
	assert.Empty(t, e.Remote)
	assert.True(t, want.Created.Equal(e.Created))

	entries, err := db.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.avi", entries[0].Name)
	assert.Equal(t, "b.avi", entries[1].Name)
	assert.False(t, entries[0].Created.IsZero())
}

func TestCatalogLink(t *testing.T) {
	db := newTestCatalog(t)

	require.NoError(t, db.Add(Entry{Path: "/videos/payload.avi", Name: "payload.avi", SHA1: "00", Width: 256, Height: 144, Header: header.Header{BlockWidth: 32, BlockHeight: 36, Size: 1}}))
	require.NoError(t, db.Link("/videos/payload.avi", "dQw4w9WgXcQ"))

	e, err := db.Find("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "/videos/payload.avi", e.Path)
	assert.Equal(t, "dQw4w9WgXcQ", e.Remote)

	assert.Error(t, db.Link("/videos/missing.avi", "abc"))
	assert.Error(t, db.Link("payload.avi", "abc"))
}

func TestCatalogReplace(t *testing.T) {
	db := newTestCatalog(t)

	require.NoError(t, db.Add(Entry{Path: "/a/payload.avi", Name: "payload.avi", SHA1: "00", Width: 256, Height: 144}))
	require.NoError(t, db.Add(Entry{Path: "/a/payload.avi", Name: "payload.avi", SHA1: "FF", Width: 256, Height: 144}))

	entries, err := db.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "FF", entries[0].SHA1)

	// The same name in another directory is a separate video
	require.NoError(t, db.Add(Entry{Path: "/b/payload.avi", Name: "payload.avi", SHA1: "AA", Width: 256, Height: 144}))

	entries, err = db.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/a/payload.avi", entries[0].Path)
	assert.Equal(t, "/b/payload.avi", entries[1].Path)

	e, err := db.Find("/a/payload.avi")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "FF", e.SHA1)
}

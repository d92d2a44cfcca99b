package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hjmep/UniDrive/internal/drive"
)

func folder(id, name string, parents ...string) drive.FileMetadata {
	return drive.FileMetadata{ID: id, Name: name, MimeType: drive.FolderMimeType, Parents: parents}
}

func file(id, name string, parents ...string) drive.FileMetadata {
	return drive.FileMetadata{ID: id, Name: name, MimeType: "text/plain", Parents: parents}
}

// a small three-level account listing used across tests
func listing() []drive.FileMetadata {
	return []drive.FileMetadata{
		folder("root1", "Root 1"),
		folder("sub", "Sub", "root1"),
		folder("subsub", "Sub Sub", "sub"),
		folder("root2", "Root 2"),
		file("doc", "doc.txt", "sub"),
		file("loose", "loose.txt"),
	}
}

func TestOpenFolder(t *testing.T) {
	n := New(listing())

	require.NoError(t, n.OpenFolder("root1"))
	require.NoError(t, n.OpenFolder("sub"))

	assert.True(t, n.IsOpen("root1"))
	assert.True(t, n.IsOpen("sub"))
	assert.Equal(t, []string{"root1", "sub"}, n.OpenTrace())

	// Reopening is a no-op, not a duplicate trace entry.
	require.NoError(t, n.OpenFolder("sub"))
	assert.Equal(t, []string{"root1", "sub"}, n.OpenTrace())
}

func TestOpenFolderNotFound(t *testing.T) {
	n := New(listing())

	err := n.OpenFolder("missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)

	err = n.OpenFolder("doc") // files are not folders
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestOpenCloseRoundTrip(t *testing.T) {
	n := New(listing())
	require.NoError(t, n.OpenFolder("root1"))
	require.NoError(t, n.OpenFolder("sub"))

	traceBefore := n.OpenTrace()

	require.NoError(t, n.OpenFolder("subsub"))
	n.CloseFolder("subsub")

	assert.Equal(t, traceBefore, n.OpenTrace())
	assert.True(t, n.IsOpen("root1"))
	assert.True(t, n.IsOpen("sub"))
	assert.False(t, n.IsOpen("subsub"))
}

func TestCloseFolderCollapsesOpenDescendants(t *testing.T) {
	n := New(listing())
	require.NoError(t, n.OpenFolder("root1"))
	require.NoError(t, n.OpenFolder("sub"))
	require.NoError(t, n.OpenFolder("subsub"))
	require.NoError(t, n.OpenFolder("root2"))

	n.CloseFolder("root1")

	assert.False(t, n.IsOpen("root1"))
	assert.False(t, n.IsOpen("sub"))
	assert.False(t, n.IsOpen("subsub"))
	// root2 is no descendant of root1 and stays open, but the trace is
	// truncated at root1's first occurrence.
	assert.True(t, n.IsOpen("root2"))
	assert.Empty(t, n.OpenTrace())
}

func TestCloseFolderIdempotent(t *testing.T) {
	n := New(listing())
	require.NoError(t, n.OpenFolder("root1"))

	n.CloseFolder("never-opened")
	n.CloseFolder("sub") // exists but not open

	assert.True(t, n.IsOpen("root1"))
	assert.Equal(t, []string{"root1"}, n.OpenTrace())
}

func TestChildren(t *testing.T) {
	n := New(listing())

	children, err := n.Children("sub")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "subsub", children[0].ID)
	assert.Equal(t, "doc", children[1].ID)

	_, err = n.Children("missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestChildrenIsPureProjection(t *testing.T) {
	n := New(listing())

	first, err := n.Children("sub")
	require.NoError(t, err)
	second, err := n.Children("sub")
	require.NoError(t, err)

	first[0].Name = "mutated"
	assert.Equal(t, "Sub Sub", second[0].Name, "callers must not share backing storage")
	assert.Empty(t, n.OpenTrace(), "projection must not mutate navigation state")
}

func TestTracePath(t *testing.T) {
	n := New(listing())

	// Deep jump without any sequential opens.
	path, err := n.TracePath("subsub")
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, Crumb{ID: "root1", Name: "Root 1"}, path[0])
	assert.Equal(t, Crumb{ID: "sub", Name: "Sub"}, path[1])
	assert.Equal(t, Crumb{ID: "subsub", Name: "Sub Sub"}, path[2])

	path, err = n.TracePath("root2")
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "root2", path[0].ID)

	_, err = n.TracePath("missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestTracePathSurvivesCyclicParents(t *testing.T) {
	n := New([]drive.FileMetadata{
		folder("a", "A", "b"),
		folder("b", "B", "a"),
	})

	path, err := n.TracePath("a")
	require.NoError(t, err)
	// The walk stops when the cycle closes; both folders appear once.
	require.Len(t, path, 2)
	assert.Equal(t, "a", path[len(path)-1].ID)
}

func TestRebuildPrunesVanishedOpenFolders(t *testing.T) {
	n := New(listing())
	require.NoError(t, n.OpenFolder("root1"))
	require.NoError(t, n.OpenFolder("sub"))
	require.NoError(t, n.OpenFolder("subsub"))
	require.NoError(t, n.OpenFolder("root2"))

	// The refreshed listing lost "sub"; its open descendants collapse
	// with it even though "subsub" still exists.
	n.Rebuild([]drive.FileMetadata{
		folder("root1", "Root 1"),
		folder("subsub", "Sub Sub", "sub"),
		folder("root2", "Root 2"),
	})

	assert.True(t, n.IsOpen("root1"))
	assert.False(t, n.IsOpen("sub"))
	assert.False(t, n.IsOpen("subsub"))
	assert.True(t, n.IsOpen("root2"))
	assert.Equal(t, []string{"root1"}, n.OpenTrace())

	// The surviving structure reflects the new listing.
	_, err := n.Children("sub")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestRebuildKeepsUnaffectedState(t *testing.T) {
	n := New(listing())
	require.NoError(t, n.OpenFolder("root1"))
	require.NoError(t, n.OpenFolder("sub"))

	n.Rebuild(listing())

	assert.True(t, n.IsOpen("root1"))
	assert.True(t, n.IsOpen("sub"))
	assert.Equal(t, []string{"root1", "sub"}, n.OpenTrace())
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(nil)

	n1 := r.ForAccount(1, listing())
	same := r.ForAccount(1, nil)
	assert.Same(t, n1, same, "one navigator per account")

	_, ok := r.Lookup(2)
	assert.False(t, ok)

	r.Drop(1)
	_, ok = r.Lookup(1)
	assert.False(t, ok)
}

func TestRegistryHandleChange(t *testing.T) {
	r := NewRegistry(nil)

	n := r.ForAccount(7, listing())
	require.NoError(t, n.OpenFolder("root1"))

	// Listing change rebuilds in place.
	r.HandleChange(7, []drive.FileMetadata{folder("root2", "Root 2")}, false)
	assert.False(t, n.IsOpen("root1"))

	// Removal discards the navigator entirely.
	r.HandleChange(7, nil, true)
	_, ok := r.Lookup(7)
	assert.False(t, ok)
}

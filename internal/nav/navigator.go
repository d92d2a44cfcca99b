package nav

import (
	"errors"
	"sync"

	"github.com/Hjmep/UniDrive/internal/drive"
	"github.com/Hjmep/UniDrive/internal/tree"
)

// ErrFolderNotFound is returned when a folder id is absent from the
// current folder index, typically a stale reference after a refresh
// changed the tree. Callers re-resolve instead of assuming the id
// survived.
var ErrFolderNotFound = errors.New("folder not found")

// Crumb is one breadcrumb element on the path to a folder.
type Crumb struct {
	ID   string
	Name string
}

// Navigator holds one account's navigation state: the set of currently
// expanded folders and the breadcrumb trace of the opens that led
// there. Children are projected on demand from the classification;
// nothing is cached beyond the current listing.
type Navigator struct {
	mu    sync.Mutex
	class tree.Classification
	open  map[string]struct{}
	trace []string
}

// New creates a navigator over the account's flat file listing.
func New(files []drive.FileMetadata) *Navigator {
	return &Navigator{
		class: tree.Classify(files),
		open:  make(map[string]struct{}),
	}
}

// Classification returns the current classification of the account's
// listing.
func (n *Navigator) Classification() tree.Classification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.class
}

// OpenFolder expands a folder: it joins the open set and the breadcrumb
// trace. Opening an already-open folder is a no-op. Returns
// ErrFolderNotFound when the id is absent from the folder index.
func (n *Navigator) OpenFolder(folderID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.class.FolderIndex[folderID]; !ok {
		return ErrFolderNotFound
	}
	if _, ok := n.open[folderID]; ok {
		return nil
	}

	n.open[folderID] = struct{}{}
	n.trace = append(n.trace, folderID)
	return nil
}

// CloseFolder collapses a folder: the folder and every open folder
// beneath it leave the open set, and the trace is truncated at the
// folder's first occurrence. Closing a folder that is not open is a
// no-op.
func (n *Navigator) CloseFolder(folderID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.open[folderID]; !ok {
		return
	}

	n.collapse(map[string]struct{}{folderID: {}})
}

// collapse removes the seed folders and every open descendant of a
// seed from the open set, then truncates the trace at the earliest
// removed entry. Caller holds the lock.
func (n *Navigator) collapse(seeds map[string]struct{}) {
	closing := make(map[string]struct{}, len(seeds))
	for id := range seeds {
		closing[id] = struct{}{}
	}
	for id := range n.open {
		if _, ok := closing[id]; ok {
			continue
		}
		if n.hasAncestorIn(id, seeds) {
			closing[id] = struct{}{}
		}
	}

	for id := range closing {
		delete(n.open, id)
	}

	for i, id := range n.trace {
		if _, ok := closing[id]; ok {
			n.trace = n.trace[:i]
			break
		}
	}
}

// hasAncestorIn walks the folder's parent chain one resolvable hop at a
// time and reports whether any ancestor is in the given set. The walk
// is bounded by a visited set so malformed cyclic listings terminate.
func (n *Navigator) hasAncestorIn(folderID string, set map[string]struct{}) bool {
	visited := map[string]struct{}{folderID: {}}

	node, ok := n.class.FolderIndex[folderID]
	for ok {
		parent, found := n.class.Parent(node.Folder)
		if !found {
			return false
		}
		if _, member := set[parent.Folder.ID]; member {
			return true
		}
		if _, seen := visited[parent.Folder.ID]; seen {
			return false
		}
		visited[parent.Folder.ID] = struct{}{}
		node = parent
	}
	return false
}

// IsOpen reports whether a folder is currently expanded.
func (n *Navigator) IsOpen(folderID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.open[folderID]
	return ok
}

// OpenTrace returns the breadcrumb trace of opens, oldest first.
func (n *Navigator) OpenTrace() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.trace))
	copy(out, n.trace)
	return out
}

// Children returns the direct children of a folder in listing order. It
// is a pure projection and mutates nothing.
func (n *Navigator) Children(folderID string) ([]drive.FileMetadata, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	node, ok := n.class.FolderIndex[folderID]
	if !ok {
		return nil, ErrFolderNotFound
	}

	out := make([]drive.FileMetadata, len(node.Children))
	copy(out, node.Children)
	return out, nil
}

// TracePath returns the breadcrumb from the root to the folder. It
// walks the folder index directly, independent of the open trace, so
// jumping to a deep folder needs no sequential opens. The walk is
// bounded, so cyclic parent chains terminate at the cycle.
func (n *Navigator) TracePath(folderID string) ([]Crumb, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	node, ok := n.class.FolderIndex[folderID]
	if !ok {
		return nil, ErrFolderNotFound
	}

	var reversed []Crumb
	visited := make(map[string]struct{})
	for node != nil {
		if _, seen := visited[node.Folder.ID]; seen {
			break
		}
		visited[node.Folder.ID] = struct{}{}
		reversed = append(reversed, Crumb{ID: node.Folder.ID, Name: node.Folder.Name})

		parent, found := n.class.Parent(node.Folder)
		if !found {
			break
		}
		node = parent
	}

	path := make([]Crumb, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path, nil
}

// Rebuild re-classifies the navigator over a fresh listing. Open
// folders whose id no longer exists in the new listing are collapsed
// together with their open descendants, so nothing can reference stale
// folder data.
func (n *Navigator) Rebuild(files []drive.FileMetadata) {
	n.mu.Lock()
	defer n.mu.Unlock()

	fresh := tree.Classify(files)

	vanished := make(map[string]struct{})
	for id := range n.open {
		if _, ok := fresh.FolderIndex[id]; !ok {
			vanished[id] = struct{}{}
		}
	}

	// Descendant relations come from the outgoing tree: a folder that
	// survived the refresh still collapses if it was open beneath a
	// folder that vanished.
	if len(vanished) > 0 {
		n.collapse(vanished)
	}

	n.class = fresh
}

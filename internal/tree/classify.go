package tree

import (
	"github.com/Hjmep/UniDrive/internal/drive"
)

// FolderNode is one folder in the derived tree. The tree is rebuilt
// from the flat listing on every classification pass and never
// persisted as a standing structure; Drive expresses hierarchy only
// through parents references, which may dangle.
type FolderNode struct {
	// Folder is the folder's own metadata.
	Folder drive.FileMetadata

	// Children are the folder's direct children (files and folders
	// alike) in input listing order. Subtrees are reached by looking
	// child folders up in the index; nothing recurses here.
	Children []drive.FileMetadata
}

// Classification partitions one account's flat listing.
type Classification struct {
	// TopLevelFolders are folders with no resolvable parent, in input
	// order.
	TopLevelFolders []*FolderNode

	// LooseFiles are non-folders with no resolvable parent, in input
	// order.
	LooseFiles []drive.FileMetadata

	// FolderIndex maps folder id to its node, for every folder in the
	// listing.
	FolderIndex map[string]*FolderNode
}

// Classify partitions a flat file listing into top-level folders, loose
// files and a full folder index. It is a pure function: the same
// listing always yields the same partition, and the input is not
// modified.
//
// Parent resolution is one hop only: an entry's parent either exists in
// the folder index or the entry is treated as top-level (folder) or
// loose (non-folder). A parents entry referencing the file itself is
// invalid input and resolves to nothing, so malformed listings cannot
// produce an infinite tree. Every entry lands in exactly one place;
// nothing is dropped or duplicated.
func Classify(files []drive.FileMetadata) Classification {
	index := make(map[string]*FolderNode)
	for _, f := range files {
		if f.IsFolder() {
			index[f.ID] = &FolderNode{Folder: f}
		}
	}

	c := Classification{FolderIndex: index}

	for _, f := range files {
		parent := resolveParent(index, f)
		switch {
		case parent != nil:
			parent.Children = append(parent.Children, f)
		case f.IsFolder():
			c.TopLevelFolders = append(c.TopLevelFolders, index[f.ID])
		default:
			c.LooseFiles = append(c.LooseFiles, f)
		}
	}

	return c
}

// Parent returns the resolved parent node of the entry, or false when
// the entry has no resolvable parent. Resolution is the same single hop
// Classify uses.
func (c Classification) Parent(f drive.FileMetadata) (*FolderNode, bool) {
	node := resolveParent(c.FolderIndex, f)
	return node, node != nil
}

// resolveParent returns the node of the first parent reference that
// exists in the index, skipping self-references. Nil means the entry
// has no resolvable parent.
func resolveParent(index map[string]*FolderNode, f drive.FileMetadata) *FolderNode {
	for _, pid := range f.Parents {
		if pid == f.ID {
			continue
		}
		if node, ok := index[pid]; ok {
			return node
		}
	}
	return nil
}

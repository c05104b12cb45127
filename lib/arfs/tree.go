// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"fmt"
	"strings"
)

// FolderNode is one folder's position in a FolderTree. Parent is nil
// for roots; Children are in the order their folders were supplied to
// NewFolderTree.
type FolderNode struct {
	Folder   *Folder
	Parent   *FolderNode
	Children []*FolderNode
}

// FolderTree is an in-memory forest over a flat collection of built
// folders, keyed by entity ID. It is constructed fresh per read
// operation and never mutated afterwards.
//
// Construction never fails: a folder whose parent is absent from the
// collection, or whose parent chain loops back on itself, is promoted
// to a local root instead. A ledger full of garbage yields a forest of
// stubs, not an infinite loop. Promoted folders still name a parent in
// their entity record, so path lookups through them fail with
// ErrUnrootedPath; only a folder written as a drive root (IsRoot)
// terminates a path walk.
type FolderTree struct {
	nodes map[EntityID]*FolderNode
	roots []*FolderNode
}

// link states for the cycle guard during construction.
type linkState uint8

const (
	linkUnvisited linkState = iota
	linkInProgress
	linkDone
)

// NewFolderTree links a flat collection of folders into a forest.
// Folders may arrive in any order; a child appearing before its parent
// links the parent first, and repeat visits are no-ops, so the result
// is the same tree regardless of input order. When two folders share
// an entity ID the first one wins, matching the revision filter's
// tiebreak.
func NewFolderTree(folders []*Folder) *FolderTree {
	tree := &FolderTree{nodes: make(map[EntityID]*FolderNode, len(folders))}
	for _, folder := range folders {
		if _, exists := tree.nodes[folder.ID]; exists {
			continue
		}
		tree.nodes[folder.ID] = &FolderNode{Folder: folder}
	}

	states := make(map[EntityID]linkState, len(tree.nodes))
	var link func(node *FolderNode)
	link = func(node *FolderNode) {
		folder := node.Folder
		if states[folder.ID] == linkDone {
			return
		}
		states[folder.ID] = linkInProgress

		if folder.IsRoot || folder.ParentFolderID.IsZero() {
			tree.roots = append(tree.roots, node)
			states[folder.ID] = linkDone
			return
		}
		parent, ok := tree.nodes[folder.ParentFolderID]
		if !ok || states[folder.ParentFolderID] == linkInProgress {
			// The parent is missing from the collection, or linking it
			// is already underway further up the call stack (a cycle).
			// Promote this folder to a local root and stop recursing.
			tree.roots = append(tree.roots, node)
			states[folder.ID] = linkDone
			return
		}
		if states[parent.Folder.ID] == linkUnvisited {
			link(parent)
		}
		node.Parent = parent
		parent.Children = append(parent.Children, node)
		states[folder.ID] = linkDone
	}

	for _, folder := range folders {
		node := tree.nodes[folder.ID]
		if node.Folder != folder {
			continue // dropped duplicate
		}
		link(node)
	}
	return tree
}

// Node returns the tree node for a folder ID.
func (t *FolderTree) Node(id EntityID) (*FolderNode, bool) {
	node, ok := t.nodes[id]
	return node, ok
}

// Roots returns the forest's root nodes: drive roots plus any folders
// promoted over missing or cyclic parents.
func (t *FolderTree) Roots() []*FolderNode {
	return t.roots
}

// AllFolderIDs returns every folder ID in the tree, in no particular
// order.
func (t *FolderTree) AllFolderIDs() []EntityID {
	ids := make([]EntityID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	return ids
}

// SubTree returns a new tree holding the given folder and all of its
// descendants, collected breadth-first and independently keyed. The
// new tree shares the underlying Folder entities but none of the node
// structure, so walks inside it cannot reach the surrounding tree.
// Unless the subtree root is itself a drive root, path lookups on the
// result fail with ErrUnrootedPath.
func (t *FolderTree) SubTree(rootID EntityID) (*FolderTree, error) {
	start, ok := t.nodes[rootID]
	if !ok {
		return nil, fmt.Errorf("folder %s not in hierarchy", rootID)
	}

	sub := &FolderTree{nodes: make(map[EntityID]*FolderNode)}
	root := &FolderNode{Folder: start.Folder}
	sub.nodes[root.Folder.ID] = root
	sub.roots = []*FolderNode{root}

	type pair struct {
		original *FolderNode
		copied   *FolderNode
	}
	queue := []pair{{start, root}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range current.original.Children {
			copied := &FolderNode{Folder: child.Folder, Parent: current.copied}
			current.copied.Children = append(current.copied.Children, copied)
			sub.nodes[copied.Folder.ID] = copied
			queue = append(queue, pair{child, copied})
		}
	}
	return sub, nil
}

// Path returns the folder's name path from its drive root: "/" for the
// root itself, "/A/" for a folder named A directly under the root, and
// so on with a leading and trailing slash. A zero id is the
// virtual-root sentinel and yields "/" without a walk.
func (t *FolderTree) Path(id EntityID) (string, error) {
	chain, err := t.rootChain(id)
	if err != nil {
		return "", err
	}
	segments := make([]string, len(chain))
	for i, node := range chain {
		segments[i] = node.Folder.Name
	}
	return joinPath(segments), nil
}

// IDPath is Path with entity IDs as segments. For any folder it has
// exactly as many segments as Path.
func (t *FolderTree) IDPath(id EntityID) (string, error) {
	chain, err := t.rootChain(id)
	if err != nil {
		return "", err
	}
	segments := make([]string, len(chain))
	for i, node := range chain {
		segments[i] = node.Folder.ID.String()
	}
	return joinPath(segments), nil
}

// TxPath is Path with metadata transaction IDs as segments. For any
// folder it has exactly as many segments as Path.
func (t *FolderTree) TxPath(id EntityID) (string, error) {
	chain, err := t.rootChain(id)
	if err != nil {
		return "", err
	}
	segments := make([]string, len(chain))
	for i, node := range chain {
		segments[i] = node.Folder.MetaTxID.String()
	}
	return joinPath(segments), nil
}

// rootChain walks from the target folder up to its drive root and
// returns the nodes oldest-first, excluding the root itself (the root
// contributes no path segment). The walk trusts the IsRoot marker
// fixed at parse time; reaching a parentless node without it means the
// target is not under a drive root.
func (t *FolderTree) rootChain(id EntityID) ([]*FolderNode, error) {
	if id.IsZero() {
		return nil, nil
	}
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("folder %s not in hierarchy", id)
	}

	var chain []*FolderNode
	current := node
	for !current.Folder.IsRoot {
		chain = append(chain, current)
		if current.Parent == nil {
			return nil, fmt.Errorf("folder %s: ancestor %s is not a drive root (orphaned branch or subtree view): %w",
				id, current.Folder.ID, ErrUnrootedPath)
		}
		current = current.Parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func joinPath(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/") + "/"
}

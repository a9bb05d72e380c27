// Package fstree implements the lazy filesystem tree model behind larch:
// a Node graph materialized on demand, a Tree owning the current focus, and
// a stack-driven flattening Iterator that produces display entries.
//
// Ownership discipline: the Tree exclusively owns the live Node graph. A
// Node owns its children; the parent pointer is a non-owning back-reference
// used for navigation only. Everything outside this package (iterator
// entries, rendering, search) holds non-owning views and must never destroy
// a Node directly. Destroyed Nodes are marked released and refuse further
// operations with ErrReleased, so a stale reference fails loudly instead of
// observing freed state.
package fstree

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind is the filesystem entry type of a Node, resolved at construction
// from Lstat (symlinks are reported as symlinks, not their targets).
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Node is one filesystem entry. Children are loaded lazily: nil until the
// first LoadChildren, then a complete snapshot of one directory listing,
// kept sorted in the node's current sort order.
type Node struct {
	path    string
	name    string
	kind    Kind
	size    int64
	modTime time.Time

	parent   *Node // non-owning, navigation only
	children []*Node
	order    sortSpec
	loaded   bool
	released bool
}

// NewNode materializes the entry at path. The path is made absolute so
// Parent can walk upward regardless of the process working directory.
func NewNode(path string) (*Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, classify("resolve", path, err)
	}
	abs = filepath.Clean(abs)
	fi, err := os.Lstat(abs)
	if err != nil {
		return nil, classify("stat", abs, err)
	}
	name := filepath.Base(abs)
	return &Node{
		path:    abs,
		name:    name,
		kind:    kindOf(fi.Mode()),
		size:    fi.Size(),
		modTime: fi.ModTime(),
		order:   defaultSort,
	}, nil
}

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// Path returns the absolute path of the entry.
func (n *Node) Path() string { return n.path }

// Name returns the base name of the entry.
func (n *Node) Name() string { return n.name }

// Kind returns the entry kind resolved at construction.
func (n *Node) Kind() Kind { return n.kind }

// IsDir reports whether the entry is a directory. Symlinks to directories
// report false; larch does not follow links when building the tree.
func (n *Node) IsDir() bool { return n.kind == KindDir }

// Size returns the size in bytes from the construction-time stat.
func (n *Node) Size() int64 { return n.size }

// ModTime returns the modification time from the construction-time stat.
func (n *Node) ModTime() time.Time { return n.modTime }

// Hidden reports whether the entry is a dotfile.
func (n *Node) Hidden() bool { return strings.HasPrefix(n.name, ".") }

// ParentNode returns the non-owning parent back-reference, or nil for a
// node that is currently a root (or detached).
func (n *Node) ParentNode() *Node { return n.parent }

// Released reports whether the node has been destroyed. Used by tests and
// by consumers that want to validate a retained reference before reuse.
func (n *Node) Released() bool { return n.released }

// ChildrenLoaded reports whether a directory listing snapshot is present.
func (n *Node) ChildrenLoaded() bool { return n.loaded }

// Children returns the loaded children slice, nil if not yet loaded. The
// slice is owned by the node; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// HasChildren reports whether the node can have children. A directory
// reports true before its listing is loaded; loading is triggered by the
// first LoadChildren, never by this call.
func (n *Node) HasChildren() bool {
	if !n.loaded {
		return n.kind == KindDir
	}
	return len(n.children) > 0
}

// LoadChildren reads the directory listing and materializes one child Node
// per entry, sorted in the node's current order. Idempotent: a second call
// returns the existing snapshot. On failure the node stays "not loaded" so
// a retry is safe, and the error carries ErrNotFound/ErrAccessDenied for
// the common causes.
func (n *Node) LoadChildren() ([]*Node, error) {
	if n.released {
		return nil, ErrReleased
	}
	if n.kind != KindDir {
		return nil, nil
	}
	if n.loaded {
		return n.children, nil
	}
	entries, err := os.ReadDir(n.path)
	if err != nil {
		return nil, classify("read dir", n.path, err)
	}
	children := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		child := &Node{
			path:   filepath.Join(n.path, entry.Name()),
			name:   entry.Name(),
			kind:   kindOf(entry.Type()),
			parent: n,
			order:  n.order,
		}
		// Size and mtime come from an extra stat; an entry that vanished
		// mid-listing keeps zero values rather than failing the snapshot.
		if fi, err := entry.Info(); err == nil {
			child.size = fi.Size()
			child.modTime = fi.ModTime()
		}
		children = append(children, child)
	}
	sortNodes(children, n.order)
	n.children = children
	n.loaded = true
	return n.children, nil
}

// Parent materializes the filesystem parent of this node with its listing
// loaded, and splices the receiver in place of its own fresh duplicate so
// the caller's identity-based adoption check (Tree.Ascend) can find it.
// The duplicate is released immediately, keeping one live Node per path.
// Returns ErrNoParent when the node is already at the filesystem root.
//
// Reconciling the returned node with the live tree remains the caller's
// responsibility: if the receiver's entry vanished from the fresh listing,
// the receiver is simply absent and the caller must reclaim it.
func (n *Node) Parent() (*Node, error) {
	if n.released {
		return nil, ErrReleased
	}
	dir := filepath.Dir(n.path)
	if dir == n.path {
		return nil, ErrNoParent
	}
	p, err := NewNode(dir)
	if err != nil {
		return nil, err
	}
	p.order = n.order
	if _, err := p.LoadChildren(); err != nil {
		return nil, err
	}
	for i, c := range p.children {
		if c.name == n.name {
			c.released = true
			p.children[i] = n
			n.parent = p
			break
		}
	}
	return p, nil
}

// IndexOfChild searches the immediate, already-loaded children for pointer
// identity with target and returns its position, or -1. It never searches
// deeper and never triggers a load.
func (n *Node) IndexOfChild(target *Node) int {
	for i, c := range n.children {
		if c == target {
			return i
		}
	}
	return -1
}

// DetachChildrenExcept destroys every loaded child except keep and removes
// keep from the children list without destroying it, leaving keep ownerless
// and ready to be adopted elsewhere. The node's listing reverts to "not
// loaded". This is the one operation that must never reach a subtree the
// caller intends to keep.
func (n *Node) DetachChildrenExcept(keep *Node) {
	for _, c := range n.children {
		if c == keep {
			continue
		}
		c.destroy()
	}
	n.children = nil
	n.loaded = false
	if keep != nil {
		keep.parent = nil
	}
}

// Destroy recursively releases this node and every loaded descendant. Safe
// to call only on a node no longer reachable from the live tree. Releasing
// twice is a no-op.
func (n *Node) Destroy() { n.destroy() }

func (n *Node) destroy() {
	if n.released {
		return
	}
	for _, c := range n.children {
		c.destroy()
	}
	n.children = nil
	n.parent = nil
	n.loaded = false
	n.released = true
}

// SortChildren re-sorts the immediate children in place and recurses into
// every already-loaded descendant, so the whole materialized subtree
// reflects the new order. Listings loaded afterwards inherit it too.
func (n *Node) SortChildren(field SortField, dir SortDirection) {
	n.sortSubtree(sortSpec{field: field, dir: dir})
}

func (n *Node) sortSubtree(spec sortSpec) {
	n.order = spec
	if !n.loaded {
		return
	}
	sortNodes(n.children, spec)
	for _, c := range n.children {
		c.sortSubtree(spec)
	}
}

// Enterable reports whether descending into this directory is likely to
// succeed. Non-directories and released nodes are never enterable.
func (n *Node) Enterable() bool {
	if n.released || n.kind != KindDir {
		return false
	}
	return dirAccessible(n.path)
}

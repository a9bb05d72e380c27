package fstree

import "fmt"

// Tree owns the live Node graph rooted at the current focus. At all times
// exactly one Node is root and every other live Node is reachable from it
// through child links; focus changes are atomic from the consumer's point
// of view. Tree is not safe for concurrent use — the whole model is
// single-threaded and synchronous, matching an interactively driven tool.
type Tree struct {
	root      *Node
	startPath string // original starting path, kept for reference only
	order     sortSpec
}

// New constructs a tree focused on rootPath, which must be a directory.
// This is the one place an I/O failure is fatal to the caller.
func New(rootPath string) (*Tree, error) {
	n, err := NewNode(rootPath)
	if err != nil {
		return nil, err
	}
	if !n.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", n.Path())
	}
	return &Tree{root: n, startPath: n.Path(), order: n.order}, nil
}

// Root returns the current focus node.
func (t *Tree) Root() *Node { return t.root }

// StartPath returns the path the tree was originally constructed with.
func (t *Tree) StartPath() string { return t.startPath }

// Ascend moves focus to the current root's filesystem parent and returns
// the new root. At the filesystem root it returns ErrNoParent and leaves
// the tree unchanged; any other error also leaves the tree unchanged.
//
// Adoption is by identity, not path equality: Parent splices the current
// root into the fresh listing when its entry still exists, so IndexOfChild
// normally finds it and the subtree below the old root survives intact. If
// the entry vanished between listings the old root is a distinct orphaned
// materialization and is destroyed explicitly — directory listing gives no
// free adoption guarantee, so the reclaim cannot be skipped.
func (t *Tree) Ascend() (*Node, error) {
	parent, err := t.root.Parent()
	if err != nil {
		return nil, err
	}
	if parent.IndexOfChild(t.root) < 0 {
		t.root.destroy()
	}
	t.root = parent
	return parent, nil
}

// Descend moves focus to target, a node reachable anywhere below the
// current root. Everything outside target's subtree is destroyed: siblings
// at target's level first (via detach), then the ancestor chain between the
// old root and target's parent. Detaching target strictly precedes the
// ancestor teardown — reversing the order would free the very subtree being
// kept. If target is not part of the current tree, returns ErrNotInTree
// with the tree unchanged.
func (t *Tree) Descend(target *Node) (*Node, error) {
	if target == nil || target == t.root {
		return nil, ErrNotInTree
	}
	parent := t.FindParent(target)
	if parent == nil {
		return nil, ErrNotInTree
	}
	parent.DetachChildrenExcept(target)
	old := t.root
	t.root = target
	// target was excised above, so this teardown cannot reach it. When
	// parent == old the old root is already childless and only the node
	// itself is released.
	old.destroy()
	return target, nil
}

// ReplaceRoot unconditionally installs newRoot as the focus and destroys
// the previous graph. Used when the caller already holds a disjoint Node,
// e.g. from a change-directory action; if newRoot happens to live inside
// the current tree it is excised first so the teardown cannot reach it.
func (t *Tree) ReplaceRoot(newRoot *Node) {
	if newRoot == nil || newRoot == t.root {
		return
	}
	if parent := t.FindParent(newRoot); parent != nil {
		parent.DetachChildrenExcept(newRoot)
	}
	old := t.root
	t.root = newRoot
	newRoot.parent = nil
	old.destroy()
}

// FindParent returns target's immediate parent within the current tree via
// a read-only pre-order search, or nil if target is not reachable from the
// root. It only consults already-loaded children and triggers no I/O.
func (t *Tree) FindParent(target *Node) *Node {
	if target == nil {
		return nil
	}
	return findParent(t.root, target)
}

func findParent(n, target *Node) *Node {
	for _, c := range n.children {
		if c == target {
			return n
		}
	}
	for _, c := range n.children {
		if p := findParent(c, target); p != nil {
			return p
		}
	}
	return nil
}

// Sort sets the tree's sort order and re-sorts every materialized sibling
// list. Listings loaded later inherit the order from their parent node.
func (t *Tree) Sort(field SortField, dir SortDirection) {
	t.order = sortSpec{field: field, dir: dir}
	t.root.sortSubtree(t.order)
}

// SortField returns the current sort field.
func (t *Tree) SortField() SortField { return t.order.field }

// SortDirection returns the current sort direction.
func (t *Tree) SortDirection() SortDirection { return t.order.dir }

// Iterate returns a fresh flattening iterator over the current root. Any
// Tree mutation invalidates outstanding iterators and their entries;
// consumers rebuild after every focus change.
func (t *Tree) Iterate(policy DepthPolicy, showHidden bool) *Iterator {
	return NewIterator(t.root, policy, showHidden)
}

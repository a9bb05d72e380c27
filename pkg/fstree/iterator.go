package fstree

import "strconv"

// DepthPolicy governs how far the Iterator expands directories below the
// iteration root.
type DepthPolicy struct {
	kind  depthKind
	limit int
}

type depthKind int

const (
	depthNone depthKind = iota
	depthLoaded
	depthBounded
	depthAll
)

// NoExpand emits only the root entry.
func NoExpand() DepthPolicy { return DepthPolicy{kind: depthNone} }

// ExpandLoaded expands a directory only if its children are already
// materialized; iteration itself triggers no I/O.
func ExpandLoaded() DepthPolicy { return DepthPolicy{kind: depthLoaded} }

// ExpandToDepth expands directories up to n levels below the iteration
// root; deeper directories are emitted as collapsed leaves. n <= 0 behaves
// like NoExpand.
func ExpandToDepth(n int) DepthPolicy {
	if n <= 0 {
		return NoExpand()
	}
	return DepthPolicy{kind: depthBounded, limit: n}
}

// ExpandAll expands every directory encountered, loading children on
// demand.
func ExpandAll() DepthPolicy { return DepthPolicy{kind: depthAll} }

// Limit returns the bound of a bounded policy and -1 otherwise.
func (p DepthPolicy) Limit() int {
	if p.kind != depthBounded {
		return -1
	}
	return p.limit
}

func (p DepthPolicy) String() string {
	switch p.kind {
	case depthNone:
		return "collapsed"
	case depthLoaded:
		return "loaded"
	case depthBounded:
		return "depth " + strconv.Itoa(p.limit)
	default:
		return "all"
	}
}

// expands reports whether a directory at depth may be expanded, and
// loads reports whether expansion may trigger a listing load.
func (p DepthPolicy) expands(n *Node, depth int) bool {
	switch p.kind {
	case depthLoaded:
		return n.loaded
	case depthBounded:
		return depth < p.limit
	case depthAll:
		return true
	default:
		return false
	}
}

func (p DepthPolicy) loads() bool {
	return p.kind == depthBounded || p.kind == depthAll
}

// Entry is one row of the flattened view: a non-owning Node reference plus
// the rendering hints connector drawing needs. First/Last are computed over
// the filtered (visible) sibling set, not the raw listing. Entries are
// transient — they must not be retained past the Iterator's lifetime or
// past the next Tree mutation.
type Entry struct {
	Node  *Node
	Depth int
	First bool
	Last  bool

	// Selected is free for the consumer; the iterator never sets it.
	Selected bool
}

// Iterator produces a lazy pre-order sequence of Entries rooted at a Node.
// It is finite, never revisits a Node, and is restartable only by
// reconstruction. The explicit stack keeps memory bounded by tree depth
// times fan-out rather than total tree size.
type Iterator struct {
	stack      []*Entry
	policy     DepthPolicy
	showHidden bool
	err        error
}

// NewIterator seeds the stack with the root entry (depth 0, first and last
// both set). A nil or released root yields an empty iteration.
func NewIterator(root *Node, policy DepthPolicy, showHidden bool) *Iterator {
	it := &Iterator{policy: policy, showHidden: showHidden}
	if root != nil && !root.released {
		it.stack = []*Entry{{Node: root, First: true, Last: true}}
	}
	return it
}

// Next pops and returns the next entry in pre-order, expanding eligible
// directories and pushing their visible children in reverse sibling order
// so pops come out left to right. A listing failure during expansion emits
// the directory as a collapsed leaf and is retained on Err; iteration
// continues. The second return is false when the sequence is exhausted.
func (it *Iterator) Next() (*Entry, bool) {
	if len(it.stack) == 0 {
		return nil, false
	}
	e := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	n := e.Node
	if n.IsDir() && it.policy.expands(n, e.Depth) {
		children := n.children
		if !n.loaded && it.policy.loads() {
			loaded, err := n.LoadChildren()
			if err != nil {
				// The directory stays collapsed; the failure stays
				// observable instead of being swallowed.
				it.err = err
			}
			children = loaded
		}
		visible := children
		if !it.showHidden {
			visible = make([]*Node, 0, len(children))
			for _, c := range children {
				if c.Hidden() {
					continue
				}
				visible = append(visible, c)
			}
		}
		for i := len(visible) - 1; i >= 0; i-- {
			it.stack = append(it.stack, &Entry{
				Node:  visible[i],
				Depth: e.Depth + 1,
				First: i == 0,
				Last:  i == len(visible)-1,
			})
		}
	}
	return e, true
}

// Err returns the most recent listing failure encountered during
// expansion, or nil. It does not end the iteration.
func (it *Iterator) Err() error { return it.err }

// Collect drains the iterator into a slice. Convenience for the UI, which
// rebuilds the full visible list after every mutation anyway.
func (it *Iterator) Collect() []*Entry {
	var out []*Entry
	for {
		e, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

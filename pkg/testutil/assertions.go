package testutil

import (
	"testing"

	"github.com/vanderheijden86/larch/pkg/fstree"
)

// AssertLiveUnique walks the materialized graph from the tree's root and
// verifies the core lifetime invariants: no path appears twice, no
// released node is reachable, and every child's parent pointer leads back
// to the node that owns it.
func AssertLiveUnique(t *testing.T, tree *fstree.Tree) {
	t.Helper()
	seen := make(map[string]bool)
	var walk func(n *fstree.Node)
	walk = func(n *fstree.Node) {
		if n.Released() {
			t.Errorf("released node %s reachable from root", n.Path())
			return
		}
		if seen[n.Path()] {
			t.Errorf("duplicate live node for path %s", n.Path())
		}
		seen[n.Path()] = true
		for _, c := range n.Children() {
			if c.ParentNode() != n {
				t.Errorf("child %s has stale parent pointer", c.Path())
			}
			walk(c)
		}
	}
	walk(tree.Root())
}

// AssertDestroyed verifies that a whole subtree handed over before a
// teardown was actually released.
func AssertDestroyed(t *testing.T, nodes ...*fstree.Node) {
	t.Helper()
	for _, n := range nodes {
		if !n.Released() {
			t.Errorf("expected node %s to be released", n.Path())
		}
	}
}

// AssertAlive verifies that a preserved subtree was not touched by a
// teardown.
func AssertAlive(t *testing.T, nodes ...*fstree.Node) {
	t.Helper()
	for _, n := range nodes {
		if n.Released() {
			t.Errorf("expected node %s to stay alive", n.Path())
		}
	}
}

// IterNames drains a fresh iterator into the entry names in emission
// order. Depth is encoded implicitly by the caller's expectations.
func IterNames(tree *fstree.Tree, policy fstree.DepthPolicy, showHidden bool) []string {
	var names []string
	for _, e := range tree.Iterate(policy, showHidden).Collect() {
		names = append(names, e.Node.Name())
	}
	return names
}

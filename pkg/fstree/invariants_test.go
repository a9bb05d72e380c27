package fstree_test

import (
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/larch/pkg/fstree"
)

// fixtureTree writes a small nested hierarchy with several branching
// points so random descend/ascend sequences have somewhere to go.
func fixtureTree(tb interface{ Fatalf(string, ...any) }) (string, func()) {
	base, err := os.MkdirTemp("", "larch-rapid-")
	if err != nil {
		tb.Fatalf("mkdtemp: %v", err)
	}
	for _, dir := range []string{
		"start/a/a1/a2", "start/a/aa", "start/b/b1", "start/.hidden/h1", "start/c",
	} {
		if err := os.MkdirAll(filepath.Join(base, dir), 0o755); err != nil {
			tb.Fatalf("mkdir: %v", err)
		}
	}
	for _, file := range []string{
		"start/a/f1", "start/a/a1/f2", "start/b/f3", "start/f4",
	} {
		if err := os.WriteFile(filepath.Join(base, file), []byte("x"), 0o644); err != nil {
			tb.Fatalf("write: %v", err)
		}
	}
	return filepath.Join(base, "start"), func() { _ = os.RemoveAll(base) }
}

// collectLive gathers every node reachable from the root.
func collectLive(root *fstree.Node) []*fstree.Node {
	var nodes []*fstree.Node
	var walk func(n *fstree.Node)
	walk = func(n *fstree.Node) {
		nodes = append(nodes, n)
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

// checkInvariants asserts the operation-independent lifetime contract: one live
// node per path, no released node reachable, consistent parent pointers.
func checkInvariants(t *rapid.T, tr *fstree.Tree) {
	seen := make(map[string]bool)
	for _, n := range collectLive(tr.Root()) {
		if n.Released() {
			t.Fatalf("released node %s reachable from root", n.Path())
		}
		if seen[n.Path()] {
			t.Fatalf("duplicate live node for path %s", n.Path())
		}
		seen[n.Path()] = true
		for _, c := range n.Children() {
			if c.ParentNode() != n {
				t.Fatalf("child %s has stale parent pointer", c.Path())
			}
		}
	}
	if tr.Root().ParentNode() != nil {
		t.Fatalf("root must be ownerless")
	}
}

// TestTreeOpsKeepLifetimeInvariants drives random sequences of load,
// descend, ascend and sort operations and checks after every step that
// exactly one live node exists per path and nothing released stays
// reachable.
func TestTreeOpsKeepLifetimeInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start, cleanup := fixtureTree(t)
		defer cleanup()

		tr, err := fstree.New(start)
		if err != nil {
			t.Fatalf("new tree: %v", err)
		}

		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0: // load a random reachable directory
				live := collectLive(tr.Root())
				n := live[rapid.IntRange(0, len(live)-1).Draw(t, "load")]
				if n.IsDir() {
					_, _ = n.LoadChildren()
				}
			case 1: // descend onto a random reachable directory
				var dirs []*fstree.Node
				for _, n := range collectLive(tr.Root()) {
					if n != tr.Root() && n.IsDir() {
						dirs = append(dirs, n)
					}
				}
				if len(dirs) == 0 {
					continue
				}
				target := dirs[rapid.IntRange(0, len(dirs)-1).Draw(t, "target")]
				if _, err := tr.Descend(target); err != nil {
					t.Fatalf("descend %s: %v", target.Path(), err)
				}
				if tr.Root() != target {
					t.Fatalf("descend did not move focus")
				}
			case 2: // ascend, staying inside the fixture
				if tr.Root().Path() == start {
					continue
				}
				if _, err := tr.Ascend(); err != nil {
					t.Fatalf("ascend: %v", err)
				}
			case 3: // re-sort the materialized graph
				field := fstree.SortField(rapid.IntRange(0, int(fstree.NumSortFields)-1).Draw(t, "field"))
				dir := fstree.SortDirection(rapid.IntRange(0, 1).Draw(t, "dir"))
				tr.Sort(field, dir)
			}
			checkInvariants(t, tr)
		}

		// A full expansion after the walk revisits nothing and stays
		// duplicate-free.
		seen := make(map[string]bool)
		it := tr.Iterate(fstree.ExpandAll(), true)
		for {
			e, ok := it.Next()
			if !ok {
				break
			}
			if seen[e.Node.Path()] {
				t.Fatalf("iterator revisited %s", e.Node.Path())
			}
			seen[e.Node.Path()] = true
		}
		checkInvariants(t, tr)
	})
}

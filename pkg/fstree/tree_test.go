package fstree_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/larch/pkg/fstree"
	"github.com/vanderheijden86/larch/pkg/testutil"
)

// childByName fetches a loaded child or fails the test.
func childByName(t *testing.T, n *fstree.Node, name string) *fstree.Node {
	t.Helper()
	if _, err := n.LoadChildren(); err != nil {
		t.Fatalf("load %s: %v", n.Path(), err)
	}
	for _, c := range n.Children() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("child %s not found under %s", name, n.Path())
	return nil
}

func TestNewRejectsNonDirectory(t *testing.T) {
	root := testutil.TempTree(t, map[string]string{"f": "x"})
	if _, err := fstree.New(filepath.Join(root, "f")); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestNewMissingPath(t *testing.T) {
	_, err := fstree.New(filepath.Join(t.TempDir(), "gone"))
	if !errors.Is(err, fstree.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAscendAdoptsCurrentRoot(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{
		"sub/deep/file": "x", "sibling": "",
	})
	tr, err := fstree.New(filepath.Join(base, "sub"))
	if err != nil {
		t.Fatal(err)
	}
	oldRoot := tr.Root()
	deep := childByName(t, oldRoot, "deep")
	if _, err := deep.LoadChildren(); err != nil {
		t.Fatal(err)
	}
	deepChildren := deep.Children()

	newRoot, err := tr.Ascend()
	if err != nil {
		t.Fatalf("ascend: %v", err)
	}
	if newRoot.Path() != base {
		t.Errorf("new root = %s, want %s", newRoot.Path(), base)
	}
	if newRoot.IndexOfChild(oldRoot) < 0 {
		t.Fatal("old root was not adopted by the new parent")
	}

	// The previously materialized subtree survives untouched: same
	// identities, same load state.
	testutil.AssertAlive(t, oldRoot, deep)
	if deep.Children()[0] != deepChildren[0] {
		t.Error("descendant identity changed across ascend")
	}
	testutil.AssertLiveUnique(t, tr)
}

func TestAscendAtFilesystemRootIsNoOp(t *testing.T) {
	tr, err := fstree.New(string(filepath.Separator))
	if err != nil {
		t.Fatal(err)
	}
	before := tr.Root()
	if _, err := tr.Ascend(); !errors.Is(err, fstree.ErrNoParent) {
		t.Fatalf("expected ErrNoParent, got %v", err)
	}
	if tr.Root() != before {
		t.Error("root changed on failed ascend")
	}
	testutil.AssertAlive(t, before)
}

func TestAscendReclaimsVanishedRoot(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{"sub/f": "x", "other": ""})
	sub := filepath.Join(base, "sub")
	tr, err := fstree.New(sub)
	if err != nil {
		t.Fatal(err)
	}
	oldRoot := tr.Root()
	if _, err := oldRoot.LoadChildren(); err != nil {
		t.Fatal(err)
	}

	// The directory disappears between materializations: the fresh parent
	// listing has no entry to splice, so the orphaned root must be
	// destroyed rather than leaked.
	if err := os.RemoveAll(sub); err != nil {
		t.Fatal(err)
	}
	newRoot, err := tr.Ascend()
	if err != nil {
		t.Fatalf("ascend: %v", err)
	}
	if newRoot.Path() != base {
		t.Errorf("new root = %s, want %s", newRoot.Path(), base)
	}
	testutil.AssertDestroyed(t, oldRoot)
	testutil.AssertLiveUnique(t, tr)
}

func TestDescendDirectChild(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{
		"target/inner": "x", "drop/": "", "loose": "",
	})
	tr, err := fstree.New(base)
	if err != nil {
		t.Fatal(err)
	}
	oldRoot := tr.Root()
	target := childByName(t, oldRoot, "target")
	drop := childByName(t, oldRoot, "drop")
	inner := childByName(t, target, "inner")

	got, err := tr.Descend(target)
	if err != nil {
		t.Fatalf("descend: %v", err)
	}
	if got != target || tr.Root() != target {
		t.Fatal("descend did not install target as root")
	}
	testutil.AssertDestroyed(t, oldRoot, drop)
	testutil.AssertAlive(t, target, inner)
	if target.ParentNode() != nil {
		t.Error("new root must be ownerless")
	}
	testutil.AssertLiveUnique(t, tr)
}

// Rooted at base, descending onto a node two levels down must free base
// and the intermediate directory but leave the target subtree fully
// intact and iterable.
func TestDescendTwoLevels(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{
		"a/b/c/leaf": "x", "a/stray": "", "top": "",
	})
	tr, err := fstree.New(base)
	if err != nil {
		t.Fatal(err)
	}
	oldRoot := tr.Root()
	a := childByName(t, oldRoot, "a")
	b := childByName(t, a, "b")
	c := childByName(t, b, "c")
	leaf := childByName(t, c, "leaf")
	stray := childByName(t, a, "stray")

	if _, err := tr.Descend(c); err != nil {
		t.Fatalf("descend: %v", err)
	}

	testutil.AssertDestroyed(t, oldRoot, a, b, stray)
	testutil.AssertAlive(t, c, leaf)
	if c.Children()[0] != leaf {
		t.Error("target lost its loaded children")
	}

	names := testutil.IterNames(tr, fstree.ExpandAll(), false)
	if len(names) != 2 || names[0] != "c" || names[1] != "leaf" {
		t.Errorf("post-descend iteration = %v", names)
	}
	testutil.AssertLiveUnique(t, tr)
}

func TestDescendNotInTree(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{"a/": ""})
	other := testutil.TempTree(t, map[string]string{"b/": ""})
	tr, err := fstree.New(base)
	if err != nil {
		t.Fatal(err)
	}
	before := tr.Root()
	foreign, err := fstree.NewNode(filepath.Join(other, "b"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tr.Descend(foreign); !errors.Is(err, fstree.ErrNotInTree) {
		t.Fatalf("expected ErrNotInTree, got %v", err)
	}
	if tr.Root() != before {
		t.Error("root changed on failed descend")
	}
	if _, err := tr.Descend(nil); !errors.Is(err, fstree.ErrNotInTree) {
		t.Errorf("nil target: expected ErrNotInTree, got %v", err)
	}
	testutil.AssertLiveUnique(t, tr)
}

func TestAscendDescendRoundTrip(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{"sub/f": "x", "peer/": ""})
	tr, err := fstree.New(filepath.Join(base, "sub"))
	if err != nil {
		t.Fatal(err)
	}
	original := tr.Root()

	if _, err := tr.Ascend(); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Descend(original); err != nil {
		t.Fatalf("descend back: %v", err)
	}
	if tr.Root() != original {
		t.Error("round trip lost the original root identity")
	}
	testutil.AssertLiveUnique(t, tr)
}

func TestReplaceRootDisjoint(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{"a/": ""})
	other := testutil.TempTree(t, map[string]string{"c": "x"})
	tr, err := fstree.New(base)
	if err != nil {
		t.Fatal(err)
	}
	oldRoot := tr.Root()
	a := childByName(t, oldRoot, "a")

	fresh, err := fstree.NewNode(other)
	if err != nil {
		t.Fatal(err)
	}
	tr.ReplaceRoot(fresh)

	if tr.Root() != fresh {
		t.Fatal("replaceRoot did not install the new root")
	}
	testutil.AssertDestroyed(t, oldRoot, a)
	testutil.AssertLiveUnique(t, tr)
}

func TestReplaceRootWithDescendant(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{"a/b": "x", "peer/": ""})
	tr, err := fstree.New(base)
	if err != nil {
		t.Fatal(err)
	}
	oldRoot := tr.Root()
	a := childByName(t, oldRoot, "a")
	b := childByName(t, a, "b")

	tr.ReplaceRoot(a)

	if tr.Root() != a {
		t.Fatal("replaceRoot did not install the descendant")
	}
	testutil.AssertDestroyed(t, oldRoot)
	testutil.AssertAlive(t, a, b)
	testutil.AssertLiveUnique(t, tr)
}

func TestFindParent(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{"a/b/c": "x"})
	tr, err := fstree.New(base)
	if err != nil {
		t.Fatal(err)
	}
	a := childByName(t, tr.Root(), "a")
	b := childByName(t, a, "b")
	c := childByName(t, b, "c")

	if got := tr.FindParent(c); got != b {
		t.Errorf("FindParent(c) = %v, want b", got)
	}
	if got := tr.FindParent(tr.Root()); got != nil {
		t.Errorf("FindParent(root) = %v, want nil", got)
	}

	foreign, err := fstree.NewNode(base)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.FindParent(foreign); got != nil {
		t.Errorf("FindParent(foreign) = %v, want nil", got)
	}
}

func TestSortAppliesToFreshListings(t *testing.T) {
	base := testutil.TempTree(t, map[string]string{
		"dir/aa": "", "dir/zz": "", "x": "", "y": "",
	})
	tr, err := fstree.New(base)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Root().LoadChildren(); err != nil {
		t.Fatal(err)
	}

	tr.Sort(fstree.SortByName, fstree.SortDescending)
	if got := tr.Root().Children()[0].Name(); got != "y" {
		t.Errorf("materialized order not descending, first = %s", got)
	}

	// A listing loaded after the sort change inherits the order.
	dir := childByName(t, tr.Root(), "dir")
	if _, err := dir.LoadChildren(); err != nil {
		t.Fatal(err)
	}
	if got := dir.Children()[0].Name(); got != "zz" {
		t.Errorf("fresh listing ignored the current order, first = %s", got)
	}
}

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/larch/pkg/fstree"
)

// printTree writes the flattened tree in the classic tree(1) shape.
func printTree(w io.Writer, tree *fstree.Tree, policy fstree.DepthPolicy, showHidden bool) error {
	it := tree.Iterate(policy, showHidden)
	var openAtDepth []bool

	dirs, files := 0, 0
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		if e.Node.IsDir() {
			dirs++
		} else {
			files++
		}

		if e.Depth == 0 {
			fmt.Fprintln(w, e.Node.Path())
			continue
		}
		for len(openAtDepth) <= e.Depth {
			openAtDepth = append(openAtDepth, false)
		}

		var b strings.Builder
		for level := 1; level < e.Depth; level++ {
			if openAtDepth[level] {
				b.WriteString("│   ")
			} else {
				b.WriteString("    ")
			}
		}
		if e.Last {
			b.WriteString("└── ")
		} else {
			b.WriteString("├── ")
		}
		openAtDepth[e.Depth] = !e.Last

		name := e.Node.Name()
		if e.Node.IsDir() {
			name += "/"
		}
		fmt.Fprintf(w, "%s%s\n", b.String(), name)
	}

	fmt.Fprintf(w, "\n%d directories, %d files\n", dirs, files)
	return it.Err()
}

// jsonNode is the serialized form of one tree entry.
type jsonNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Kind     string      `json:"kind"`
	Size     int64       `json:"size,omitempty"`
	ModTime  time.Time   `json:"mtime"`
	Children []*jsonNode `json:"children,omitempty"`
}

func kindLabel(k fstree.Kind) string {
	switch k {
	case fstree.KindDir:
		return "directory"
	case fstree.KindFile:
		return "file"
	case fstree.KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// printJSON writes the tree as one nested JSON document. Pre-order
// emission plus the depth field is enough to rebuild nesting with a
// stack.
func printJSON(w io.Writer, tree *fstree.Tree, policy fstree.DepthPolicy, showHidden bool) error {
	it := tree.Iterate(policy, showHidden)

	var root *jsonNode
	var stack []*jsonNode
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		jn := &jsonNode{
			Name:    e.Node.Name(),
			Path:    e.Node.Path(),
			Kind:    kindLabel(e.Node.Kind()),
			ModTime: e.Node.ModTime(),
		}
		if !e.Node.IsDir() {
			jn.Size = e.Node.Size()
		}

		if e.Depth == 0 {
			root = jn
			stack = []*jsonNode{jn}
			continue
		}
		parent := stack[e.Depth-1]
		parent.Children = append(parent.Children, jn)
		stack = append(stack[:e.Depth], jn)
	}
	if err := it.Err(); err != nil {
		return err
	}
	if root == nil {
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

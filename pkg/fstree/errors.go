package fstree

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors returned by Node and Tree operations. Callers classify
// with errors.Is; everything else wrapped by classify is an unexpected
// OS-level failure.
var (
	// ErrNoParent is returned by Parent/Ascend at the filesystem root.
	ErrNoParent = errors.New("already at filesystem root")

	// ErrNotFound means the path disappeared between stat and read.
	ErrNotFound = errors.New("entry not found")

	// ErrAccessDenied means the directory could not be read.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotInTree is returned by Descend when the target is not reachable
	// from the current root. The tree is left unchanged.
	ErrNotInTree = errors.New("node is not part of the current tree")

	// ErrReleased is returned when an operation touches a Node that has
	// already been destroyed. Holding on to a Node across a focus change
	// is a caller bug; this makes it fail loudly instead of silently
	// reading stale state.
	ErrReleased = errors.New("node has been released")
)

// classify wraps an OS error with the matching sentinel so callers can use
// errors.Is without caring which syscall failed.
func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w", op, path, ErrAccessDenied)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}

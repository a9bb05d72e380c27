//go:build unix

package fstree

import "golang.org/x/sys/unix"

// dirAccessible reports whether the directory at path can be opened and
// listed by the current process. Cheaper than an open/readdir probe.
func dirAccessible(path string) bool {
	return unix.Access(path, unix.R_OK|unix.X_OK) == nil
}

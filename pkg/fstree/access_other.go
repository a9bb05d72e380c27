//go:build !unix

package fstree

import "os"

// dirAccessible probes with an actual open on platforms without a usable
// access(2); the handle is closed immediately.
func dirAccessible(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

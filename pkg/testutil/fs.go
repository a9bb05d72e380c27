// Package testutil provides on-disk fixture trees and assertion helpers
// shared by the larch test suites.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteTree materializes the given entries under root. Keys are
// slash-separated paths relative to root; a key ending in "/" creates an
// empty directory, anything else a file with the value as content. Parent
// directories are created as needed.
func WriteTree(t *testing.T, root string, entries map[string]string) {
	t.Helper()
	for rel, content := range entries {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", path, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// TempTree creates a fresh temp directory populated via WriteTree and
// returns its path. Cleanup is handled by t.TempDir.
func TempTree(t *testing.T, entries map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, entries)
	return root
}

// Touch creates an empty file at the given path, failing the test on
// error.
func Touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

// RequireNotRoot skips tests that rely on permission denial, which never
// triggers when running as root (common in CI containers).
func RequireNotRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks are a no-op for root")
	}
}

package fstree

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// duWorkers bounds the number of subtrees walked concurrently.
const duWorkers = 4

// DiskUsage returns the aggregate size in bytes of every regular file
// under path. Top-level subdirectories are walked concurrently with a
// bounded errgroup; entries that vanish or refuse access mid-walk are
// skipped rather than failing the total. The walk is read-only and never
// touches Node state, so it composes with the single-threaded tree model.
func DiskUsage(ctx context.Context, path string) (int64, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, classify("read dir", path, err)
	}

	var total atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(duWorkers)

	for _, entry := range entries {
		if !entry.IsDir() {
			if fi, err := entry.Info(); err == nil && fi.Mode().IsRegular() {
				total.Add(fi.Size())
			}
			continue
		}
		sub := filepath.Join(path, entry.Name())
		g.Go(func() error {
			return walkSize(ctx, sub, &total)
		})
	}

	if err := g.Wait(); err != nil {
		return total.Load(), err
	}
	return total.Load(), nil
}

func walkSize(ctx context.Context, root string, total *atomic.Int64) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable or vanished entries just don't count.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil {
				total.Add(fi.Size())
			}
		}
		return nil
	})
}

// Package files reads the master list and the item files from disk.
package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Item is one item file. Err is set instead of Data when the file could not
// be read; it is reported for that file alone.
type Item struct {
	Name string
	Path string
	Data []byte
	Err  error
}

// ReadLists reads the master list file.
func ReadLists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the lists file: %w", err)
	}
	return data, nil
}

// ReadDir reads every regular file directly inside dir, in name order.
// Subdirectories are skipped. Only failing to list dir is an error.
func ReadDir(ctx context.Context, dir string, jobs int) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list the items folder: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return ReadPaths(ctx, paths, jobs)
}

// ReadPaths reads the given files concurrently, keeping their order. jobs
// bounds the number of files open at once; zero or less means unbounded.
func ReadPaths(ctx context.Context, paths []string, jobs int) ([]Item, error) {
	items := make([]Item, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			it := Item{Name: filepath.Base(p), Path: p}
			it.Data, it.Err = os.ReadFile(p)
			items[i] = it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

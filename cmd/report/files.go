package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/farxc/productivity-dashboard/internal/dashboard/normalize"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/logger"
	"golang.org/x/sync/errgroup"
)

// readUploads reads every given dataset file concurrently. Datasets with an
// empty path are skipped. The first read error is returned.
func readUploads(paths map[types.Dataset]string, appLogger *logger.Logger) (map[types.Dataset]normalize.Upload, error) {
	const component = "FileReader"

	uploads := make(map[types.Dataset]normalize.Upload, len(paths))
	var mu sync.Mutex
	var g errgroup.Group

	for ds, path := range paths {
		if path == "" {
			continue
		}
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				appLogger.Warn(component, "Read failed: dataset=%s path=%s error=%v", ds.Slot(), path, err)
				return fmt.Errorf("%s: %w", ds, err)
			}
			appLogger.Debug(component, "File read: dataset=%s path=%s bytes=%d", ds.Slot(), path, len(content))

			mu.Lock()
			uploads[ds] = normalize.Upload{Name: filepath.Base(path), Content: content}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uploads, nil
}

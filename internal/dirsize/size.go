package dirsize

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Calculator sums the sizes of regular files below a directory.
type Calculator struct {
	// Workers is the number of fastwalk goroutines (0 = fastwalk default).
	Workers int
	// Diagnose, if set, receives paths that could not be read. It is never
	// called concurrently.
	Diagnose func(path string, err error)
}

// Size returns the cumulative size of all regular files below path.
//
// Symbolic links are not followed and special files are ignored. Unreadable
// entries contribute zero and are passed to Diagnose; their siblings are
// still counted. A missing path or a path that is not a directory yields 0.
//
// Cancellation is checked on every file. Once ctx is done the walk stops and
// the partial sum is returned.
func (c Calculator) Size(ctx context.Context, path string) int64 {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return 0
	}

	var (
		total atomic.Int64
		mu    sync.Mutex
	)

	diagnose := func(path string, err error) {
		if c.Diagnose == nil {
			return
		}

		mu.Lock()
		defer mu.Unlock()
		c.Diagnose(path, err)
	}

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: c.Workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			diagnose(path, err)

			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		fileInfo, err := d.Info()
		if err != nil {
			diagnose(path, err)

			return nil //nolint:nilerr // Unreadable files count as zero
		}

		total.Add(fileInfo.Size())

		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
		diagnose(path, walkErr)
	}

	return total.Load()
}

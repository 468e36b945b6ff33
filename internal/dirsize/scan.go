package dirsize

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output to stderr if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Scanner walks a tree and yields its qualifying directories.
type Scanner struct {
	// Calculator measures each visited directory.
	Calculator Calculator
	// Debug enables debug output.
	Debug bool
}

// walk holds the state of one scan. Nothing in it outlives the scan.
type walk struct {
	calc   Calculator
	log    logger
	params Params
	yield  func(Record) bool
	order  int
}

// Scan returns a sequence of the qualifying directories below params.Root in
// depth-first discovery order. Records are produced while the tree is walked;
// every iteration of the sequence performs a fresh scan with its own discovery
// counter.
//
// A directory qualifies when its size is at least params.MinSize. Only
// qualifying directories are expanded, and only while their depth is below
// params.MaxDepth, so a small parent hides large descendants.
//
// params is used as given; call Params.Validate first to resolve the root.
// Cancelling ctx ends the sequence early. Although Calculator.Size returns
// the partial sum of an interrupted measurement, a directory whose
// measurement was interrupted by cancellation is not yielded, so every
// yielded record carries a complete size.
//
// A qualifying directory whose children cannot be listed is reported to
// Calculator.Diagnose and not expanded; the scan continues with its siblings.
func (s Scanner) Scan(ctx context.Context, params Params) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		w := &walk{
			calc:   s.Calculator,
			log:    logger{enabled: s.Debug},
			params: params,
			yield:  yield,
		}

		w.log.printf("[debug]: scanning %s (min size %d, max depth %d)\n", params.Root, params.MinSize, params.MaxDepth)
		w.visit(ctx, params.Root, 0)
	}
}

// visit evaluates dir and descends into its subdirectories if it qualifies.
// It returns false once the scan must stop.
func (w *walk) visit(ctx context.Context, dir string, depth int) bool {
	if ctx.Err() != nil {
		return false
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		w.log.printf("[debug]: skipping vanished path %s\n", dir)

		return true
	}

	size := w.calc.Size(ctx, dir)
	if ctx.Err() != nil {
		w.log.printf("[debug]: cancelled while measuring %s\n", dir)

		return false
	}

	if size < w.params.MinSize {
		w.log.printf("[debug]: below threshold (%d bytes): %s\n", size, dir)

		return true
	}

	record := newRecord(dir, size, w.order, depth)
	w.order++

	if !w.yield(record) {
		return false
	}

	if depth >= w.params.MaxDepth {
		return true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.printf("[debug]: error listing %s: %v\n", dir, err)

		if w.calc.Diagnose != nil {
			w.calc.Diagnose(dir, err)
		}

		return true
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if !w.visit(ctx, filepath.Join(dir, entry.Name()), depth+1) {
			return false
		}
	}

	return true
}

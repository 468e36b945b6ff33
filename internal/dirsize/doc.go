// Package dirsize finds the directories of a tree whose cumulative size
// meets a threshold.
//
// A scan starts at a root and descends depth-first, measuring every
// directory it reaches with a parallel fastwalk traversal. Only directories
// that qualify are expanded further, and expansion stops at a configurable
// depth. Qualifying directories are yielded lazily as they are discovered
// and can be rendered into a report ordered by size, path or discovery order.
package dirsize

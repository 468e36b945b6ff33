package dirsize

import "fmt"

// SizeColumn is the width of the size column in rendered lines.
const SizeColumn = 13

// Record describes one qualifying directory.
type Record struct {
	// Path is the absolute directory path.
	Path string `json:"path"`
	// Size is the cumulative size of all regular files below Path.
	Size int64 `json:"size"`
	// Readable is Size formatted by ReadableSize.
	Readable string `json:"readable"`
	// Order is the discovery index within the scan, starting at 0.
	Order int `json:"order"`
	// Depth is the number of edges between the scan root and Path.
	Depth int `json:"depth"`
}

func newRecord(path string, size int64, order, depth int) Record {
	return Record{
		Path:     path,
		Size:     size,
		Readable: ReadableSize(size),
		Order:    order,
		Depth:    depth,
	}
}

// Line renders the record as an aligned size column followed by the path.
func (r Record) Line() string {
	return fmt.Sprintf("%-*s%s", SizeColumn, r.Readable, r.Path)
}

package dirsize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultMinSize is the default qualifying threshold in bytes.
	DefaultMinSize int64 = 100_000_000
	// DefaultMaxDepth is the default number of subdirectory levels to expand.
	DefaultMaxDepth = 3
)

// ErrNotDirectory is returned when the scan root is missing or not a directory.
var ErrNotDirectory = errors.New("not a directory")

// SortKey selects the ordering of a report.
type SortKey int

const (
	// BySize orders records by ascending size, ties broken by path.
	BySize SortKey = iota
	// ByPath orders records lexically by path.
	ByPath
	// ByStructure orders records by the order they were discovered.
	ByStructure
)

// SortKeys lists the accepted sort key names.
//
//nolint:gochecknoglobals // Lookup table
var SortKeys = []string{"size", "path", "structure"}

// String returns the flag name of the key.
func (k SortKey) String() string {
	if k < BySize || k > ByStructure {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}

	return SortKeys[k]
}

// Header returns the report header line naming the sort mode.
func (k SortKey) Header() string {
	switch k {
	case ByPath:
		return "Sorted results by path:"
	case ByStructure:
		return "Sorted results by dir structure:"
	default:
		return "Sorted results by size:"
	}
}

// ParseSortKey parses a sort key name. "dir" and "structure" are synonyms.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "size", "":
		return BySize, nil
	case "path":
		return ByPath, nil
	case "structure", "dir":
		return ByStructure, nil
	default:
		return BySize, fmt.Errorf("unknown sort key %q: must be one of %v", s, SortKeys)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SortKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SortKey) UnmarshalText(text []byte) error {
	key, err := ParseSortKey(string(text))
	if err != nil {
		return err
	}

	*k = key

	return nil
}

// Params holds the inputs of a single scan. It is read-only once the scan starts.
type Params struct {
	// Root is the directory to scan.
	Root string `json:"root"`
	// MinSize is the qualifying threshold in bytes.
	MinSize int64 `json:"min_size"`
	// MaxDepth is the number of levels below Root to expand (0 = root only).
	MaxDepth int `json:"max_depth"`
	// Sort selects the report ordering.
	Sort SortKey `json:"sort"`
}

// DefaultParams returns parameters for the current directory with the default
// threshold, depth and sort key.
func DefaultParams() Params {
	return Params{
		Root:     ".",
		MinSize:  DefaultMinSize,
		MaxDepth: DefaultMaxDepth,
		Sort:     BySize,
	}
}

// Validate resolves Root to a clean absolute path and checks that it is an
// existing directory. Negative numbers are treated as zero.
func (p Params) Validate() (Params, error) {
	if strings.TrimSpace(p.Root) == "" {
		return p, fmt.Errorf("%w: empty path", ErrNotDirectory)
	}

	abs, err := filepath.Abs(filepath.Clean(p.Root))
	if err != nil {
		return p, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return p, fmt.Errorf("%w: %q: %w", ErrNotDirectory, p.Root, err)
	}

	if !info.IsDir() {
		return p, fmt.Errorf("%w: %q", ErrNotDirectory, p.Root)
	}

	p.Root = abs
	p.MinSize = max(p.MinSize, 0)
	p.MaxDepth = max(p.MaxDepth, 0)

	return p, nil
}
